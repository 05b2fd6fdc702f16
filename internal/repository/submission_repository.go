package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/model"
)

// SubmissionRepository volunteers_submissions 按邮箱键的去重记录
type SubmissionRepository interface {
	Exists(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, email string) error
}

type submissionRepository struct{ db *gorm.DB }

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository { return &submissionRepository{db: db} }

func (r *submissionRepository) Exists(ctx context.Context, email string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.VolunteerSubmission{}).
		Where("email = ?", email).
		Count(&cnt).Error; err != nil {
		return false, wrapErr("check submission", err)
	}
	return cnt > 0, nil
}

func (r *submissionRepository) Delete(ctx context.Context, email string) error {
	return wrapErr("delete submission", r.db.WithContext(ctx).Where("email = ?", email).Delete(&model.VolunteerSubmission{}).Error)
}
