package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

// VolunteerRepository 志愿者仓储
type VolunteerRepository interface {
	// CreateWithSubmission 在一个事务内写入志愿者与去重记录
	CreateWithSubmission(ctx context.Context, v *model.Volunteer, sub *model.VolunteerSubmission) error
	Get(ctx context.Context, id string) (*model.Volunteer, error)
	Delete(ctx context.Context, id string) error
	// ListNewestFirst createdAt 降序
	ListNewestFirst(ctx context.Context) ([]*model.Volunteer, error)
}

type volunteerRepository struct{ db *gorm.DB }

func NewVolunteerRepository(db *gorm.DB) VolunteerRepository { return &volunteerRepository{db: db} }

func (r *volunteerRepository) CreateWithSubmission(ctx context.Context, v *model.Volunteer, sub *model.VolunteerSubmission) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		if sub == nil {
			return nil
		}
		return tx.Create(sub).Error
	})
	return wrapErr("create volunteer", err)
}

func (r *volunteerRepository) Get(ctx context.Context, id string) (*model.Volunteer, error) {
	var v model.Volunteer
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("volunteer %s not found", id)
		}
		return nil, wrapErr("get volunteer", err)
	}
	return &v, nil
}

func (r *volunteerRepository) Delete(ctx context.Context, id string) error {
	return wrapErr("delete volunteer", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Volunteer{}).Error)
}

func (r *volunteerRepository) ListNewestFirst(ctx context.Context) ([]*model.Volunteer, error) {
	var res []*model.Volunteer
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&res).Error; err != nil {
		return nil, wrapErr("list volunteers", err)
	}
	return res, nil
}
