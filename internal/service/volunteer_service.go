package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

// VolunteerService 志愿者报名服务
type VolunteerService interface {
	// List createdAt 降序；后端拒绝访问时返回 apperr.ErrPermission
	List(ctx context.Context) ([]*model.Volunteer, error)
	Create(ctx context.Context, form model.VolunteerForm) (*model.Volunteer, error)
	// Delete 删除志愿者后尽力清理同邮箱的去重记录
	Delete(ctx context.Context, id string) error
}

type volunteerService struct {
	repo  repository.VolunteerRepository
	subs  repository.SubmissionRepository
	queue *CleanupQueue
	opts  Options
}

func NewVolunteerService(repo repository.VolunteerRepository, subs repository.SubmissionRepository, queue *CleanupQueue, opts Options) VolunteerService {
	return &volunteerService{repo: repo, subs: subs, queue: queue, opts: opts.withDefaults()}
}

// submissionKey 去重记录的键
func submissionKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *volunteerService) List(ctx context.Context) ([]*model.Volunteer, error) {
	return s.repo.ListNewestFirst(ctx)
}

func (s *volunteerService) Create(ctx context.Context, form model.VolunteerForm) (*model.Volunteer, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = submissionKey(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Message = strings.TrimSpace(form.Message)
	form.Distribution = strings.TrimSpace(form.Distribution)
	if err := validateStruct(form); err != nil {
		return nil, err
	}

	exists, err := s.subs.Exists(ctx, form.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("a volunteer sign-up already exists for this email")
	}

	v := &model.Volunteer{
		ID:           uuid.New().String(),
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Message:      form.Message,
		Distribution: form.Distribution,
		CreatedAt:    s.opts.Now().UTC(),
	}
	sub := &model.VolunteerSubmission{Email: form.Email, VolunteerID: v.ID, CreatedAt: v.CreatedAt}
	if err := s.repo.CreateWithSubmission(ctx, v, sub); err != nil {
		// 并发的同邮箱报名绕过了 Exists，由主键约束兜底
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Conflict("a volunteer sign-up already exists for this email")
		}
		return nil, err
	}
	return v, nil
}

func (s *volunteerService) Delete(ctx context.Context, id string) error {
	// 需先读出邮箱以清理去重记录；记录不存在时返回 NotFound
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if v.Email != "" {
		s.cleanSubmission(ctx, submissionKey(v.Email))
	}
	return nil
}

// cleanSubmission 仅在记录存在时删除；任何失败都不返回给调用方
func (s *volunteerService) cleanSubmission(ctx context.Context, email string) {
	exists, err := s.subs.Exists(ctx, email)
	if err != nil {
		reportCleanupFailure("volunteer submission lookup failed", err, zap.String("email", email))
		s.queue.EnqueueDeleteSubmission(email)
		return
	}
	if !exists {
		return
	}
	if err := s.subs.Delete(ctx, email); err != nil {
		reportCleanupFailure("volunteer submission delete failed", err, zap.String("email", email))
		s.queue.EnqueueDeleteSubmission(email)
		return
	}
	logger.Debug("volunteer submission cleaned", zap.String("email", email))
}
