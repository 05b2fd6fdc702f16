package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

// EventRepository 活动仓储
type EventRepository interface {
	Create(ctx context.Context, ev *model.Event) error
	Get(ctx context.Context, id string) (*model.Event, error)
	// Update 覆盖全部可变字段；id 不存在返回 apperr.ErrNotFound
	Update(ctx context.Context, id string, form model.EventForm, at time.Time) error
	Delete(ctx context.Context, id string) error
	// ListFrom 返回 date >= day 的活动，date 升序
	ListFrom(ctx context.Context, day string) ([]*model.Event, error)
}

type eventRepository struct{ db *gorm.DB }

func NewEventRepository(db *gorm.DB) EventRepository { return &eventRepository{db: db} }

func (r *eventRepository) Create(ctx context.Context, ev *model.Event) error {
	return wrapErr("create event", r.db.WithContext(ctx).Create(ev).Error)
}

func (r *eventRepository) Get(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ev).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("event %s not found", id)
		}
		return nil, wrapErr("get event", err)
	}
	return &ev, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, form model.EventForm, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":      form.Title,
			"date":       form.Date,
			"time":       form.Time,
			"location":   form.Location,
			"updated_at": at,
		})
	if res.Error != nil {
		return wrapErr("update event", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("event %s not found", id)
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	return wrapErr("delete event", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Event{}).Error)
}

func (r *eventRepository) ListFrom(ctx context.Context, day string) ([]*model.Event, error) {
	var res []*model.Event
	err := r.db.WithContext(ctx).
		Where("date >= ?", day).
		Order("date ASC, id ASC").
		Find(&res).Error
	if err != nil {
		return nil, wrapErr("list events", err)
	}
	return res, nil
}
