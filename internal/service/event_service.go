package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
)

// EventService 活动服务；日期不得早于“今天”
type EventService interface {
	// List 返回 date >= 今天 的活动，升序
	List(ctx context.Context) ([]*model.Event, error)
	Create(ctx context.Context, form model.EventForm) (*model.Event, error)
	Update(ctx context.Context, id string, form model.EventForm) (*model.Event, error)
	Delete(ctx context.Context, id string) error
}

type eventService struct {
	repo  repository.EventRepository
	cache ListingCache
	opts  Options
}

func NewEventService(repo repository.EventRepository, cache ListingCache, opts Options) EventService {
	return &eventService{repo: repo, cache: orNoop(cache), opts: opts.withDefaults()}
}

func (s *eventService) List(ctx context.Context) ([]*model.Event, error) {
	today := s.opts.today()
	items, gen, ok := s.cache.Events(ctx, today)
	if ok {
		return items, nil
	}
	items, err := s.repo.ListFrom(ctx, today)
	if err != nil {
		return nil, err
	}
	s.cache.SetEvents(ctx, today, gen, items)
	return items, nil
}

func (s *eventService) Create(ctx context.Context, form model.EventForm) (*model.Event, error) {
	form, err := s.check(form)
	if err != nil {
		return nil, err
	}
	now := s.opts.Now().UTC()
	ev := &model.Event{
		ID:        uuid.New().String(),
		Title:     form.Title,
		Date:      form.Date,
		Time:      form.Time,
		Location:  form.Location,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}
	s.cache.InvalidateEvents(ctx)
	return ev, nil
}

func (s *eventService) Update(ctx context.Context, id string, form model.EventForm) (*model.Event, error) {
	form, err := s.check(form)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, form, s.opts.Now().UTC()); err != nil {
		return nil, err
	}
	s.cache.InvalidateEvents(ctx)
	return &model.Event{ID: id, Title: form.Title, Date: form.Date, Time: form.Time, Location: form.Location}, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateEvents(ctx)
	return nil
}

// check 规范化并校验表单，日期按日粒度与今天比较
func (s *eventService) check(form model.EventForm) (model.EventForm, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Date = strings.TrimSpace(form.Date)
	form.Time = strings.TrimSpace(form.Time)
	form.Location = strings.TrimSpace(form.Location)
	if err := validateStruct(form); err != nil {
		return form, err
	}
	if today := s.opts.today(); form.Date < today {
		return form, apperr.Validation("event date %s must be today or later (today is %s)", form.Date, today)
	}
	return form, nil
}
