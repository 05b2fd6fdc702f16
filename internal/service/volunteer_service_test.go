package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
)

func volunteerForm(email string) model.VolunteerForm {
	return model.VolunteerForm{Name: "Jeanne", Email: email, Phone: "0601020304", Message: "dispo le samedi", Distribution: "Paris 13"}
}

func TestVolunteerService_CreateRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	v, err := f.volunts.Create(ctx, volunteerForm("Jeanne@Example.org "))
	require.NoError(t, err)
	assert.Equal(t, "jeanne@example.org", v.Email)

	_, err = f.volunts.Create(ctx, volunteerForm("jeanne@example.org"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	list, err := f.volunts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVolunteerService_CreateValidation(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	bad := []model.VolunteerForm{
		{Name: "", Email: "a@b.fr", Phone: "0601020304"},
		{Name: "x", Email: "not-an-email", Phone: "0601020304"},
		{Name: "x", Email: "a@b.fr", Phone: "12"},
	}
	for _, form := range bad {
		_, err := f.volunts.Create(ctx, form)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestVolunteerService_ListNewestFirst(t *testing.T) {
	clock := newStepClock(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	f := newFixture(t, fixtureOpts{opts: Options{Now: clock.Now}})
	ctx := context.Background()

	for _, email := range []string{"a@x.fr", "b@x.fr", "c@x.fr"} {
		_, err := f.volunts.Create(ctx, volunteerForm(email))
		require.NoError(t, err)
	}
	list, err := f.volunts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c@x.fr", list[0].Email)
	assert.Equal(t, "a@x.fr", list[2].Email)
}

func TestVolunteerService_DeleteFreesEmail(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	v, err := f.volunts.Create(ctx, volunteerForm("a@x.fr"))
	require.NoError(t, err)
	require.NoError(t, f.volunts.Delete(ctx, v.ID))

	exists, err := repository.NewSubmissionRepository(f.db).Exists(ctx, "a@x.fr")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.volunts.Create(ctx, volunteerForm("a@x.fr"))
	assert.NoError(t, err)
}

func TestVolunteerService_DeleteWithoutSubmission(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	repo := repository.NewVolunteerRepository(f.db)
	require.NoError(t, repo.CreateWithSubmission(ctx, &model.Volunteer{ID: "legacy", Name: "x", Email: "legacy@x.fr", Phone: "0601020304", CreatedAt: time.Now()}, nil))

	require.NoError(t, f.volunts.Delete(ctx, "legacy"))
	assert.Zero(t, f.queue.QueueLen())
	assert.ErrorIs(t, f.volunts.Delete(ctx, "legacy"), apperr.ErrNotFound)
}

type brokenSubs struct {
	repository.SubmissionRepository
}

func (brokenSubs) Delete(context.Context, string) error {
	return apperr.Backend("delete submission", errors.New("connection reset"))
}

func TestVolunteerService_DeleteSucceedsWhenSubmissionCleanupFails(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	subs := brokenSubs{repository.NewSubmissionRepository(f.db)}
	queue := NewCleanupQueue(nil, subs, 4)
	svc := NewVolunteerService(repository.NewVolunteerRepository(f.db), subs, queue, Options{})

	v, err := svc.Create(ctx, volunteerForm("a@x.fr"))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, v.ID))

	_, err = repository.NewVolunteerRepository(f.db).Get(ctx, v.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 1, queue.QueueLen())
}

type deniedVolunteers struct {
	repository.VolunteerRepository
}

func (deniedVolunteers) ListNewestFirst(context.Context) ([]*model.Volunteer, error) {
	return nil, apperr.Permission(errors.New("permission denied for table volunteers"))
}

func TestVolunteerService_ListPermissionDenied(t *testing.T) {
	svc := NewVolunteerService(deniedVolunteers{}, nil, nil, Options{})

	_, err := svc.List(context.Background())
	require.ErrorIs(t, err, apperr.ErrPermission)
	assert.Equal(t, apperr.PermissionMessage, apperr.Message(err))
}

// staleSubs 模拟并发请求：两次 Exists 都在对方写入前返回 false
type staleSubs struct{ repository.SubmissionRepository }

func (staleSubs) Exists(context.Context, string) (bool, error) { return false, nil }

func TestVolunteerService_ConcurrentDuplicateIsConflict(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()
	subs := staleSubs{repository.NewSubmissionRepository(f.db)}
	svc := NewVolunteerService(repository.NewVolunteerRepository(f.db), subs, f.queue, Options{})

	_, err := svc.Create(ctx, volunteerForm("jeanne@example.org"))
	require.NoError(t, err)

	_, err = svc.Create(ctx, volunteerForm("jeanne@example.org"))
	require.ErrorIs(t, err, apperr.ErrConflict)
	assert.NotErrorIs(t, err, apperr.ErrBackend)
	assert.Equal(t, "a volunteer sign-up already exists for this email", apperr.Message(err))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
