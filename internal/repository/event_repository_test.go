package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/testutil"
)

func TestEventRepository_ListFrom(t *testing.T) {
	repo := NewEventRepository(testutil.NewDB(t))
	ctx := context.Background()

	for _, ev := range []*model.Event{
		{ID: "past", Title: "past", Date: "2025-05-31"},
		{ID: "today", Title: "today", Date: "2025-06-01"},
		{ID: "later", Title: "later", Date: "2099-01-01"},
		{ID: "soon", Title: "soon", Date: "2025-06-02"},
	} {
		require.NoError(t, repo.Create(ctx, ev))
	}

	got, err := repo.ListFrom(ctx, "2025-06-01")
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, ev := range got {
		ids[i] = ev.ID
	}
	assert.Equal(t, []string{"today", "soon", "later"}, ids)
}

func TestEventRepository_Update(t *testing.T) {
	repo := NewEventRepository(testutil.NewDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Event{ID: "e1", Title: "old", Date: "2025-06-01", Time: "10:00", Location: "Paris"}))

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	form := model.EventForm{Title: "new", Date: "2025-07-01", Time: "18:30", Location: "Nanterre"}
	require.NoError(t, repo.Update(ctx, "e1", form, at))

	got, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Title)
	assert.Equal(t, "2025-07-01", got.Date)
	assert.Equal(t, "18:30", got.Time)
	assert.Equal(t, "Nanterre", got.Location)
	assert.True(t, got.UpdatedAt.Equal(at))

	err = repo.Update(ctx, "missing", form, at)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
