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

func strPtr(s string) *string { return &s }

func TestNewsRepository_Ordering(t *testing.T) {
	repo := NewNewsRepository(testutil.NewDB(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	// b 与 c 同一时间，按 id 决定先后
	for _, it := range []*model.NewsItem{
		{ID: "c", Title: "c", Content: "c", Date: base.Add(time.Hour)},
		{ID: "a", Title: "a", Content: "a", Date: base},
		{ID: "b", Title: "b", Content: "b", Date: base.Add(time.Hour)},
		{ID: "d", Title: "d", Content: "d", Date: base.Add(2 * time.Hour)},
	} {
		require.NoError(t, repo.Create(ctx, it))
	}

	newest, err := repo.ListNewestFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, newsIDs(newest))

	oldest, err := repo.ListOldestFirst(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, newsIDs(oldest))
}

func TestNewsRepository_GetDeleteImages(t *testing.T) {
	repo := NewNewsRepository(testutil.NewDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.NewsItem{ID: "n1", Title: "t", Content: "c", Image: strPtr("http://x/o/images%2Fa.webp?alt=media"), Date: time.Now()}))
	require.NoError(t, repo.Create(ctx, &model.NewsItem{ID: "n2", Title: "t", Content: "c", Date: time.Now()}))

	got, err := repo.Get(ctx, "n1")
	require.NoError(t, err)
	require.NotNil(t, got.Image)
	assert.Equal(t, "http://x/o/images%2Fa.webp?alt=media", *got.Image)

	urls, err := repo.ImageURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x/o/images%2Fa.webp?alt=media"}, urls)

	inUse, err := repo.ImageInUse(ctx, "http://x/o/images%2Fa.webp?alt=media")
	require.NoError(t, err)
	assert.True(t, inUse)

	require.NoError(t, repo.Delete(ctx, "n1"))
	inUse, err = repo.ImageInUse(ctx, "http://x/o/images%2Fa.webp?alt=media")
	require.NoError(t, err)
	assert.False(t, inUse)
	_, err = repo.Get(ctx, "n1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// 删除不存在的记录不报错
	assert.NoError(t, repo.Delete(ctx, "missing"))
}

func newsIDs(items []*model.NewsItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
