package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/config"
	"github.com/d60-Lab/nousrire-site/internal/blob"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile("")
	require.NoError(t, err)
	cfg.Server.Mode = "test"
	cfg.Content.JanitorInterval = time.Hour
	return cfg
}

func TestAssemble(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a, err := Assemble(testConfig(t), testutil.NewDB(t), blob.NewMemStore(), rdb)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	ctx := context.Background()
	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := a.News.Create(ctx, model.NewsForm{Title: title, Content: "x"})
		require.NoError(t, err)
	}
	items, err := a.News.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.True(t, mr.Exists("content:news"))

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/news", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	stop := a.StartWorkers()
	sctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	assert.NoError(t, stop(sctx))
}

func TestAssembleRejectsBadZone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.TimeZone = "Mars/Olympus"
	_, err := Assemble(cfg, testutil.NewDB(t), blob.NewMemStore(), nil)
	assert.Error(t, err)
}
