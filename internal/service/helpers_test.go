package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/blob"
	"github.com/d60-Lab/nousrire-site/internal/cache"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
	"github.com/d60-Lab/nousrire-site/internal/testutil"
)

// stepClock 每次调用前进一分钟
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock(start time.Time) *stepClock { return &stepClock{now: start} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

type passthrough struct{}

func (passthrough) Compress(name string, data []byte) (blob.Asset, error) {
	return blob.Asset{Name: name, ContentType: "image/png", Data: data}, nil
}

type brokenCompressor struct{}

func (brokenCompressor) Compress(string, []byte) (blob.Asset, error) {
	return blob.Asset{}, errors.New("codec exploded")
}

// flakyStore 可让删除失败的 blob.Store
type flakyStore struct {
	blob.Store
	failDelete atomic.Bool
	deletes    atomic.Int32
}

func (s *flakyStore) Delete(ctx context.Context, p string) error {
	s.deletes.Add(1)
	if s.failDelete.Load() {
		return apperr.Backend("delete blob", errors.New("storage unavailable"))
	}
	return s.Store.Delete(ctx, p)
}

type fixture struct {
	db      *gorm.DB
	store   *flakyStore
	blobs   *blob.Manager
	queue   *CleanupQueue
	cache   *cache.ListingCache
	redis   *miniredis.Miniredis
	news    NewsService
	events  EventService
	volunts VolunteerService
}

type fixtureOpts struct {
	opts       Options
	compressor blob.Compressor
	withCache  bool
}

func newFixture(t *testing.T, fo fixtureOpts) *fixture {
	t.Helper()
	f := &fixture{db: testutil.NewDB(t), store: &flakyStore{Store: blob.NewMemStore()}}
	if fo.compressor == nil {
		fo.compressor = passthrough{}
	}
	f.blobs = blob.NewManager(f.store, fo.compressor, "http://localhost:8080", "public, max-age=31536000")

	var lc ListingCache
	if fo.withCache {
		f.redis = miniredis.RunT(t)
		rdb := redis.NewClient(&redis.Options{Addr: f.redis.Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
		f.cache = cache.NewListingCache(rdb, time.Minute)
		lc = f.cache
	}

	newsRepo := repository.NewNewsRepository(f.db)
	subs := repository.NewSubmissionRepository(f.db)
	f.queue = NewCleanupQueue(f.blobs, subs, 16)
	f.news = NewNewsService(newsRepo, f.blobs, lc, f.queue, fo.opts)
	f.events = NewEventService(repository.NewEventRepository(f.db), lc, fo.opts)
	f.volunts = NewVolunteerService(repository.NewVolunteerRepository(f.db), subs, f.queue, fo.opts)
	return f
}

func upload(name string) *model.ImageUpload {
	return &model.ImageUpload{Name: name, ContentType: "image/png", Data: []byte(name)}
}
