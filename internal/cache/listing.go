// Package cache implements cache-aside storage of the public listings.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

const (
	newsKey        = "content:news"
	eventKeyPrefix = "content:events:"

	// Generation counters live outside the events prefix so invalidation scans skip them.
	newsGenKey   = "content:gen:news"
	eventsGenKey = "content:gen:events"
)

// NoGeneration is returned when the generation could not be read; a fill
// carrying it is dropped.
const NoGeneration int64 = -1

// ListingCache caches listNews and listEvents payloads in Redis.
// A nil *ListingCache is valid and caches nothing.
//
// Every invalidation bumps a generation counter. A reader takes the
// generation on a miss and the fill only lands if no write happened since,
// so a slow reader cannot park a pre-write listing in the cache.
type ListingCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewListingCache(rdb *redis.Client, ttl time.Duration) *ListingCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ListingCache{rdb: rdb, ttl: ttl}
}

// News returns the cached news listing on a hit, or the generation to pass
// to SetNews on a miss.
func (c *ListingCache) News(ctx context.Context) ([]*model.NewsItem, int64, bool) {
	return get[[]*model.NewsItem](ctx, c, newsKey, newsGenKey)
}

func (c *ListingCache) SetNews(ctx context.Context, gen int64, items []*model.NewsItem) {
	set(ctx, c, newsKey, newsGenKey, gen, items)
}

// Events returns the cached listing of events on or after day.
func (c *ListingCache) Events(ctx context.Context, day string) ([]*model.Event, int64, bool) {
	return get[[]*model.Event](ctx, c, eventKeyPrefix+day, eventsGenKey)
}

func (c *ListingCache) SetEvents(ctx context.Context, day string, gen int64, items []*model.Event) {
	set(ctx, c, eventKeyPrefix+day, eventsGenKey, gen, items)
}

func (c *ListingCache) InvalidateNews(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.bump(ctx, newsGenKey, newsKey); err != nil {
		logger.Warn("cache: invalidate news failed", zap.Error(err))
	}
}

// InvalidateEvents drops every per-day events listing.
func (c *ListingCache) InvalidateEvents(ctx context.Context) {
	if c == nil {
		return
	}
	// bump first: fills racing with the scan are rejected by generation
	if err := c.bump(ctx, eventsGenKey); err != nil {
		logger.Warn("cache: invalidate events failed", zap.Error(err))
		return
	}
	var keys []string
	iter := c.rdb.Scan(ctx, 0, eventKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn("cache: scan events failed", zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("cache: invalidate events failed", zap.Error(err))
	}
}

func (c *ListingCache) bump(ctx context.Context, genKey string, keys ...string) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey)
		if len(keys) > 0 {
			p.Del(ctx, keys...)
		}
		return nil
	})
	return err
}

func generation(ctx context.Context, c *ListingCache, genKey string) int64 {
	gen, err := c.rdb.Get(ctx, genKey).Int64()
	switch {
	case err == nil:
		return gen
	case errors.Is(err, redis.Nil):
		return 0
	default:
		logger.Debug("cache: read generation failed", zap.String("key", genKey), zap.Error(err))
		return NoGeneration
	}
}

func get[T any](ctx context.Context, c *ListingCache, key, genKey string) (T, int64, bool) {
	var out T
	if c == nil {
		return out, NoGeneration, false
	}
	// generation is read before the payload so a miss hands out a token older than any later write
	gen := generation(ctx, c, genKey)
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Debug("cache: get failed", zap.String("key", key), zap.Error(err))
		}
		return out, gen, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, gen, false
	}
	return out, gen, true
}

// set stores v under key only while genKey still equals gen.
func set(ctx context.Context, c *ListingCache, key, genKey string, gen int64, v any) {
	if c == nil || gen == NoGeneration {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return
	}
	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, payload, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if err != nil && !errors.Is(err, redis.TxFailedErr) {
		logger.Debug("cache: set failed", zap.String("key", key), zap.Error(err))
	}
}
