// Package app 组装配置、存储与服务
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/config"
	"github.com/d60-Lab/nousrire-site/internal/api"
	"github.com/d60-Lab/nousrire-site/internal/api/handler"
	"github.com/d60-Lab/nousrire-site/internal/blob"
	"github.com/d60-Lab/nousrire-site/internal/cache"
	"github.com/d60-Lab/nousrire-site/internal/repository"
	"github.com/d60-Lab/nousrire-site/internal/service"
	"github.com/d60-Lab/nousrire-site/pkg/database"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

// App 持有进程内共享的依赖
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Blobs      *blob.Manager
	Cleanup    *service.CleanupQueue
	News       service.NewsService
	Events     service.EventService
	Volunteers service.VolunteerService
	Janitor    *service.Janitor
}

// New 按配置打开数据库、缓存与图片存储并创建服务
func New(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	store, err := blob.NewFSStore(cfg.Storage.Root)
	if err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return Assemble(cfg, db, store, newRedis(cfg.Redis))
}

// Assemble 用已打开的依赖组装服务；rdb 可为 nil
func Assemble(cfg *config.Config, db *gorm.DB, store blob.Store, rdb *redis.Client) (*App, error) {
	loc, err := cfg.Content.Location()
	if err != nil {
		return nil, fmt.Errorf("content.time_zone: %w", err)
	}

	compressor := blob.WebPCompressor{MaxEdge: cfg.Image.MaxEdge, Quality: cfg.Image.Quality}
	blobs := blob.NewManager(store, compressor, cfg.Storage.PublicBaseURL, cfg.Storage.CacheControl)

	var listing service.ListingCache
	if lc := cache.NewListingCache(rdb, cfg.Redis.TTL); lc != nil {
		listing = lc
	}

	subs := repository.NewSubmissionRepository(db)
	queue := service.NewCleanupQueue(blobs, subs, cfg.Content.CleanupQueue)
	opts := service.Options{
		NewsCap:     cfg.Content.NewsCap,
		Location:    loc,
		OrphanGrace: cfg.Storage.OrphanGrace,
	}

	news := service.NewNewsService(repository.NewNewsRepository(db), blobs, listing, queue, opts)
	return &App{
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		Blobs:      blobs,
		Cleanup:    queue,
		News:       news,
		Events:     service.NewEventService(repository.NewEventRepository(db), listing, opts),
		Volunteers: service.NewVolunteerService(repository.NewVolunteerRepository(db), subs, queue, opts),
		Janitor:    service.NewJanitor(news, cfg.Content.JanitorInterval),
	}, nil
}

func newRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// 缓存故障只降级为直读数据库
		logger.Warn("redis unreachable, listings will hit the database", zap.String("addr", cfg.Addr), zap.Error(err))
	}
	return rdb
}

// Router 返回 HTTP 入口
func (a *App) Router() http.Handler {
	h := handler.NewHandler(a.News, a.Events, a.Volunteers, a.Blobs, a.Config.Server.MaxUploadBytes)
	return api.SetupRouter(h, a.Config)
}

// StartWorkers 启动清理重试队列与定时维护；返回停止函数
func (a *App) StartWorkers() func(context.Context) error {
	stopCleanup := a.Cleanup.Start(a.Config.Content.CleanupWorkers)
	stopJanitor := a.Janitor.Start()
	return func(ctx context.Context) error {
		return errors.Join(stopJanitor(ctx), stopCleanup(ctx))
	}
}

// Close 释放数据库与 Redis 连接
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	errs = append(errs, database.Close(a.DB))
	return errors.Join(errs...)
}
