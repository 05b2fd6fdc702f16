package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

// Janitor 周期性收敛新闻数量并清理孤儿图片
type Janitor struct {
	news     NewsService
	interval time.Duration
	timeout  time.Duration
}

func NewJanitor(news NewsService, interval time.Duration) *Janitor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Janitor{news: news, interval: interval, timeout: time.Minute}
}

// RunOnce 执行一轮清理；两个步骤互不影响，返回第一个错误
func (j *Janitor) RunOnce(ctx context.Context) (evicted, swept int, err error) {
	evicted, err = j.news.Reconcile(ctx)
	if err != nil {
		logger.Warn("janitor: reconcile news failed", zap.Error(err))
	}
	var sweepErr error
	swept, sweepErr = j.news.SweepOrphanBlobs(ctx)
	if sweepErr != nil {
		logger.Warn("janitor: sweep orphan blobs failed", zap.Error(sweepErr))
		if err == nil {
			err = sweepErr
		}
	}
	if evicted > 0 || swept > 0 {
		logger.Info("janitor: pass done", zap.Int("evicted", evicted), zap.Int("swept", swept))
	}
	return evicted, swept, err
}

// Start 启动后台循环；返回停止函数
func (j *Janitor) Start() func(context.Context) error {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		j.loop(stop)
	}()
	return func(ctx context.Context) error {
		close(stop)
		done := make(chan struct{})
		go func() { wg.Wait(); close(done) }()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (j *Janitor) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
			_, _, _ = j.RunOnce(ctx)
			cancel()
		}
	}
}
