package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/repository"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

type cleanupAction int

const (
	actionDeleteBlob cleanupAction = iota + 1
	actionDeleteSubmission
)

func (a cleanupAction) String() string {
	switch a {
	case actionDeleteBlob:
		return "delete_blob"
	case actionDeleteSubmission:
		return "delete_submission"
	default:
		return "unknown"
	}
}

type cleanupJob struct {
	action cleanupAction
	target string // 图片 URL 或邮箱
	enqAt  time.Time
}

// BlobDeleter 删除 URL 指向的图片
type BlobDeleter interface {
	Delete(ctx context.Context, url string) error
}

// CleanupQueue 失败的尽力清理在后台重试；队列满时丢弃并告警
type CleanupQueue struct {
	blobs    BlobDeleter
	subs     repository.SubmissionRepository
	ch       chan cleanupJob
	attempts int
	backoff  time.Duration
	timeout  time.Duration
}

func NewCleanupQueue(blobs BlobDeleter, subs repository.SubmissionRepository, queueSize int) *CleanupQueue {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &CleanupQueue{
		blobs:    blobs,
		subs:     subs,
		ch:       make(chan cleanupJob, queueSize),
		attempts: 3,
		backoff:  time.Second,
		timeout:  5 * time.Second,
	}
}

// WithRetry 调整重试次数与退避基数
func (q *CleanupQueue) WithRetry(attempts int, backoff time.Duration) *CleanupQueue {
	if attempts > 0 {
		q.attempts = attempts
	}
	if backoff > 0 {
		q.backoff = backoff
	}
	return q
}

// Start 启动若干 worker；返回的停止函数会先等待队列排空（最长到 ctx 截止）
func (q *CleanupQueue) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-q.ch:
					q.run(job, stopCh)
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
	drain:
		for len(q.ch) > 0 {
			select {
			case <-ctx.Done():
				break drain
			case <-ticker.C:
			}
		}
		close(stopCh)
		wg.Wait()
		if n := len(q.ch); n > 0 {
			logger.Warn("cleanup queue stopped with pending jobs", zap.Int("pending", n))
		}
		return nil
	}
}

func (q *CleanupQueue) run(job cleanupJob, stop <-chan struct{}) {
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		err := q.exec(ctx, job)
		cancel()
		if err == nil || errors.Is(err, apperr.ErrNotFound) {
			logger.Debug("cleanup done",
				zap.Stringer("action", job.action),
				zap.String("target", job.target),
				zap.Int("attempt", attempt),
				zap.Duration("latency", time.Since(job.enqAt)),
			)
			return
		}
		if attempt >= q.attempts || errors.Is(err, apperr.ErrValidation) {
			reportCleanupFailure("cleanup gave up", err,
				zap.Stringer("action", job.action),
				zap.String("target", job.target),
				zap.Int("attempts", attempt),
			)
			return
		}
		select {
		case <-time.After(q.backoff * time.Duration(attempt)):
		case <-stop:
			reportCleanupFailure("cleanup abandoned on shutdown", err,
				zap.Stringer("action", job.action),
				zap.String("target", job.target),
				zap.Int("attempts", attempt),
			)
			return
		}
	}
}

func (q *CleanupQueue) exec(ctx context.Context, job cleanupJob) error {
	switch job.action {
	case actionDeleteBlob:
		return q.blobs.Delete(ctx, job.target)
	case actionDeleteSubmission:
		return q.subs.Delete(ctx, job.target)
	default:
		return nil
	}
}

func (q *CleanupQueue) enqueue(job cleanupJob) bool {
	if q == nil {
		return false
	}
	job.enqAt = time.Now()
	select {
	case q.ch <- job:
		return true
	default:
		logger.Warn("cleanup queue full, drop job", zap.Stringer("action", job.action), zap.String("target", job.target))
		return false
	}
}

// EnqueueDeleteBlob 稍后重试删除图片
func (q *CleanupQueue) EnqueueDeleteBlob(url string) bool {
	return q.enqueue(cleanupJob{action: actionDeleteBlob, target: url})
}

// EnqueueDeleteSubmission 稍后重试删除去重记录
func (q *CleanupQueue) EnqueueDeleteSubmission(email string) bool {
	return q.enqueue(cleanupJob{action: actionDeleteSubmission, target: email})
}

// QueueLen 当前队列长度（采样值）
func (q *CleanupQueue) QueueLen() int {
	if q == nil {
		return 0
	}
	return len(q.ch)
}
