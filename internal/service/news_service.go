package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

// NewsService 新闻服务（含保留上限与图片生命周期）
type NewsService interface {
	List(ctx context.Context) ([]*model.NewsItem, error)
	Get(ctx context.Context, id string) (*model.NewsItem, error)
	Create(ctx context.Context, form model.NewsForm) (*model.NewsItem, error)
	Delete(ctx context.Context, id string) error
	// EnforceCap 按 date 升序（同 date 按 id）淘汰，直到最多剩 limit 条；返回淘汰数
	EnforceCap(ctx context.Context, limit int) (int, error)
	// Reconcile 幂等地把新闻数收敛到上限以内
	Reconcile(ctx context.Context) (int, error)
	// SweepOrphanBlobs 删除没有新闻引用的图片
	SweepOrphanBlobs(ctx context.Context) (int, error)
}

type newsService struct {
	repo  repository.NewsRepository
	blobs BlobManager
	cache ListingCache
	queue *CleanupQueue
	opts  Options
}

func NewNewsService(repo repository.NewsRepository, blobs BlobManager, cache ListingCache, queue *CleanupQueue, opts Options) NewsService {
	return &newsService{repo: repo, blobs: blobs, cache: orNoop(cache), queue: queue, opts: opts.withDefaults()}
}

func (s *newsService) List(ctx context.Context) ([]*model.NewsItem, error) {
	items, gen, ok := s.cache.News(ctx)
	if ok {
		return items, nil
	}
	items, err := s.repo.ListNewestFirst(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetNews(ctx, gen, items)
	return items, nil
}

func (s *newsService) Get(ctx context.Context, id string) (*model.NewsItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *newsService) Create(ctx context.Context, form model.NewsForm) (*model.NewsItem, error) {
	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if err := validateStruct(form); err != nil {
		return nil, err
	}

	// 先腾出一个位置，与写入前检查数量的行为一致
	if _, err := s.EnforceCap(ctx, s.opts.NewsCap-1); err != nil {
		return nil, err
	}

	var image *string
	if form.Image != nil {
		url, err := s.blobs.Upload(ctx, form.Image)
		if err != nil {
			// 上传失败不阻断新闻创建
			logger.Warn("news image upload failed, creating without image",
				zap.String("name", form.Image.Name), zap.Error(err))
		} else {
			image = &url
		}
	}

	item := &model.NewsItem{
		ID:      uuid.New().String(),
		Title:   form.Title,
		Content: form.Content,
		Image:   image,
		Date:    s.opts.Now().UTC(),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		if image != nil {
			s.dropBlob(ctx, *image)
		}
		return nil, err
	}
	s.cache.InvalidateNews(ctx)

	// 并发创建可能让数量短暂超过上限，写入后再收敛一次
	if n, err := s.EnforceCap(ctx, s.opts.NewsCap); err != nil {
		logger.Warn("news reconcile after insert failed", zap.Error(err))
	} else if n > 0 {
		logger.Info("news reconcile evicted extra items", zap.Int("evicted", n))
	}
	return item, nil
}

func (s *newsService) Delete(ctx context.Context, id string) error {
	// 需先读出图片 URL；记录不存在时返回 NotFound，不像 deleteEvent 那样静默成功
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.InvalidateNews(ctx)
	if item.Image != nil && *item.Image != "" {
		s.releaseBlob(ctx, *item.Image)
	}
	return nil
}

func (s *newsService) EnforceCap(ctx context.Context, limit int) (int, error) {
	if limit < 0 {
		limit = 0
	}
	items, err := s.repo.ListOldestFirst(ctx)
	if err != nil {
		return 0, err
	}
	if len(items) <= limit {
		return 0, nil
	}
	evicted := 0
	for _, it := range items[:len(items)-limit] {
		if err := s.repo.Delete(ctx, it.ID); err != nil {
			if evicted > 0 {
				s.cache.InvalidateNews(ctx)
			}
			return evicted, err
		}
		evicted++
		logger.Info("news evicted", zap.String("id", it.ID), zap.Time("date", it.Date))
		if it.Image != nil && *it.Image != "" {
			s.releaseBlob(ctx, *it.Image)
		}
	}
	s.cache.InvalidateNews(ctx)
	return evicted, nil
}

func (s *newsService) Reconcile(ctx context.Context) (int, error) {
	return s.EnforceCap(ctx, s.opts.NewsCap)
}

func (s *newsService) SweepOrphanBlobs(ctx context.Context) (int, error) {
	urls, err := s.repo.ImageURLs(ctx)
	if err != nil {
		return 0, err
	}
	return s.blobs.Sweep(ctx, urls, s.opts.Now().Add(-s.opts.OrphanGrace))
}

// releaseBlob 记录删除后释放其图片；仍被其他新闻引用时保留
func (s *newsService) releaseBlob(ctx context.Context, url string) {
	inUse, err := s.repo.ImageInUse(ctx, url)
	if err != nil {
		// 无法确认时保留，孤儿由定时清理回收
		logger.Warn("news image reference check failed, keeping blob", zap.String("url", url), zap.Error(err))
		return
	}
	if inUse {
		logger.Info("news image still referenced, keeping blob", zap.String("url", url))
		return
	}
	s.dropBlob(ctx, url)
}

// dropBlob 尽力删除图片：失败只记录并交给重试队列
func (s *newsService) dropBlob(ctx context.Context, url string) {
	err := s.blobs.Delete(ctx, url)
	switch {
	case err == nil:
		logger.Debug("news image deleted", zap.String("url", url))
	case errors.Is(err, apperr.ErrNotFound):
		logger.Debug("news image already gone", zap.String("url", url))
	case errors.Is(err, apperr.ErrValidation):
		reportCleanupFailure("news image url unresolvable", err, zap.String("url", url))
	default:
		reportCleanupFailure("news image delete failed", err, zap.String("url", url))
		s.queue.EnqueueDeleteBlob(url)
	}
}
