package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
)

// NewsRepository 新闻仓储
type NewsRepository interface {
	Create(ctx context.Context, item *model.NewsItem) error
	Get(ctx context.Context, id string) (*model.NewsItem, error)
	Delete(ctx context.Context, id string) error
	// ListNewestFirst date 降序，相同 date 按 id 降序
	ListNewestFirst(ctx context.Context) ([]*model.NewsItem, error)
	// ListOldestFirst date 升序，相同 date 按 id 升序（淘汰顺序）
	ListOldestFirst(ctx context.Context) ([]*model.NewsItem, error)
	// ImageURLs 返回仍被引用的图片 URL
	ImageURLs(ctx context.Context) ([]string, error)
	// ImageInUse 是否仍有新闻引用该图片 URL
	ImageInUse(ctx context.Context, url string) (bool, error)
}

type newsRepository struct{ db *gorm.DB }

func NewNewsRepository(db *gorm.DB) NewsRepository { return &newsRepository{db: db} }

func (r *newsRepository) Create(ctx context.Context, item *model.NewsItem) error {
	return wrapErr("create news", r.db.WithContext(ctx).Create(item).Error)
}

func (r *newsRepository) Get(ctx context.Context, id string) (*model.NewsItem, error) {
	var item model.NewsItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("news %s not found", id)
		}
		return nil, wrapErr("get news", err)
	}
	return &item, nil
}

func (r *newsRepository) Delete(ctx context.Context, id string) error {
	return wrapErr("delete news", r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.NewsItem{}).Error)
}

func (r *newsRepository) ListNewestFirst(ctx context.Context) ([]*model.NewsItem, error) {
	return r.list(ctx, "date DESC, id DESC")
}

func (r *newsRepository) ListOldestFirst(ctx context.Context) ([]*model.NewsItem, error) {
	return r.list(ctx, "date ASC, id ASC")
}

func (r *newsRepository) list(ctx context.Context, order string) ([]*model.NewsItem, error) {
	var res []*model.NewsItem
	if err := r.db.WithContext(ctx).Order(order).Find(&res).Error; err != nil {
		return nil, wrapErr("list news", err)
	}
	return res, nil
}

func (r *newsRepository) ImageURLs(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&model.NewsItem{}).
		Where("image IS NOT NULL AND image <> ''").
		Pluck("image", &urls).Error
	if err != nil {
		return nil, wrapErr("list news images", err)
	}
	return urls, nil
}

func (r *newsRepository) ImageInUse(ctx context.Context, url string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.NewsItem{}).
		Where("image = ?", url).
		Count(&cnt).Error; err != nil {
		return false, wrapErr("check news image", err)
	}
	return cnt > 0, nil
}
