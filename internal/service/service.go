package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

// DefaultNewsCap 新闻保留上限
const DefaultNewsCap = 3

// Clock 返回当前时间，测试中可固定
type Clock func() time.Time

// Options 内容服务的公共参数
type Options struct {
	NewsCap     int
	Location    *time.Location // 计算“今天”的时区
	Now         Clock
	OrphanGrace time.Duration // 未被引用的图片至少存在这么久才会被清理
}

func (o Options) withDefaults() Options {
	if o.NewsCap <= 0 {
		o.NewsCap = DefaultNewsCap
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.OrphanGrace <= 0 {
		o.OrphanGrace = 10 * time.Minute
	}
	return o
}

// today 按日粒度截断后的日期字符串
func (o Options) today() string {
	return o.Now().In(o.Location).Format(model.DateLayout)
}

// BlobManager 图片上传、删除与孤儿清理
type BlobManager interface {
	Upload(ctx context.Context, img *model.ImageUpload) (string, error)
	Delete(ctx context.Context, url string) error
	Sweep(ctx context.Context, referenced []string, olderThan time.Time) (int, error)
}

// ListingCache 公开列表缓存，实现需对自身故障静默。
// 未命中时返回代号，回填只在代号未被后续写入推进时生效。
type ListingCache interface {
	News(ctx context.Context) ([]*model.NewsItem, int64, bool)
	SetNews(ctx context.Context, gen int64, items []*model.NewsItem)
	Events(ctx context.Context, day string) ([]*model.Event, int64, bool)
	SetEvents(ctx context.Context, day string, gen int64, items []*model.Event)
	InvalidateNews(ctx context.Context)
	InvalidateEvents(ctx context.Context)
}

type noopCache struct{}

func (noopCache) News(context.Context) ([]*model.NewsItem, int64, bool)        { return nil, 0, false }
func (noopCache) SetNews(context.Context, int64, []*model.NewsItem)            {}
func (noopCache) Events(context.Context, string) ([]*model.Event, int64, bool) { return nil, 0, false }
func (noopCache) SetEvents(context.Context, string, int64, []*model.Event)     {}
func (noopCache) InvalidateNews(context.Context)                               {}
func (noopCache) InvalidateEvents(context.Context)                             {}

func orNoop(c ListingCache) ListingCache {
	if c == nil {
		return noopCache{}
	}
	return c
}

var validate = validator.New()

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return apperr.Validation("invalid input: %s", strings.Join(msgs, "; "))
	}
	return apperr.Validation("invalid input: %v", err)
}

// reportCleanupFailure 尽力而为步骤失败：记录并上报，不影响主操作结果
func reportCleanupFailure(msg string, err error, fields ...zap.Field) {
	logger.Warn(msg, append(fields, zap.Error(err))...)
	sentry.CaptureException(fmt.Errorf("%s: %w", msg, err))
}
