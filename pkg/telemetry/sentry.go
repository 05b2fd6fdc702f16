package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/d60-Lab/nousrire-site/config"
)

// InitSentry 配置了 DSN 时初始化 Sentry；返回的函数在退出前刷新缓冲的事件
func InitSentry(cfg config.SentryConfig, release string) (Shutdown, error) {
	if cfg.DSN == "" {
		return noop, nil
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		SampleRate:       cfg.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return noop, fmt.Errorf("sentry init: %w", err)
	}
	return func(ctx context.Context) error {
		timeout := 2 * time.Second
		if dl, ok := ctx.Deadline(); ok {
			timeout = time.Until(dl)
		}
		sentry.Flush(timeout)
		return nil
	}, nil
}
