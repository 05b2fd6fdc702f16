package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/nousrire-site/config"
)

func TestDisabledByDefault(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))

	flush, err := InitSentry(config.SentryConfig{}, "test")
	require.NoError(t, err)
	assert.NoError(t, flush(context.Background()))
}

func TestInitSentryRejectsBadDSN(t *testing.T) {
	_, err := InitSentry(config.SentryConfig{DSN: "not a dsn"}, "test")
	assert.Error(t, err)
}

func TestInitTracing(t *testing.T) {
	// 导出是异步的，初始化不需要可达的收集器
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{
		Endpoint:    "http://127.0.0.1:4318",
		Insecure:    true,
		ServiceName: "test",
		SampleRatio: 1,
	})
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
