package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/d60-Lab/nousrire-site/config"
	"github.com/d60-Lab/nousrire-site/internal/app"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
	"github.com/d60-Lab/nousrire-site/pkg/telemetry"
)

// 构建时通过 -ldflags "-X main.version=..." 注入
var version = "dev"

// @title nousrire-site API
// @version 1.0
// @description News, events and volunteer sign-ups for the association site.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flushSentry, err := telemetry.InitSentry(cfg.Sentry, version)
	if err != nil {
		return err
	}
	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	stopWorkers := a.StartWorkers()
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: a.Router()}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return errors.Join(
		srv.Shutdown(shutdownCtx),
		stopWorkers(shutdownCtx),
		shutdownTracing(shutdownCtx),
		flushSentry(shutdownCtx),
	)
}
