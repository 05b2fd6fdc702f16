package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/nousrire-site/config"
	"github.com/d60-Lab/nousrire-site/internal/app"
	"github.com/d60-Lab/nousrire-site/internal/service"
	"github.com/d60-Lab/nousrire-site/pkg/logger"
)

var cfgFile string

// rootCmd 运维命令入口
var rootCmd = &cobra.Command{
	Use:          "contentctl",
	Short:        "Maintenance commands for the site content store",
	SilenceUsage: true,
}

// Execute 执行根命令
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
}

// withApp 加载配置并组装依赖后执行 fn
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Log.Level, "console"); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return withCleanup(a.Cleanup, cfg.Content.CleanupWorkers, cfg.Server.ShutdownTimeout, func() error {
		return fn(cmd.Context(), a)
	})
}

// withCleanup 运行 fn 期间启动清理 worker，返回前等待重试队列排空
func withCleanup(q *service.CleanupQueue, workers int, timeout time.Duration, fn func() error) error {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	stop := q.Start(workers)
	err := fn()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return errors.Join(err, stop(ctx))
}
