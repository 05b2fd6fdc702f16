package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/d60-Lab/nousrire-site/internal/app"
)

// reconcileCmd 把新闻数量收敛到上限以内
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Evict the oldest news items beyond the retention cap",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.News.Reconcile(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d news item(s)\n", n)
			return nil
		})
	},
}

// sweepCmd 删除没有新闻引用的图片
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete stored images no news item references",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			n, err := a.News.SweepOrphanBlobs(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d orphan image(s)\n", n)
			return nil
		})
	},
}

// janitorCmd 执行一轮完整维护
var janitorCmd = &cobra.Command{
	Use:   "janitor",
	Short: "Run one reconcile and sweep pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			evicted, swept, err := a.Janitor.RunOnce(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "evicted %d news item(s), deleted %d orphan image(s)\n", evicted, swept)
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd, sweepCmd, janitorCmd)
}
