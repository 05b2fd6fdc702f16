package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/d60-Lab/nousrire-site/config"
	"github.com/d60-Lab/nousrire-site/internal/app"
	"github.com/d60-Lab/nousrire-site/internal/model"
	"github.com/d60-Lab/nousrire-site/internal/repository"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// checkSafe 压测会写入并淘汰真实新闻，只允许在 sqlite 或显式确认后运行
func checkSafe(cfg *config.Config, getenv func(string) string) error {
	if cfg.Database.Driver == "sqlite" || getenv("BENCH_OK") == "1" {
		return nil
	}
	return fmt.Errorf("refusing to run against %q database: set BENCH_OK=1 to confirm", cfg.Database.Driver)
}

// 并发发布新闻，观察保留上限被短暂突破的幅度与写入延迟
func main() {
	cfg := must(config.Load())
	if err := checkSafe(cfg, os.Getenv); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	a := must(app.New(cfg))
	defer a.Close()
	stop := a.StartWorkers()

	N := envInt("N", 500)
	CONC := envInt("CONC", 8)
	newsRepo := repository.NewNewsRepository(a.DB)
	ctx := context.Background()

	// 采样当前新闻数量
	maxSeen := 0
	quitSample := make(chan struct{})
	var sampler sync.WaitGroup
	sampler.Add(1)
	go func() {
		defer sampler.Done()
		ticker := time.NewTicker(5 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if items, err := newsRepo.ListOldestFirst(ctx); err == nil && len(items) > maxSeen {
					maxSeen = len(items)
				}
			case <-quitSample:
				return
			}
		}
	}()

	workers := CONC
	if workers > N {
		workers = N
	}
	feed := make(chan int, N)
	for i := 0; i < N; i++ {
		feed <- i
	}
	close(feed)

	lat := make(chan time.Duration, N)
	var failed sync.Map
	var wg sync.WaitGroup
	t0 := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range feed {
				st := time.Now()
				if _, err := a.News.Create(ctx, model.NewsForm{Title: fmt.Sprintf("bench %d", i), Content: "load"}); err != nil {
					failed.Store(i, err)
				}
				lat <- time.Since(st)
			}
		}()
	}
	wg.Wait()
	total := time.Since(t0)
	close(lat)
	close(quitSample)
	sampler.Wait()

	recs := make([]time.Duration, 0, N)
	for d := range lat {
		recs = append(recs, d)
	}
	errs := 0
	failed.Range(func(_, _ any) bool { errs++; return true })

	evicted := must(a.News.Reconcile(ctx))
	final := must(newsRepo.ListOldestFirst(ctx))
	_ = stop(ctx)

	pct := func(vs []time.Duration, p float64) time.Duration {
		if len(vs) == 0 {
			return 0
		}
		xs := append([]time.Duration(nil), vs...)
		sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
		k := int(math.Ceil(p*float64(len(xs)))) - 1
		if k < 0 {
			k = 0
		}
		if k >= len(xs) {
			k = len(xs) - 1
		}
		return xs[k]
	}

	fmt.Printf("N=%d, CONC=%d, CAP=%d\n", N, CONC, cfg.Content.NewsCap)
	fmt.Printf("createNews total: %v, per op: %v, p50: %v, p95: %v, p99: %v, errors: %d\n",
		total, total/time.Duration(N), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), errs)
	fmt.Printf("max observed count: %d, evicted by final reconcile: %d, final count: %d\n",
		maxSeen, evicted, len(final))
}
