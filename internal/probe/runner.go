package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/fortuna/pkg/logger"
)

// WorkerChannelMultiplier sizes the work channel per worker.
const WorkerChannelMultiplier = 2

// Run executes a complete probe and returns its statistics. Inconsistent
// results are reported as ErrInconsistent after every check has run.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	log = log.Named("probe")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	log.Info(ctx, "starting fortuna probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("workers", cfg.Workers),
		logger.Int("topN", cfg.TopN),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("stream", cfg.Stream))

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, err
	}

	var views []viewInfo
	if err := client.getJSON(ctx, "/api/views", &views); err != nil {
		return stats, fmt.Errorf("view listing failed: %w", err)
	}
	stats.ViewsListed = len(views)

	var problems []error
	requestLayouts(ctx, cfg, client, views, stats, log)
	if stats.LayoutsFailed > 0 {
		problems = append(problems, fmt.Errorf("%d layouts failed", stats.LayoutsFailed))
	}

	var richest []entry
	if err := client.getJSON(ctx, fmt.Sprintf("/api/richest?limit=%d", cfg.TopN), &richest); err != nil {
		return stats, fmt.Errorf("rich list retrieval failed: %w", err)
	}
	if err := verifyRichList(richest); err != nil {
		problems = append(problems, err)
	}
	checkRanks(ctx, cfg, client, richest, stats, log)
	if stats.RankMismatches > 0 {
		problems = append(problems, fmt.Errorf("%d rank lookups disagree with the rich list", stats.RankMismatches))
	}

	var shares []share
	if err := client.getJSON(ctx, "/api/map", &shares); err != nil {
		return stats, fmt.Errorf("map retrieval failed: %w", err)
	}
	if err := verifyShares(shares); err != nil {
		problems = append(problems, err)
	}

	if cfg.Stream {
		if view, ok := firstLayoutView(views); ok {
			n, err := consumeStream(ctx, client, view, cfg.Timeout)
			stats.StreamFrames = n
			if err != nil {
				problems = append(problems, fmt.Errorf("stream %s: %w", view, err))
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if len(problems) > 0 {
		return stats, fmt.Errorf("%w: %w", ErrInconsistent, errors.Join(problems...))
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, _, err := client.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	// Any 200 is healthy; the body is Prometheus metrics.
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// fanOut calls fn for every index in [0,n) on a pool of workers.
func fanOut(ctx context.Context, workers, n int, fn func(i int)) {
	if workers < 1 {
		workers = 1
	}
	work := make(chan int, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				if ctx.Err() != nil {
					continue
				}
				fn(i)
			}
		}()
	}
	go func() {
		defer close(work)
		for i := 0; i < n; i++ {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()
	wg.Wait()
}

// requestLayouts runs every layout view concurrently. Views with no
// records under the server's data count as skipped.
func requestLayouts(ctx context.Context, cfg *Config, client *HTTPClient, views []viewInfo, stats *Stats, log logger.Logger) {
	var ok, skipped, failed int64
	fanOut(ctx, cfg.Workers, len(views), func(i int) {
		v := views[i]
		if !v.Layout {
			return
		}
		var res layout
		err := client.getJSON(ctx, "/api/layout/"+url.PathEscape(v.ID), &res)
		if err == nil {
			err = verifyLayout(res)
		}
		switch {
		case err == nil:
			atomic.AddInt64(&ok, 1)
		case isEmptyView(err):
			atomic.AddInt64(&skipped, 1)
		default:
			atomic.AddInt64(&failed, 1)
			log.Warn(ctx, "layout failed", logger.String("view", v.ID), logger.Error(err))
		}
		if cfg.Verbose {
			log.Info(ctx, "layout checked", logger.String("view", v.ID), logger.Int("bubbles", len(res.Bubbles)))
		}
	})
	stats.LayoutsOK = int(ok)
	stats.LayoutsSkipped = int(skipped)
	stats.LayoutsFailed = int(failed)
}

// checkRanks looks every rich list entry up by name and compares ranks.
func checkRanks(ctx context.Context, cfg *Config, client *HTTPClient, richest []entry, stats *Stats, log logger.Logger) {
	var checked, mismatched int64
	fanOut(ctx, cfg.Workers, len(richest), func(i int) {
		want := richest[i]
		var got entry
		if err := client.getJSON(ctx, "/api/rank/"+url.PathEscape(want.Name), &got); err != nil {
			atomic.AddInt64(&mismatched, 1)
			log.Warn(ctx, "rank lookup failed", logger.String("name", want.Name), logger.Error(err))
			return
		}
		atomic.AddInt64(&checked, 1)
		if got.Rank != want.Rank {
			atomic.AddInt64(&mismatched, 1)
			log.Warn(ctx, "rank mismatch",
				logger.String("name", want.Name),
				logger.Int("listed", want.Rank),
				logger.Int("lookup", got.Rank))
		}
	})
	stats.RanksChecked = int(checked)
	stats.RankMismatches = int(mismatched)
}

func firstLayoutView(views []viewInfo) (string, bool) {
	for _, v := range views {
		if v.Layout {
			return v.ID, true
		}
	}
	return "", false
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("viewsListed", stats.ViewsListed),
		logger.Int("layoutsOK", stats.LayoutsOK),
		logger.Int("layoutsSkipped", stats.LayoutsSkipped),
		logger.Int("layoutsFailed", stats.LayoutsFailed),
		logger.Int("ranksChecked", stats.RanksChecked),
		logger.Int("rankMismatches", stats.RankMismatches),
		logger.Int("streamFrames", stats.StreamFrames),
		logger.Duration("duration", stats.Duration))
}
