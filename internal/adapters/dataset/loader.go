// Package dataset loads the static billionaire dataset once per process.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/pkg/logger"
	"github.com/okian/fortuna/pkg/metrics"
)

const loadKey = "dataset"

// Loader caches the first complete read of a Source. Concurrent first callers
// share one read. A failed read is terminal for the process unless it failed
// because the caller's context ended.
type Loader struct {
	src   Source
	log   logger.Logger
	group singleflight.Group

	mu      sync.RWMutex
	done    bool
	records []model.Billionaire
	err     error
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the loader's logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.log = l
		}
	}
}

// NewLoader wraps src with a load-once cache.
func NewLoader(src Source, opts ...Option) *Loader {
	l := &Loader{src: src, log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the dataset, reading the source on first use.
// The returned slice is shared and must be treated as read-only.
func (l *Loader) Load(ctx context.Context) ([]model.Billionaire, error) {
	if records, err, ok := l.cached(); ok {
		return records, err
	}
	v, err, _ := l.group.Do(loadKey, func() (any, error) {
		if records, err, ok := l.cached(); ok {
			return records, err
		}
		return l.read(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.Billionaire), nil
}

// Err reports the terminal load error, if any.
func (l *Loader) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

func (l *Loader) cached() ([]model.Billionaire, error, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.records, l.err, l.done
}

func (l *Loader) read(ctx context.Context) ([]model.Billionaire, error) {
	start := time.Now()
	if l.src == nil {
		return nil, l.finish(ctx, nil, fmt.Errorf("%w: %w", ErrDataLoad, ErrNoSource), start)
	}
	records, err := l.src.Read(ctx)
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrDataLoad, l.src, err)
		return nil, l.finish(ctx, nil, err, start)
	}
	if clamped := sanitize(records); clamped > 0 {
		metrics.RecordDatasetRecordsClamped(clamped)
		l.log.Warn(ctx, "clamped invalid net worth values", logger.Int("records", clamped))
	}
	return records, l.finish(ctx, records, nil, start)
}

func (l *Loader) finish(ctx context.Context, records []model.Billionaire, err error, start time.Time) error {
	ms := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordDatasetLoad("failure", ms)
		metrics.RecordErrorByComponent("dataset", "load")
		l.log.Error(ctx, "dataset load failed", logger.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	} else {
		metrics.RecordDatasetLoad("success", ms)
		metrics.UpdateDatasetRecords(len(records))
		l.log.Info(ctx, "dataset loaded",
			logger.String("source", l.src.String()),
			logger.Int("records", len(records)),
			logger.Float64("duration_ms", ms))
	}

	l.mu.Lock()
	l.done, l.records, l.err = true, records, err
	l.mu.Unlock()
	return err
}
