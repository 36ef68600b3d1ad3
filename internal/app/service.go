// Package service provides the dashboard service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/fortuna/internal/adapters/dataset"
	"github.com/okian/fortuna/internal/adapters/repository"
	"github.com/okian/fortuna/internal/domain/force"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/views"
	"github.com/okian/fortuna/pkg/logger"
	"github.com/okian/fortuna/pkg/metrics"
)

// Service serves views, layouts and aggregates over the static dataset.
type Service struct {
	mu sync.RWMutex

	// Core components
	source   dataset.Source
	loader   *dataset.Loader
	richList *repository.RichList

	// Dataset state, read-only once started
	records []model.Billionaire
	byKey   map[string]int
	loadErr error

	// Configuration
	params        views.Params
	simOpts       []force.Option
	frameInterval time.Duration
	maxTopN       int

	// State
	started bool
	anim    *animation
	animMu  sync.Mutex

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets where the dataset is read from.
func WithSource(src dataset.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithRecords serves an in-memory dataset instead of reading a source.
func WithRecords(records []model.Billionaire) Option {
	return func(s *Service) {
		s.source = staticSource(records)
	}
}

// WithViewParams sets the default view tuning.
func WithViewParams(p views.Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithSimulationOptions appends engine tuning applied to every layout.
func WithSimulationOptions(opts ...force.Option) Option {
	return func(s *Service) {
		s.simOpts = append(s.simOpts, opts...)
	}
}

// WithFrameInterval sets the pacing of animated layouts.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.frameInterval = d
		}
	}
}

// WithMaxTopN caps list limits.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		params:        views.DefaultParams(),
		frameInterval: 16 * time.Millisecond,
		maxTopN:       100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the dataset and builds the rich list. A failed load is not
// fatal: the service runs with an empty dataset and reports the error from
// LoadError and from every data query.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting dashboard service...")

	s.loader = dataset.NewLoader(s.source, dataset.WithLogger(s.logger.Named("dataset")))
	records, err := s.loader.Load(ctx)
	if err != nil {
		s.loadErr = err
		s.records = nil
		s.logger.Error(ctx, "serving without data", logger.Error(err))
	} else {
		s.records = records
	}

	s.byKey = make(map[string]int, len(s.records))
	for i, b := range s.records {
		s.byKey[b.Key()] = i
	}
	s.richList, err = repository.Build(ctx, s.records)
	if err != nil {
		return fmt.Errorf("build rich list: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("records", len(s.records)),
		logger.Int("years", len(s.richList.Years(ctx))),
		logger.Bool("degraded", s.loadErr != nil),
	)
	return nil
}

// Stop cancels any running animation.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping dashboard service...")

	s.animMu.Lock()
	if s.anim != nil {
		s.anim.stop()
		s.anim = nil
	}
	s.animMu.Unlock()

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// LoadError reports the terminal dataset load error, if any.
func (s *Service) LoadError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Views lists the dashboard views.
func (s *Service) Views() []views.Info { return views.Catalog() }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"frameIntervalMs": s.frameInterval.Milliseconds(),
		"maxTopN":         s.maxTopN,
	}
	if s.started {
		ctx := context.Background()
		stats["records"] = len(s.records)
		stats["years"] = s.richList.Years(ctx)
		stats["rankedEntries"] = s.richList.Count(ctx, repository.AllYears)
		if s.loadErr != nil {
			stats["loadError"] = s.loadErr.Error()
		}
	}

	s.animMu.Lock()
	stats["animating"] = s.anim != nil
	s.animMu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	metrics.UpdateSystemMemoryUsage(mem.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
	return stats
}

// data returns the dataset or the reason it is unavailable.
func (s *Service) data() ([]model.Billionaire, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	if s.loadErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, s.loadErr)
	}
	return s.records, nil
}

type staticSource []model.Billionaire

func (r staticSource) Read(context.Context) ([]model.Billionaire, error) {
	out := make([]model.Billionaire, len(r))
	copy(out, r)
	return out, nil
}

func (r staticSource) String() string { return "memory" }
