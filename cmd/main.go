package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/fortuna/internal/adapters/dataset"
	"github.com/okian/fortuna/internal/adapters/http/api"
	"github.com/okian/fortuna/internal/adapters/http/site"
	"github.com/okian/fortuna/internal/adapters/http/swagger"
	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/config"
	"github.com/okian/fortuna/pkg/logger"
	"github.com/okian/fortuna/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	streamWriteTimeout        = 10 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Initialize logging with the configured format and level
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Create and start the service; a dataset that fails to load leaves it
	// running without data
	svc := newService(ctx, cfg, loggerInstance)
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()
	if err := svc.LoadError(); err != nil {
		loggerInstance.Warn(ctx, "serving without data", logger.Error(err))
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := newMux(ctx, svc, cfg, loggerInstance)

	// No WriteTimeout: websocket streams outlive any fixed bound and set
	// their own per-write deadlines.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService wires the dashboard service from configuration. A data path
// that cannot be opened becomes a source that fails every read.
func newService(ctx context.Context, cfg *config.Config, log logger.Logger) *service.Service {
	src, err := dataset.Open(cfg.DataPath)
	if err != nil {
		log.Error(ctx, "failed to open dataset", logger.String("data_path", cfg.DataPath), logger.Error(err))
		src = dataset.Unavailable(cfg.DataPath, err)
	}
	return service.New(
		service.WithSource(src),
		service.WithLogger(log.Named("service")),
		service.WithViewParams(cfg.ViewParams()),
		service.WithSimulationOptions(cfg.SimulationOptions()...),
		service.WithFrameInterval(cfg.FrameInterval()),
		service.WithMaxTopN(cfg.MaxTopN),
	)
}

// newMux registers every route: landing page, docs and the API.
func newMux(ctx context.Context, svc *service.Service, cfg *config.Config, log logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	// Register the landing page at the root
	site.Register(ctx, mux)

	// Register the API docs under /api-docs
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	api.NewServer(svc, svc,
		api.WithMaxLimit(cfg.MaxTopN),
		api.WithStreamWriteTimeout(streamWriteTimeout),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)
	return mux
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *service.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes gauges derived from the service state.
func updateServiceMetrics(svc *service.Service) {
	// Get current stats from the service
	stats := svc.GetStats()

	// Dataset size and rank store size feed their gauges
	if records, ok := stats["records"].(int); ok {
		metrics.UpdateDatasetRecords(records)
	}
	if ranked, ok := stats["rankedEntries"].(int); ok {
		metrics.UpdateRankStoreRecords(ranked)
	}
}
