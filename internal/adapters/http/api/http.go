// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/fortuna/internal/adapters/repository"
	service "github.com/okian/fortuna/internal/app"
	"github.com/okian/fortuna/internal/domain/model"
	"github.com/okian/fortuna/internal/domain/views"
	"github.com/okian/fortuna/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Views() []views.Info
	Billionaires(ctx context.Context, f service.Filter) ([]model.Billionaire, error)

	Layout(ctx context.Context, req service.LayoutRequest) (service.LayoutResult, error)
	Animate(ctx context.Context, req service.LayoutRequest, obs service.Observer) error

	Aggregates(ctx context.Context, req service.AggregateRequest) ([]model.Aggregate, error)
	Summary(ctx context.Context, f service.Filter) (service.Summary, error)
	WorldShares(ctx context.Context, f service.Filter) ([]model.Aggregate, error)
	CountryShare(ctx context.Context, f service.Filter, mapName string) (model.Aggregate, error)
	AgeDistribution(ctx context.Context, f service.Filter) (service.AgeDistribution, error)

	Richest(ctx context.Context, year *int, n int) ([]repository.Entry, error)
	Rank(ctx context.Context, name string, year *int) (repository.Entry, error)
	Tooltip(ctx context.Context, req service.TooltipRequest) (service.TooltipResult, error)
}

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	deps         Dependencies
	stats        StatsProvider
	maxLimit     int
	writeTimeout time.Duration
	log          logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxLimit caps the limit query parameter.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithStreamWriteTimeout bounds each websocket write.
func WithStreamWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, stats StatsProvider, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		stats:        stats,
		maxLimit:     100,
		writeTimeout: 10 * time.Second,
		log:          logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.handleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.HandleFunc("GET /dashboard", s.handleDashboard)

	mux.HandleFunc("GET /api/views", MetricsMiddleware(s.handleViews, "views"))
	mux.HandleFunc("GET /api/billionaires", MetricsMiddleware(s.handleBillionaires, "billionaires"))
	mux.HandleFunc("GET /api/layout/{view}", MetricsMiddleware(s.handleLayout, "layout"))
	mux.HandleFunc("GET /api/stream/{view}", MetricsMiddleware(s.handleStream, "stream"))
	mux.HandleFunc("GET /api/aggregates", MetricsMiddleware(s.handleAggregates, "aggregates"))
	mux.HandleFunc("GET /api/summary", MetricsMiddleware(s.handleSummary, "summary"))
	mux.HandleFunc("GET /api/map", MetricsMiddleware(s.handleMap, "map"))
	mux.HandleFunc("GET /api/map/{country}", MetricsMiddleware(s.handleCountry, "map_country"))
	mux.HandleFunc("GET /api/ages", MetricsMiddleware(s.handleAges, "ages"))
	mux.HandleFunc("GET /api/richest", MetricsMiddleware(s.handleRichest, "richest"))
	mux.HandleFunc("GET /api/rank/{name}", MetricsMiddleware(s.handleRank, "rank"))
	mux.HandleFunc("POST /api/tooltip", MetricsMiddleware(s.handleTooltip, "tooltip"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail classifies err and writes it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path), logger.Error(err))
	}
	writeError(w, status, code, err)
}

func parseYear(r *http.Request) (*int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("year"))
	if raw == "" || strings.EqualFold(raw, "all") {
		return nil, nil
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: year %q", ErrBadRequest, raw)
	}
	return &y, nil
}

func parseLimit(r *http.Request, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit %q", ErrBadRequest, raw)
	}
	return n, nil
}

func parseDimension(r *http.Request, name string) (float64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(v > 0) {
		return 0, fmt.Errorf("%w: %s %q", ErrBadRequest, name, raw)
	}
	return v, nil
}

func parseFilter(r *http.Request) (service.Filter, error) {
	year, err := parseYear(r)
	if err != nil {
		return service.Filter{}, err
	}
	return service.Filter{WealthType: r.URL.Query().Get("wealth"), Year: year}, nil
}

func parseLayout(r *http.Request) (service.LayoutRequest, error) {
	f, err := parseFilter(r)
	if err != nil {
		return service.LayoutRequest{}, err
	}
	width, err := parseDimension(r, "width")
	if err != nil {
		return service.LayoutRequest{}, err
	}
	height, err := parseDimension(r, "height")
	if err != nil {
		return service.LayoutRequest{}, err
	}
	return service.LayoutRequest{
		View:       r.PathValue("view"),
		Width:      width,
		Height:     height,
		WealthType: f.WealthType,
		Year:       f.Year,
	}, nil
}
