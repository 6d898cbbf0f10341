package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expenselog/internal/chart"
	"expenselog/internal/core"
	applog "expenselog/internal/log"
	"expenselog/internal/middleware/ratelimit"
	"expenselog/internal/middleware/security"
	"expenselog/internal/middleware/trace"
	"expenselog/internal/services"
)

// ExpenseService is what the API needs from the service layer.
type ExpenseService interface {
	Submit(ctx context.Context, state *core.ViewState, in core.ExpenseInput) (services.SubmitResult, error)
	StartEdit(ctx context.Context, state *core.ViewState, id int64) (services.EditForm, error)
	Delete(ctx context.Context, state *core.ViewState, id int64) error
	Snapshot(ctx context.Context, mode core.FilterMode) (core.Summary, error)
	Chart(ctx context.Context, mode core.FilterMode) (chart.Layout, error)
}

// ReadyFunc reports whether dependencies can serve traffic.
type ReadyFunc func(ctx context.Context) error

type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
	Ready              ReadyFunc
}

type Server struct {
	http.Server
	service     ExpenseService
	ready       ReadyFunc
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc ExpenseService, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	resolver := security.NewClientIPResolver()
	s := &Server{
		service:     svc,
		ready:       opts.Ready,
		logger:      logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		tracer:      trace.NewMiddleware(logger, resolver.ClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("GET /api/expenses/{id}/edit", s.handleEditExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/chart", s.handleChart)
	mux.HandleFunc("GET /api/date-preview", handleDatePreview)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limit := s.rateLimiter.Middleware(resolver.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(limit(mux))),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// Metrics returns request counters collected by the trace middleware.
func (s *Server) Metrics() trace.Metrics {
	return s.tracer.GetMetrics()
}
