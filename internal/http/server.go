// Package http exposes the ledger and report services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/reports"
)

// LedgerService is the write side the transaction handlers need.
type LedgerService interface {
	Create(ctx context.Context, userID string, in ledger.CreateInput) (core.Transaction, error)
	Update(ctx context.Context, userID string, id int64, in ledger.UpdateInput) error
	Delete(ctx context.Context, userID string, id int64) error
}

// ReportService is the read side the query handlers need.
type ReportService interface {
	List(ctx context.Context, userID string, in reports.ListInput) (reports.ListResult, error)
	Summary(ctx context.Context, userID string, from, to core.Date) (reports.Summary, error)
	MonthHistory(ctx context.Context, userID string, year, month int) (reports.MonthHistoryResult, error)
	YearHistory(ctx context.Context, userID string, year int) (reports.YearHistoryResult, error)
	Categories(ctx context.Context, typ *core.TransactionType) ([]core.Category, error)
}

// Pinger reports storage reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config carries the server's runtime knobs.
type Config struct {
	Addr               string
	UserID             string
	RateLimitPerMinute int
}

// Server wires routes, middleware and the shared caches around the two
// services. It embeds http.Server so callers run it like any other.
type Server struct {
	http.Server
	userID  string
	ledger  LedgerService
	reports ReportService
	pinger  Pinger

	limiter       *rateLimiter
	categoryCache *cache.LRUCache[[]core.Category]
	cacheManager  *cache.Manager
	tracer        *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(cfg Config, ledgerSvc LedgerService, reportSvc ReportService, pinger Pinger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			Handler:           nil, // set below, after the mux is wrapped
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		userID:        cfg.UserID,
		ledger:        ledgerSvc,
		reports:       reportSvc,
		pinger:        pinger,
		limiter:       newRateLimiter(cfg.RateLimitPerMinute),
		categoryCache: cache.NewLRUCache[[]core.Category](10, 5*time.Minute),
		cacheManager:  cache.NewManager(),
		tracer:        trace.NewMiddleware(extractClientIP),
	}

	s.cacheManager.Register(s.categoryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("POST /api/transactions", s.withAPIMiddleware(s.handleCreateTransaction, true))
	mux.HandleFunc("GET /api/transactions", s.withAPIMiddleware(s.handleListTransactions, false))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withAPIMiddleware(s.handleUpdateTransaction, true))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withAPIMiddleware(s.handleDeleteTransaction, true))

	mux.HandleFunc("GET /api/summary", s.withAPIMiddleware(s.handleSummary, false))
	mux.HandleFunc("GET /api/history", s.withAPIMiddleware(s.handleMonthHistory, false))
	mux.HandleFunc("GET /api/history/year", s.withAPIMiddleware(s.handleYearHistory, false))
	mux.HandleFunc("GET /api/categories", s.withAPIMiddleware(s.handleListCategories, false))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	s.Server.Handler = s.tracer.Middleware(mux)
	return s
}

// withAPIMiddleware adds security headers and, for mutating endpoints, per-IP
// rate limiting.
func (s *Server) withAPIMiddleware(next http.HandlerFunc, mutating bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mutating && !s.limiter.allow(extractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.pinger.Ping(ctx); err != nil {
		writeJSONError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Shutdown stops the background routines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
