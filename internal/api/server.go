// Package api provides the HTTP server for GigHall.
// Routes mirror the public marketplace surface: contracts, unpaid jobs,
// job payment, capped deposits, and the admin reports.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gighall/gighall/internal/app/billing"
	"github.com/gighall/gighall/internal/app/reporting"
	"github.com/gighall/gighall/internal/domain"
	"github.com/gighall/gighall/internal/infra/observability"
	"github.com/gighall/gighall/internal/infra/sqlite"
)

// Version is reported by /api/version.
const Version = "0.1.0"

// Server is the GigHall HTTP API server.
type Server struct {
	store          *sqlite.DB
	billing        *billing.Service
	reports        *reporting.Service
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(store *sqlite.DB, b *billing.Service, r *reporting.Service) *Server {
	return &Server{store: store, billing: b, reports: r}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	// Profile-scoped routes: caller resolved from the profile_id header.
	r.Group(func(r chi.Router) {
		r.Use(s.profileMiddleware)
		r.Get("/contracts/{id}", s.handleGetContract)
		r.Get("/contracts", s.handleListContracts)
		r.Get("/jobs/unpaid", s.handleUnpaidJobs)
		r.Post("/jobs/{job_id}/pay", s.handlePayJob)
		r.Post("/balances/deposit/{userId}", s.handleDeposit)
		r.Get("/balances/ledger", s.handleLedger)
	})

	// Admin reports: read-only projections, no profile required.
	r.Route("/admin", func(r chi.Router) {
		r.Get("/best-profession", s.handleBestProfession)
		r.Get("/best-clients", s.handleBestClients)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"message": msg,
	})
}

// writeDomainError maps a core error onto the HTTP surface.
// 400 bad input / insufficient funds / limit exceeded, 403 denied,
// 404 not found, 500 transaction failure and everything else.
func writeDomainError(w http.ResponseWriter, err error) {
	var limitErr *domain.LimitExceededError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAccessDenied):
		writeError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "Insufficient balance")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid input")
	case errors.As(err, &limitErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message":     limitErr.Error(),
			"max_deposit": limitErr.MaxDeposit.String(),
		})
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, profile_id")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware counts requests by chi route pattern and status.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		observability.HTTPRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
	})
}
