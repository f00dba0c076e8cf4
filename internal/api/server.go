// Package api provides the local HTTP surface over the ledger: the
// mutation API, derived statistics, sync trigger, insights, and the
// payment-reminder deep links.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momai-ledger/momai/internal/domain"
	"github.com/momai-ledger/momai/internal/ledger"
)

// Settings is the slice of durable storage the API reads the business
// profile from.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Server is the ledger HTTP API server.
type Server struct {
	store          *ledger.Store
	settings       Settings
	insights       domain.InsightProvider
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(store *ledger.Store, settings Settings, insights domain.InsightProvider) *Server {
	return &Server{store: store, settings: settings, insights: insights}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/customers", s.handleListCustomers)
		r.Post("/customers", s.handleAddCustomer)
		r.Put("/customers/{id}", s.handleUpdateCustomer)
		r.Post("/customers/{id}/toggle", s.handleToggleCustomer)
		r.Delete("/customers/{id}", s.handleDeleteCustomer)
		r.Get("/customers/{id}/transactions", s.handleCustomerTransactions)
		r.Get("/customers/{id}/reminder", s.handleReminder)

		r.Post("/transactions", s.handleAddTransaction)

		r.Get("/stats", s.handleStats)
		r.Post("/sync", s.handleSync)
		r.Get("/insights", s.handleInsights)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// writeDomainError maps ledger errors onto HTTP statuses. Validation
// failures never partially apply, so every branch is a clean reject.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicatePhone):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNoRemote):
		writeError(w, http.StatusPreconditionFailed, err.Error())
	case errors.Is(err, domain.ErrPullFailed):
		writeError(w, http.StatusBadGateway, "refresh failed")
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyPhone),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTxType),
		errors.Is(err, domain.ErrCustomerInactive):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
