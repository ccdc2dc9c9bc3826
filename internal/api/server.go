// Package api provides the HTTP server for Hivemind. It exposes a read and
// ingest surface over the learning store, the scenario engine, and the
// evolution tracker.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hivemind-network/hivemind/internal/collective"
	"github.com/hivemind-network/hivemind/internal/evolution"
	"github.com/hivemind-network/hivemind/internal/infra/sqlite"
	"github.com/hivemind-network/hivemind/internal/scenario"
)

// Server is the Hivemind HTTP API server.
type Server struct {
	store          *sqlite.DB
	intel          *collective.Intelligence
	engine         *scenario.Engine
	tracker        *evolution.Tracker
	metricsEnabled bool
}

// NewServer creates a new API server over the given components.
func NewServer(store *sqlite.DB, intel *collective.Intelligence, engine *scenario.Engine, tracker *evolution.Tracker) *Server {
	return &Server{store: store, intel: intel, engine: engine, tracker: tracker}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/agents", s.handleAgents)
		r.Get("/agents/{id}/capabilities", s.handleAgentCapabilities)
		r.Post("/records", s.handleIngestRecord)
		r.Get("/capabilities", s.handleCapabilities)
		r.Get("/collaborations", s.handleCollaborations)
		r.Post("/collaborations", s.handleObserveCollaboration)
		r.Get("/snapshot", s.handleLatestSnapshot)
		r.Post("/snapshot", s.handleTakeSnapshot)
		r.Get("/tiers", s.handleTiers)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/export", s.handleExport)
		r.Post("/scenarios", s.handleGenerateScenario)
	})

	// Prometheus metrics endpoint
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

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
