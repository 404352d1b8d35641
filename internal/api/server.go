// Package api provides the HTTP server for SwipeDeck: a JSON REST API
// over the queue processor plus a WebSocket feed of live result events.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the SwipeDeck HTTP API server.
type Server struct {
	engine         *EngineAPI
	hub            *Hub
	metricsEnabled bool
	version        string
}

// NewServer creates a new API server.
func NewServer(engine *EngineAPI, hub *Hub, version string) *Server {
	return &Server{engine: engine, hub: hub, version: version}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Hub returns the live feed hub (for broadcasting events).
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", s.engine.HandleStats)
		r.Get("/level", s.engine.HandleLevel)
		r.Get("/achievements", s.engine.HandleAchievements)
		r.Get("/challenges", s.engine.HandleChallenges)
		r.Get("/events/recent", s.engine.HandleRecentEvents)

		r.Get("/queue", s.engine.HandleQueue)
		r.Post("/queue/load", s.engine.HandleQueueLoad)
		r.Post("/queue/decision", s.engine.HandleDecision)

		r.Post("/ingest", s.engine.HandleIngest)
	})

	// Live result feed
	if s.hub != nil {
		r.Get("/api/feed", s.hub.HandleFeed)
	}

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

// corsMiddleware adds CORS headers for the dashboard frontend.
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
