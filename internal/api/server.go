// Package api provides the HTTP API server for StudyPilot.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/session"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server

	orchestrator *agent.Orchestrator
	sessions     *session.Registry
	wsHub        *EventHub
}

// Config for the server
type Config struct {
	Host            string
	Port            int
	Orchestrator    *agent.Orchestrator
	Sessions        *session.Registry
	EnableWebSocket bool
}

// New creates a new API server
func New(cfg Config) *Server {
	s := &Server{
		orchestrator: cfg.Orchestrator,
		sessions:     cfg.Sessions,
	}
	if cfg.EnableWebSocket {
		s.wsHub = NewEventHub()
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: s.router,
	}

	return s
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	// A chat turn makes two model calls; give it room.
	r.Use(middleware.Timeout(2 * time.Minute))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Get("/chat/history", s.handleChatHistory)
		r.Get("/upcoming", s.handleUpcoming)
		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile", s.handleUpdateProfile)
		r.Get("/preferences", s.handleGetPreferences)
		r.Post("/preferences", s.handleUpdatePreferences)
	})

	if s.wsHub != nil {
		r.Get("/ws", s.wsHub.HandleWS)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	s.router = r
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until it is stopped
func (s *Server) Start() error {
	if s.wsHub != nil {
		go s.wsHub.Run()
	}

	fmt.Printf("StudyPilot API listening on http://%s\n", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	if s.wsHub != nil {
		s.wsHub.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}

// Broadcast sends an event to all WebSocket clients
func (s *Server) Broadcast(eventType string, data interface{}) {
	if s.wsHub == nil {
		return
	}
	s.wsHub.Broadcast(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
