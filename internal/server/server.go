// Package server exposes the planning façade over HTTP: a small JSON
// API for itinerary generation and persistence, and a WebSocket chat
// endpoint for conversational planning.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/atlastravel/atlas/internal/agent"
	"github.com/atlastravel/atlas/internal/history"
	"github.com/atlastravel/atlas/internal/session"
	"github.com/atlastravel/atlas/internal/store"
)

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server wires the session façade and stores behind a chi router.
type Server struct {
	cfg        Config
	svc        *session.Service
	engine     session.Engine
	store      *store.Store
	history    *history.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates the server with all dependencies. history may be nil; the
// chat endpoint then refuses connections.
func New(cfg Config, svc *session.Service, engine session.Engine, st *store.Store, hist *history.Store) *Server {
	s := &Server{
		cfg:     cfg,
		svc:     svc,
		engine:  engine,
		store:   st,
		history: hist,
	}
	s.router = s.buildRouter()
	return s
}

// sessionEngine returns the engine scoped to one chat connection.
// Cloneable engines get their own run guard, so connections never
// contend; test doubles without Clone are shared as-is.
func (s *Server) sessionEngine() session.Engine {
	if c, ok := s.engine.(interface{ Clone() *agent.Engine }); ok {
		return c.Clone()
	}
	return s.engine
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/itinerary/generate", s.handleGenerate)
		r.Post("/itinerary/save", s.handleSave)
		r.Get("/profile", s.handleProfile)
		r.Get("/trips", s.handleListTrips)
		r.Get("/trips/{id}", s.handleGetTrip)
		r.Get("/sessions", s.handleListSessions)
	})

	r.Get("/ws/chat", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Printf("atlas server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
