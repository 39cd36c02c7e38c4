// Package overlay serves a browser overlay of the running game: a JSON state
// endpoint and a websocket feed of render commands, plus remote buzzers.
package overlay

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mcdev12/painani/go/internal/quiz/session"
)

// Commands is the local input the overlay may trigger.
type Commands interface {
	PressBuzzer(ctx context.Context, player int) error
}

// Config configures the overlay HTTP server.
type Config struct {
	Addr           string
	AllowedOrigins []string
}

// Server is the overlay HTTP surface.
type Server struct {
	view     *View
	hub      *Hub
	commands Commands
}

// NewServer wires the overlay routes. commands may be nil to disable remote
// buzzers.
func NewServer(view *View, hub *Hub, commands Commands) *Server {
	return &Server{view: view, hub: hub, commands: commands}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/ws", s.connect)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(10 * time.Second))
		r.Get("/state", s.getState)
		r.Get("/stats", s.getStats)
		r.Post("/buzzer/{player}", s.pressBuzzer)
	})

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodHead, http.MethodGet, http.MethodPost},
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(r)
}

// HTTPServer builds the HTTP/2-capable server for cfg.
func (s *Server) HTTPServer(cfg Config) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(s.Handler(cfg.AllowedOrigins), &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	if err := s.hub.Upgrade(w, r); err != nil {
		// The upgrader already wrote the HTTP error.
		log.Error().Err(err).Msg("failed to upgrade overlay connection")
	}
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		StateResponse
		Status *StatusInfo `json:"status,omitempty"`
	}{s.view.State(), s.view.LastStatus()})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int{"connections": s.hub.Count()})
}

func (s *Server) pressBuzzer(w http.ResponseWriter, r *http.Request) {
	if s.commands == nil {
		http.Error(w, "remote buzzers disabled", http.StatusNotFound)
		return
	}
	// Teams are numbered from 1 for people.
	team, err := strconv.Atoi(chi.URLParam(r, "player"))
	if err != nil {
		http.Error(w, "invalid team number", http.StatusBadRequest)
		return
	}

	err = s.commands.PressBuzzer(r.Context(), team-1)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusAccepted)
	case errors.Is(err, session.ErrPlayerOutOfRange):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, session.ErrTriedPlayer), errors.Is(err, session.ErrBuzzingClosed):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Error().Err(err).Int("team", team).Msg("remote buzzer failed")
		http.Error(w, "buzzer failed", http.StatusServiceUnavailable)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
