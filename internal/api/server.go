// Package api exposes 2048 sessions over HTTP/JSON with a WebSocket feed.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

const maxScoresLimit = 100

// Scores is the read side of the score store.
type Scores interface {
	TopScores(limit int) ([]storage.Entry, error)
	Stats() (*storage.Stats, error)
}

// Server represents the REST API server.
type Server struct {
	sessions *session.Manager
	scores   Scores
	hub      *Hub
	router   *mux.Router
	logger   *log.Logger
}

// NewServer creates an API server. scores may be nil; score endpoints then
// answer 503.
func NewServer(sessions *session.Manager, scores Scores, hub *Hub, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		sessions: sessions,
		scores:   scores,
		hub:      hub,
		router:   mux.NewRouter(),
		logger:   logger,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions", s.handleListSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/ws", s.handleWebSocket).Methods(http.MethodGet)

	api.HandleFunc("/scores", s.handleScores).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes an optional JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// respondSessionError maps session and game errors to HTTP status codes.
func (s *Server) respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrInvalidPlayer), errors.Is(err, t2048.ErrInvalidDirection):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

// Session handlers

type createRequest struct {
	Player string `json:"player"`
	Seed   int64  `json:"seed"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	view, err := s.sessions.Create(req.Player, req.Seed)
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	s.logger.Info("session created", "session", view.ID, "player", view.Player)
	respondJSON(w, http.StatusCreated, view)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	views := s.sessions.List()
	respondJSON(w, http.StatusOK, map[string]any{
		"sessions": views,
		"count":    len(views),
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.sessions.Delete(id); err != nil {
		s.respondSessionError(w, err)
		return
	}

	s.hub.Broadcast(session.CanonicalID(id), EventDeleted, nil)
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	Direction string `json:"direction"`
}

type moveResponse struct {
	Moved  bool         `json:"moved"`
	Gained int          `json:"gained"`
	State  session.View `json:"state"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := mux.Vars(r)["id"]
	res, view, err := s.sessions.Move(id, dir)
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	if res.Moved {
		event := EventMoved
		if view.GameOver {
			event = EventGameOver
		}
		s.hub.Broadcast(view.ID, event, &view)
	}

	respondJSON(w, http.StatusOK, moveResponse{
		Moved:  res.Moved,
		Gained: res.Gained,
		State:  view,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Reset(mux.Vars(r)["id"])
	if err != nil {
		s.respondSessionError(w, err)
		return
	}

	s.hub.Broadcast(view.ID, EventReset, &view)
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	view, err := s.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		s.respondSessionError(w, err)
		return
	}
	s.hub.ServeWS(w, r, view)
}

// CleanupExpired removes sessions idle for longer than maxAge and tells
// their subscribers. Returns the number of sessions removed.
func (s *Server) CleanupExpired(maxAge time.Duration) int {
	ids := s.sessions.CleanupExpired(maxAge)
	for _, id := range ids {
		s.hub.Broadcast(id, EventDeleted, nil)
	}
	if len(ids) > 0 {
		s.logger.Info("expired sessions removed", "count", len(ids))
	}
	return len(ids)
}

// Score handlers

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "score storage disabled")
		return
	}

	limit := storage.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxScoresLimit)
	}

	entries, err := s.scores.TopScores(limit)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot load scores")
		return
	}
	if entries == nil {
		entries = []storage.Entry{}
	}

	respondJSON(w, http.StatusOK, map[string]any{"scores": entries})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.scores == nil {
		respondError(w, http.StatusServiceUnavailable, "score storage disabled")
		return
	}

	stats, err := s.scores.Stats()
	if err != nil {
		s.logger.Error("cannot load stats", "error", err)
		respondError(w, http.StatusInternalServerError, "cannot load stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
