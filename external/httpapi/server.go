package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Scheduler is the part of the session scheduler exposed over HTTP.
type Scheduler interface {
	Sessions() []repository.Session
	Schedules(ctx context.Context) ([]repository.Schedule, error)
	CreateSessions(ctx context.Context) error
	RunMorning(ctx context.Context) error
	DeleteSession(ctx context.Context, sessionID string) error
	Leaderboard(month time.Month, year int) *leaderboard.Leaderboard
}

type Server struct {
	addr      string
	scheduler Scheduler
	now       func() time.Time
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewServer(addr string, scheduler Scheduler) *Server {
	return &Server{addr: addr, scheduler: scheduler, now: time.Now}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /sessions", s.listSessions)
	mux.HandleFunc("POST /sessions", s.createSessions)
	mux.HandleFunc("DELETE /sessions/{id}", s.deleteSession)
	mux.HandleFunc("GET /schedules", s.listSchedules)
	mux.HandleFunc("POST /morning", s.runMorning)
	mux.HandleFunc("GET /leaderboard", s.showLeaderboard)
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.scheduler.Sessions())
}

func (s *Server) createSessions(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.CreateSessions(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, s.scheduler.Sessions())
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := s.scheduler.Schedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if schedules == nil {
		schedules = []repository.Schedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) runMorning(w http.ResponseWriter, r *http.Request) {
	if err := s.scheduler.RunMorning(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// showLeaderboard defaults month and year to the current ones.
func (s *Server) showLeaderboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	month, year := now.Month(), now.Year()
	if v := r.URL.Query().Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusBadRequest, errors.New("month must be between 1 and 12"))
			return
		}
		month = time.Month(m)
	}
	if v := r.URL.Query().Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 {
			writeError(w, http.StatusBadRequest, errors.New("year must be a positive number"))
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, s.scheduler.Leaderboard(month, year))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	slog.Error("request failed", "status", status, "error", err)
	writeJSON(w, status, errorResponse{Message: err.Error()})
}
