package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
)

type mockScheduler struct {
	sessions     []repository.Session
	schedules    []repository.Schedule
	createCalls  int
	morningCalls int
	morningErr   error
	deleted      []string
	boardMonth   time.Month
	boardYear    int
}

func (m *mockScheduler) Sessions() []repository.Session { return m.sessions }
func (m *mockScheduler) Schedules(_ context.Context) ([]repository.Schedule, error) {
	return m.schedules, nil
}
func (m *mockScheduler) CreateSessions(_ context.Context) error {
	m.createCalls++
	return nil
}
func (m *mockScheduler) RunMorning(_ context.Context) error {
	m.morningCalls++
	return m.morningErr
}
func (m *mockScheduler) DeleteSession(_ context.Context, sessionID string) error {
	m.deleted = append(m.deleted, sessionID)
	return nil
}
func (m *mockScheduler) Leaderboard(month time.Month, year int) *leaderboard.Leaderboard {
	m.boardMonth, m.boardYear = month, year
	board := leaderboard.New(month, year)
	board.AddAttendee("u1")
	return board
}

func newTestServer(m *mockScheduler) *Server {
	s := NewServer(":0", m)
	s.now = func() time.Time { return time.Date(2024, time.October, 21, 9, 0, 0, 0, time.UTC) }
	return s
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestListSessions(t *testing.T) {
	m := &mockScheduler{sessions: []repository.Session{
		{ID: "s-1", Date: calendar.New(2024, time.October, 21), Participants: []string{"u1"}},
	}}
	rec := serve(newTestServer(m), http.MethodGet, "/sessions")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	var body []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(body) != 1 || body[0]["sessionId"] != "s-1" || body[0]["date"] != "2024-10-21" {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListSchedules_EmptyIsArray(t *testing.T) {
	rec := serve(newTestServer(&mockScheduler{}), http.MethodGet, "/schedules")
	if rec.Code != http.StatusOK || rec.Body.String() != "[]\n" {
		t.Fatalf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestCreateSessionsAndMorning(t *testing.T) {
	m := &mockScheduler{}
	s := newTestServer(m)

	if rec := serve(s, http.MethodPost, "/sessions"); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if rec := serve(s, http.MethodPost, "/morning"); rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if m.createCalls != 1 || m.morningCalls != 1 {
		t.Fatalf("unexpected calls: create=%d morning=%d", m.createCalls, m.morningCalls)
	}

	m.morningErr = errors.New("storage unavailable")
	rec := serve(s, http.MethodPost, "/morning")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	m := &mockScheduler{}
	rec := serve(newTestServer(m), http.MethodDelete, "/sessions/s-9")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if len(m.deleted) != 1 || m.deleted[0] != "s-9" {
		t.Fatalf("unexpected deletes: %v", m.deleted)
	}
}

func TestLeaderboard(t *testing.T) {
	m := &mockScheduler{}
	s := newTestServer(m)

	if rec := serve(s, http.MethodGet, "/leaderboard"); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if m.boardMonth != time.October || m.boardYear != 2024 {
		t.Fatalf("expected current month, got %s %d", m.boardMonth, m.boardYear)
	}

	rec := serve(s, http.MethodGet, "/leaderboard?month=9&year=2023")
	if rec.Code != http.StatusOK || m.boardMonth != time.September || m.boardYear != 2023 {
		t.Fatalf("unexpected response: %d %s %d", rec.Code, m.boardMonth, m.boardYear)
	}

	if rec := serve(s, http.MethodGet, "/leaderboard?month=13"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	if rec := serve(newTestServer(&mockScheduler{}), http.MethodPut, "/sessions"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	if rec := serve(newTestServer(&mockScheduler{}), http.MethodGet, "/healthz"); rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}
