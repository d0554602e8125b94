package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foxseedlab/bootcampbot/internal/webhook"
)

func testPayload() webhook.LeaderboardWebhookPayload {
	return webhook.LeaderboardWebhookPayload{
		SchemaVersion: webhook.LeaderboardWebhookSchemaVersion,
		Month:         10,
		Year:          2024,
		Levels: []webhook.LeaderboardWebhookLevel{
			{Participant: "u1", Attendances: 3, Level: 1},
			{Participant: "u2", Attendances: 1, Level: 2},
		},
	}
}

func TestSendLeaderboard_EmptyWebhookURL(t *testing.T) {
	sender := NewHTTPSender("")
	if err := sender.SendLeaderboard(context.Background(), testPayload()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestSendLeaderboard_Success(t *testing.T) {
	var got webhook.LeaderboardWebhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		if period := r.Header.Get("X-Bootcamp-Leaderboard-Period"); period != "2024-10" {
			t.Errorf("unexpected period header: %s", period)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendLeaderboard(context.Background(), testPayload()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.SchemaVersion != 1 || got.Month != 10 || got.Year != 2024 {
		t.Fatalf("unexpected payload header: %+v", got)
	}
	if len(got.Levels) != 2 || got.Levels[0].Participant != "u1" || got.Levels[1].Level != 2 {
		t.Fatalf("unexpected levels: %+v", got.Levels)
	}
}

func TestSendLeaderboard_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sender := NewHTTPSender(server.URL)
	if err := sender.SendLeaderboard(context.Background(), testPayload()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestSendLeaderboard_SkipsEmptyBoard(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	payload := testPayload()
	payload.Levels = nil
	sender := NewHTTPSender(server.URL)
	if err := sender.SendLeaderboard(context.Background(), payload); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no request for an empty board, got %d", calls)
	}
}

func TestSendLeaderboard_RejectsInvalidMonth(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	payload := testPayload()
	payload.Month = 13
	if err := NewHTTPSender(server.URL).SendLeaderboard(context.Background(), payload); err == nil {
		t.Fatal("expected error for invalid month")
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

func TestLeaderboardPeriod(t *testing.T) {
	payload := testPayload()
	payload.Month = 3
	if got := leaderboardPeriod(payload); got != "2024-03" {
		t.Fatalf("unexpected period: %s", got)
	}
}
