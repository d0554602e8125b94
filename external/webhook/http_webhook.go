package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/webhook"
)

const (
	requestTimeout = 10 * time.Second

	// periodHeader carries the board's month so receivers can drop repeated posts.
	periodHeader = "X-Bootcamp-Leaderboard-Period"
)

type HTTPSender struct {
	webhookURL string
	client     *http.Client
}

func NewHTTPSender(webhookURL string) webhook.Sender {
	return &HTTPSender{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// SendLeaderboard posts a monthly board. Boards without attendances are not
// sent.
func (s *HTTPSender) SendLeaderboard(ctx context.Context, payload webhook.LeaderboardWebhookPayload) error {
	if s.webhookURL == "" {
		return nil
	}
	if payload.Month < 1 || payload.Month > 12 {
		return fmt.Errorf("leaderboard month must be between 1 and 12, got %d", payload.Month)
	}
	period := leaderboardPeriod(payload)
	if len(payload.Levels) == 0 {
		slog.Info("skipping leaderboard webhook for empty board", "period", period)
		return nil
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard %s: %w", period, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(periodHeader, period)
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send leaderboard %s: %w", period, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("leaderboard webhook for %s returned status %d", period, resp.StatusCode)
	}
	slog.Info("leaderboard webhook sent", "period", period, "participants", len(payload.Levels))
	return nil
}

// leaderboardPeriod formats the board's month as YYYY-MM.
func leaderboardPeriod(payload webhook.LeaderboardWebhookPayload) string {
	return fmt.Sprintf("%04d-%02d", payload.Year, payload.Month)
}
