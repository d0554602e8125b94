package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/webhook"
)

// OnTick runs the morning routine when the trigger clock reaches the
// configured hour. It is safe to call at any cadence: the routine runs at
// most once per local date.
func (s *Scheduler) OnTick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.triggerNow()
	if now.Hour() != s.cfg.TriggerHour {
		return nil
	}
	today := s.today()
	if s.lastMorning == today {
		return nil
	}
	slog.Info("morning trigger reached", "trigger_time", now.Format(time.RFC3339), "date", today.String())
	return s.runMorning(ctx)
}

// RunMorning runs the morning routine unconditionally, for external cron
// drivers.
func (s *Scheduler) RunMorning(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runMorning(ctx)
}

// runMorning marks the date as done only when every step succeeded, so a
// failed run is retried by the next tick within the trigger hour.
func (s *Scheduler) runMorning(ctx context.Context) error {
	today := s.today()

	var errs []error
	if err := s.createSessions(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.presentToday(ctx); err != nil {
		errs = append(errs, err)
	}
	if calendar.IsOneDayAfterLastSessionOfMonth(today) && s.lastLeaderboard != today {
		yesterday := today.Yesterday()
		s.postMonthlyLeaderboard(ctx, s.leaderboard(yesterday.Month, yesterday.Year, yesterday))
		s.lastLeaderboard = today
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("morning routine incomplete, will retry on next tick", "date", today.String(), "error", err)
		return err
	}
	s.lastMorning = today
	return nil
}

func (s *Scheduler) postMonthlyLeaderboard(ctx context.Context, board *leaderboard.Leaderboard) {
	slog.Info("posting monthly leaderboard", "month", board.Month.String(), "year", board.Year, "participants", len(board.Levels))
	if err := s.leaderboards.PresentLeaderboard(ctx, board); err != nil {
		slog.Error("failed to present leaderboard", "error", err, "month", board.Month.String(), "year", board.Year)
	}
	if err := s.webhook.SendLeaderboard(ctx, leaderboardPayload(board)); err != nil {
		slog.Error("failed to send leaderboard webhook", "error", err, "month", board.Month.String(), "year", board.Year)
	}
}

// Leaderboard ranks the attendances of month/year up to and including today.
func (s *Scheduler) Leaderboard(month time.Month, year int) *leaderboard.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboard(month, year, s.today())
}

// ShowLeaderboard shows the current month's leaderboard to one user.
func (s *Scheduler) ShowLeaderboard(ctx context.Context, user, channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.today()
	board := s.leaderboard(today.Month, today.Year, today)
	if err := s.leaderboards.PresentLeaderboardForUser(ctx, board, user, channel); err != nil {
		slog.Error("failed to show leaderboard", "error", err, "user_id", user, "channel_id", channel)
	}
}

func (s *Scheduler) leaderboard(month time.Month, year int, until calendar.Date) *leaderboard.Leaderboard {
	attendances := make([]leaderboard.Attendance, 0, len(s.sessions))
	for _, session := range s.sessions {
		attendances = append(attendances, leaderboard.Attendance{
			Date:         session.Date,
			Participants: session.Participants,
		})
	}
	return leaderboard.FromAttendances(month, year, attendances, until)
}

func leaderboardPayload(board *leaderboard.Leaderboard) webhook.LeaderboardWebhookPayload {
	levels := make([]webhook.LeaderboardWebhookLevel, 0, len(board.Levels))
	for _, l := range board.Levels {
		levels = append(levels, webhook.LeaderboardWebhookLevel{
			Participant: l.Participant,
			Attendances: l.Attendances,
			Level:       l.Level,
		})
	}
	return webhook.LeaderboardWebhookPayload{
		SchemaVersion: webhook.LeaderboardWebhookSchemaVersion,
		Month:         int(board.Month),
		Year:          board.Year,
		Levels:        levels,
	}
}
