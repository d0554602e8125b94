package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/presenter"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/foxseedlab/bootcampbot/internal/retry"
	"github.com/foxseedlab/bootcampbot/internal/webhook"
	"github.com/google/uuid"
)

const targetDateCount = 3

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrInvalidDateSelector = errors.New("invalid date selector")
)

// Scheduler owns the session registry. Every public operation holds mu for
// its whole duration, so one event is handled to completion before the next.
type Scheduler struct {
	cfg          *config.Config
	sessionRepo  repository.SessionRepository
	scheduleRepo repository.ScheduleRepository
	presenter    presenter.SessionPresenter
	help         presenter.HelpPrinter
	leaderboards presenter.LeaderboardPresenter
	webhook      webhook.Sender

	newID      func() string
	today      func() calendar.Date
	triggerNow func() time.Time
	retryDelay time.Duration
	weekdays   map[time.Weekday]struct{}

	mu              sync.Mutex
	sessions        map[string]*repository.Session
	lastMorning     calendar.Date
	lastLeaderboard calendar.Date
}

type Option func(*Scheduler)

// WithToday replaces the host-local date source.
func WithToday(today func() calendar.Date) Option {
	return func(s *Scheduler) { s.today = today }
}

// WithTriggerClock replaces the clock checked against the trigger hour.
func WithTriggerClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.triggerNow = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Scheduler) { s.newID = newID }
}

func WithRetryDelay(d time.Duration) Option {
	return func(s *Scheduler) { s.retryDelay = d }
}

func NewScheduler(cfg *config.Config, repo repository.Repository, sp presenter.SessionPresenter, hp presenter.HelpPrinter, lp presenter.LeaderboardPresenter, wh webhook.Sender, opts ...Option) *Scheduler {
	loc := cfg.TriggerLocation()
	s := &Scheduler{
		cfg:          cfg,
		sessionRepo:  repo,
		scheduleRepo: repo,
		presenter:    sp,
		help:         hp,
		leaderboards: lp,
		webhook:      wh,
		newID:        uuid.NewString,
		today:        func() calendar.Date { return calendar.Today(time.Local) },
		triggerNow:   func() time.Time { return time.Now().In(loc) },
		retryDelay:   retry.DefaultConfig().InitialDelay,
		weekdays:     cfg.ScheduleWeekdaySet(),
		sessions:     make(map[string]*repository.Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the stored sessions, creates the missing upcoming ones and
// presents today's session when there is one.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("starting scheduler")
	stored, err := s.sessionRepo.LoadSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}
	for _, raw := range stored {
		session := raw.Clone()
		s.sessions[session.ID] = &session
	}
	slog.Info("sessions loaded", "count", len(s.sessions))

	if err := s.createSessions(ctx); err != nil {
		return err
	}
	return s.presentToday(ctx)
}

// Sessions returns a snapshot of the registry ordered by date.
func (s *Scheduler) Sessions() []repository.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]repository.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func (s *Scheduler) Schedules(ctx context.Context) ([]repository.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules, err := s.scheduleRepo.LoadAllSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedules: %w", err)
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].User < schedules[j].User
	})
	return schedules, nil
}

// CreateSessions makes sure a session exists for each of the next bootcamp
// target dates.
func (s *Scheduler) CreateSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createSessions(ctx)
}

func (s *Scheduler) createSessions(ctx context.Context) error {
	targets := calendar.NextTargets(s.today(), targetDateCount)

	var schedules []repository.Schedule
	loaded := false
	var errs []error
	for _, date := range targets {
		if s.sessionOn(date) != nil {
			continue
		}
		if !loaded {
			var err error
			schedules, err = s.scheduleRepo.LoadAllSchedules(ctx)
			if err != nil {
				return fmt.Errorf("failed to load schedules: %w", err)
			}
			loaded = true
		}

		session := &repository.Session{
			ID:           s.newID(),
			Date:         date,
			Participants: scheduledParticipants(schedules, date),
			Limit:        s.cfg.SessionLimit,
		}
		s.sessions[session.ID] = session
		slog.Info("session created", "session_id", session.ID, "date", date.String(), "participants", len(session.Participants))
		if err := s.saveSession(ctx, session); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// scheduledParticipants lists every user whose schedule covers date, ordered
// by user id. The session limit only gates later joins.
func scheduledParticipants(schedules []repository.Schedule, date calendar.Date) []string {
	participants := []string{}
	for _, schedule := range schedules {
		if schedule.Contains(date.Weekday()) {
			participants = append(participants, schedule.User)
		}
	}
	sort.Strings(participants)
	return participants
}

func (s *Scheduler) sessionOn(date calendar.Date) *repository.Session {
	for _, session := range s.sessions {
		if session.Date == date {
			return session
		}
	}
	return nil
}

// presentToday posts or refreshes today's session message and stores the
// message reference.
func (s *Scheduler) presentToday(ctx context.Context) error {
	today := s.today()
	session := s.sessionOn(today)
	if session == nil {
		slog.Warn("no session for today", "date", today.String())
		return nil
	}
	if err := s.presenter.PresentSession(ctx, session); err != nil {
		slog.Error("failed to present session", "error", err, "session_id", session.ID)
		return nil
	}
	return s.saveSession(ctx, session)
}

// DeleteSession removes a session from memory and storage. Unknown ids are
// ignored.
func (s *Scheduler) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		slog.Info("delete requested for unknown session", "session_id", sessionID)
		return nil
	}
	delete(s.sessions, sessionID)
	err := s.withRetry(ctx, "delete session", func(ctx context.Context) error {
		return s.sessionRepo.DeleteSession(ctx, sessionID)
	})
	if err != nil {
		slog.Error("failed to delete session", "error", err, "session_id", sessionID)
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	slog.Info("session deleted", "session_id", sessionID)
	return nil
}

// FindSession resolves a session by id, or by date selector when id is empty.
func (s *Scheduler) FindSession(selector, sessionID string) (repository.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.findSession(selector, sessionID)
	if err != nil {
		return repository.Session{}, err
	}
	return session.Clone(), nil
}

func (s *Scheduler) findSession(selector, sessionID string) (*repository.Session, error) {
	if sessionID != "" {
		session, ok := s.sessions[sessionID]
		if !ok {
			return nil, ErrSessionNotFound
		}
		return session, nil
	}

	today := s.today()
	token := strings.ToLower(strings.TrimSpace(selector))
	switch token {
	case "", "today", "next", "now":
		return s.nextSessionFrom(today)
	case "tomorrow":
		return s.sessionOnOrErr(today.Tomorrow())
	}
	if weekday, ok := calendar.ParseWeekday(token); ok {
		return s.sessionOnOrErr(today.NextWeekday(weekday))
	}
	return nil, ErrInvalidDateSelector
}

func (s *Scheduler) nextSessionFrom(date calendar.Date) (*repository.Session, error) {
	var next *repository.Session
	for _, session := range s.sessions {
		if session.Date.Before(date) {
			continue
		}
		if next == nil || session.Date.Before(next.Date) {
			next = session
		}
	}
	if next == nil {
		return nil, ErrSessionNotFound
	}
	return next, nil
}

func (s *Scheduler) sessionOnOrErr(date calendar.Date) (*repository.Session, error) {
	if session := s.sessionOn(date); session != nil {
		return session, nil
	}
	return nil, ErrSessionNotFound
}

func (s *Scheduler) saveSession(ctx context.Context, session *repository.Session) error {
	snapshot := session.Clone()
	err := s.withRetry(ctx, "save session", func(ctx context.Context) error {
		return s.sessionRepo.SaveSession(ctx, snapshot)
	})
	if err != nil {
		slog.Error("failed to save session", "error", err, "session_id", session.ID, "participants", strings.Join(session.Participants, ","))
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

func (s *Scheduler) withRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, fn,
		retry.WithMaxAttempts(s.cfg.SaveRetryAttempts),
		retry.WithInitialDelay(s.retryDelay),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			slog.Warn("retrying storage call", "operation", operation, "attempt", attempt, "delay", delay, "error", err)
		}),
	)
}

// info sends best-effort feedback; failures are logged only.
func (s *Scheduler) info(ctx context.Context, user, channel, message string) {
	if err := s.help.PrintInfo(ctx, user, channel, message); err != nil {
		slog.Error("failed to send feedback", "error", err, "user_id", user, "channel_id", channel)
	}
}

func (s *Scheduler) PrintHelp(ctx context.Context, user, channel string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.help.PrintHelp(ctx, user, channel); err != nil {
		slog.Error("failed to print help", "error", err, "user_id", user, "channel_id", channel)
	}
}
