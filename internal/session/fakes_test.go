package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/foxseedlab/bootcampbot/internal/webhook"
)

var errStorage = errors.New("storage unavailable")

type mockRepository struct {
	sessions  map[string]repository.Session
	schedules map[string]repository.Schedule

	saveSessionCalls  int
	failSessionSaves  int
	failScheduleLoads int
	saveScheduleCalls int
	deleteCalls       []string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions:  make(map[string]repository.Session),
		schedules: make(map[string]repository.Schedule),
	}
}

func (m *mockRepository) LoadSessions(_ context.Context) ([]repository.Session, error) {
	out := make([]repository.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *mockRepository) SaveSession(_ context.Context, session repository.Session) error {
	m.saveSessionCalls++
	if m.failSessionSaves > 0 {
		m.failSessionSaves--
		return errStorage
	}
	m.sessions[session.ID] = session.Clone()
	return nil
}

func (m *mockRepository) DeleteSession(_ context.Context, sessionID string) error {
	m.deleteCalls = append(m.deleteCalls, sessionID)
	delete(m.sessions, sessionID)
	return nil
}

func (m *mockRepository) LoadAllSchedules(_ context.Context) ([]repository.Schedule, error) {
	if m.failScheduleLoads > 0 {
		m.failScheduleLoads--
		return nil, errStorage
	}
	out := make([]repository.Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (m *mockRepository) LoadScheduleByUser(_ context.Context, user string) (*repository.Schedule, error) {
	s, ok := m.schedules[user]
	if !ok {
		return nil, nil
	}
	clone := s.Clone()
	return &clone, nil
}

func (m *mockRepository) SaveSchedule(_ context.Context, schedule repository.Schedule) error {
	m.saveScheduleCalls++
	m.schedules[schedule.User] = schedule.Clone()
	return nil
}

func (m *mockRepository) DeleteSchedule(_ context.Context, user string) error {
	delete(m.schedules, user)
	return nil
}

type mockSessionPresenter struct {
	presented   []string
	represented []string
}

func (m *mockSessionPresenter) PresentSession(_ context.Context, session *repository.Session) error {
	m.presented = append(m.presented, session.ID)
	if session.MessageID == "" {
		session.MessageID = "msg-" + session.ID
	}
	return nil
}

func (m *mockSessionPresenter) RepresentSession(_ context.Context, session *repository.Session) error {
	m.represented = append(m.represented, session.ID)
	return nil
}

type mockHelpPrinter struct {
	helps int
	infos []string
}

func (m *mockHelpPrinter) PrintHelp(_ context.Context, _, _ string) error {
	m.helps++
	return nil
}

func (m *mockHelpPrinter) PrintInfo(_ context.Context, _, _, message string) error {
	m.infos = append(m.infos, message)
	return nil
}

type mockLeaderboardPresenter struct {
	posted  []*leaderboard.Leaderboard
	private []*leaderboard.Leaderboard
}

func (m *mockLeaderboardPresenter) PresentLeaderboard(_ context.Context, board *leaderboard.Leaderboard) error {
	m.posted = append(m.posted, board)
	return nil
}

func (m *mockLeaderboardPresenter) PresentLeaderboardForUser(_ context.Context, board *leaderboard.Leaderboard, _, _ string) error {
	m.private = append(m.private, board)
	return nil
}

type mockWebhookSender struct {
	payloads []webhook.LeaderboardWebhookPayload
}

func (m *mockWebhookSender) SendLeaderboard(_ context.Context, payload webhook.LeaderboardWebhookPayload) error {
	m.payloads = append(m.payloads, payload)
	return nil
}

type testHarness struct {
	scheduler *Scheduler
	repo      *mockRepository
	sessions  *mockSessionPresenter
	help      *mockHelpPrinter
	boards    *mockLeaderboardPresenter
	webhook   *mockWebhookSender
	today     calendar.Date
	now       time.Time
}

func testConfig() *config.Config {
	return &config.Config{
		DiscordGuildID:    "guild-1",
		DiscordChannelID:  "channel-1",
		ScheduleWeekdays:  []string{"monday", "tuesday", "thursday"},
		TriggerTimezone:   "Europe/Amsterdam",
		TriggerHour:       9,
		SaveRetryAttempts: 3,
	}
}

// newHarness builds a scheduler whose today is Monday 2024-10-21.
func newHarness(cfg *config.Config) *testHarness {
	h := &testHarness{
		repo:     newMockRepository(),
		sessions: &mockSessionPresenter{},
		help:     &mockHelpPrinter{},
		boards:   &mockLeaderboardPresenter{},
		webhook:  &mockWebhookSender{},
		today:    calendar.New(2024, time.October, 21),
	}
	h.now = time.Date(2024, time.October, 21, 9, 0, 0, 0, cfg.TriggerLocation())
	ids := 0
	h.scheduler = NewScheduler(cfg, h.repo, h.sessions, h.help, h.boards, h.webhook,
		WithToday(func() calendar.Date { return h.today }),
		WithTriggerClock(func() time.Time { return h.now }),
		WithIDGenerator(func() string {
			ids++
			return fmt.Sprintf("s-%d", ids)
		}),
		WithRetryDelay(0),
	)
	return h
}

func (h *testHarness) seedSession(id string, date calendar.Date, participants ...string) {
	if participants == nil {
		participants = []string{}
	}
	h.repo.sessions[id] = repository.Session{ID: id, Date: date, Participants: participants}
}

func (h *testHarness) seedSchedule(user string, weekdays ...time.Weekday) {
	h.repo.schedules[user] = repository.Schedule{User: user, Weekdays: weekdays}
}

func (h *testHarness) lastInfo() string {
	if len(h.help.infos) == 0 {
		return ""
	}
	return h.help.infos[len(h.help.infos)-1]
}
