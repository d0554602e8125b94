package repository

import "context"

type SessionRepository interface {
	LoadSessions(ctx context.Context) ([]Session, error)
	SaveSession(ctx context.Context, session Session) error
	DeleteSession(ctx context.Context, sessionID string) error
}

// ScheduleRepository stores one schedule per user. LoadScheduleByUser
// returns nil without an error when the user has no schedule.
type ScheduleRepository interface {
	LoadAllSchedules(ctx context.Context) ([]Schedule, error)
	LoadScheduleByUser(ctx context.Context, user string) (*Schedule, error)
	SaveSchedule(ctx context.Context, schedule Schedule) error
	DeleteSchedule(ctx context.Context, user string) error
}

type Repository interface {
	SessionRepository
	ScheduleRepository
}
