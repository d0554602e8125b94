package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) repository.Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) LoadSessions(ctx context.Context) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, participants, participant_limit, message_id
		 FROM sessions ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		var s repository.Session
		var date time.Time
		if err := rows.Scan(&s.ID, &date, &s.Participants, &s.Limit, &s.MessageID); err != nil {
			return nil, err
		}
		s.Date = calendar.FromTime(date)
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) SaveSession(ctx context.Context, session repository.Session) error {
	participants := session.Participants
	if participants == nil {
		participants = []string{}
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, date, participants, participant_limit, message_id, updated_at)
		 VALUES ($1, $2::date, $3, $4, $5, NOW())
		 ON CONFLICT (id) DO UPDATE SET
		   participants = EXCLUDED.participants,
		   participant_limit = EXCLUDED.participant_limit,
		   message_id = EXCLUDED.message_id,
		   updated_at = NOW()`,
		session.ID, session.Date.String(), participants, session.Limit, session.MessageID)
	return err
}

func (r *PostgresRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	return err
}

func (r *PostgresRepository) LoadAllSchedules(ctx context.Context) ([]repository.Schedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, weekdays FROM schedules ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Schedule
	for rows.Next() {
		var s repository.Schedule
		var weekdays []int16
		if err := rows.Scan(&s.User, &weekdays); err != nil {
			return nil, err
		}
		s.Weekdays = weekdaysFromInts(weekdays)
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) LoadScheduleByUser(ctx context.Context, user string) (*repository.Schedule, error) {
	row := r.pool.QueryRow(ctx, `SELECT user_id, weekdays FROM schedules WHERE user_id = $1`, user)
	var s repository.Schedule
	var weekdays []int16
	if err := row.Scan(&s.User, &weekdays); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s.Weekdays = weekdaysFromInts(weekdays)
	return &s, nil
}

func (r *PostgresRepository) SaveSchedule(ctx context.Context, schedule repository.Schedule) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO schedules (user_id, weekdays, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET weekdays = EXCLUDED.weekdays, updated_at = NOW()`,
		schedule.User, weekdaysToInts(schedule.Weekdays))
	return err
}

func (r *PostgresRepository) DeleteSchedule(ctx context.Context, user string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE user_id = $1`, user)
	return err
}

func (r *PostgresRepository) Shutdown() error {
	r.pool.Close()
	return nil
}

func weekdaysToInts(weekdays []time.Weekday) []int16 {
	out := make([]int16, 0, len(weekdays))
	for _, w := range weekdays {
		out = append(out, int16(w))
	}
	return out
}

func weekdaysFromInts(values []int16) []time.Weekday {
	out := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		if v < int16(time.Sunday) || v > int16(time.Saturday) {
			continue
		}
		out = append(out, time.Weekday(v))
	}
	s := repository.Schedule{Weekdays: out}
	s.Normalize()
	return s.Weekdays
}
