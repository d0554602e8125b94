package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) repository.Repository {
	return &SQLiteRepository{db: db}
}

// OpenSQLite opens the database file at path and applies the migrations.
// ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := ":memory:"
	if path != dsn {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serialises writes.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := RunSQLiteMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func (r *SQLiteRepository) LoadSessions(ctx context.Context) ([]repository.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, participants, participant_limit, message_id
		 FROM sessions ORDER BY date ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	var list []repository.Session
	for rows.Next() {
		var s repository.Session
		var date, participants string
		if err := rows.Scan(&s.ID, &date, &participants, &s.Limit, &s.MessageID); err != nil {
			return nil, err
		}
		if s.Date, err = calendar.Parse(date); err != nil {
			return nil, fmt.Errorf("session %s has an invalid date: %w", s.ID, err)
		}
		if err := json.Unmarshal([]byte(participants), &s.Participants); err != nil {
			return nil, fmt.Errorf("session %s has invalid participants: %w", s.ID, err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) SaveSession(ctx context.Context, session repository.Session) error {
	participants := session.Participants
	if participants == nil {
		participants = []string{}
	}
	b, err := json.Marshal(participants)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, date, participants, participant_limit, message_id, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
		   participants = excluded.participants,
		   participant_limit = excluded.participant_limit,
		   message_id = excluded.message_id,
		   updated_at = excluded.updated_at`,
		session.ID, session.Date.String(), string(b), session.Limit, session.MessageID, nowMillis())
	return err
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

func (r *SQLiteRepository) LoadAllSchedules(ctx context.Context) ([]repository.Schedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, weekdays FROM schedules ORDER BY user_id ASC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	var list []repository.Schedule
	for rows.Next() {
		var user, weekdays string
		if err := rows.Scan(&user, &weekdays); err != nil {
			return nil, err
		}
		s, err := sqliteSchedule(user, weekdays)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SQLiteRepository) LoadScheduleByUser(ctx context.Context, user string) (*repository.Schedule, error) {
	var weekdays string
	err := r.db.QueryRowContext(ctx, `SELECT weekdays FROM schedules WHERE user_id = ?`, user).Scan(&weekdays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	s, err := sqliteSchedule(user, weekdays)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) SaveSchedule(ctx context.Context, schedule repository.Schedule) error {
	b, err := json.Marshal(weekdaysToInts(schedule.Weekdays))
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO schedules (user_id, weekdays, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET weekdays = excluded.weekdays, updated_at = excluded.updated_at`,
		schedule.User, string(b), nowMillis())
	return err
}

func (r *SQLiteRepository) DeleteSchedule(ctx context.Context, user string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE user_id = ?`, user)
	return err
}

func (r *SQLiteRepository) Shutdown() error {
	return r.db.Close()
}

func sqliteSchedule(user, weekdays string) (repository.Schedule, error) {
	var values []int16
	if err := json.Unmarshal([]byte(weekdays), &values); err != nil {
		return repository.Schedule{}, fmt.Errorf("schedule for %s has invalid weekdays: %w", user, err)
	}
	return repository.Schedule{User: user, Weekdays: weekdaysFromInts(values)}, nil
}

func nowMillis() int64 {
	return time.Now().UTC().UnixMilli()
}
