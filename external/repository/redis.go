package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/redis/go-redis/v9"
)

// Sessions and schedules live in one hash each, keyed by session id and by
// user, holding JSON documents.
const (
	redisSessionsKey  = "bootcamp:sessions"
	redisSchedulesKey = "bootcamp:schedules"
)

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) repository.Repository {
	return &RedisRepository{client: client}
}

func (r *RedisRepository) LoadSessions(ctx context.Context) ([]repository.Session, error) {
	values, err := r.client.HGetAll(ctx, redisSessionsKey).Result()
	if err != nil {
		return nil, err
	}
	list := make([]repository.Session, 0, len(values))
	for id, raw := range values {
		var s repository.Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *RedisRepository) SaveSession(ctx context.Context, session repository.Session) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, redisSessionsKey, session.ID, b).Err()
}

func (r *RedisRepository) DeleteSession(ctx context.Context, sessionID string) error {
	return r.client.HDel(ctx, redisSessionsKey, sessionID).Err()
}

func (r *RedisRepository) LoadAllSchedules(ctx context.Context) ([]repository.Schedule, error) {
	values, err := r.client.HGetAll(ctx, redisSchedulesKey).Result()
	if err != nil {
		return nil, err
	}
	list := make([]repository.Schedule, 0, len(values))
	for user, raw := range values {
		s, err := decodeSchedule(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode schedule for %s: %w", user, err)
		}
		list = append(list, s)
	}
	return list, nil
}

func (r *RedisRepository) LoadScheduleByUser(ctx context.Context, user string) (*repository.Schedule, error) {
	raw, err := r.client.HGet(ctx, redisSchedulesKey, user).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	s, err := decodeSchedule(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schedule for %s: %w", user, err)
	}
	return &s, nil
}

func (r *RedisRepository) SaveSchedule(ctx context.Context, schedule repository.Schedule) error {
	b, err := json.Marshal(schedule)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, redisSchedulesKey, schedule.User, b).Err()
}

func (r *RedisRepository) DeleteSchedule(ctx context.Context, user string) error {
	return r.client.HDel(ctx, redisSchedulesKey, user).Err()
}

func (r *RedisRepository) Shutdown() error {
	return r.client.Close()
}

// redisSchedule mirrors the stored JSON so weekday numbers can be checked
// before they become time.Weekday values.
type redisSchedule struct {
	User     string  `json:"user"`
	Weekdays []int16 `json:"weekdays"`
}

func decodeSchedule(raw string) (repository.Schedule, error) {
	var stored redisSchedule
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return repository.Schedule{}, err
	}
	return repository.Schedule{User: stored.User, Weekdays: weekdaysFromInts(stored.Weekdays)}, nil
}
