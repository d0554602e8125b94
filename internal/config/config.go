package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
)

const (
	StorageBackendPostgres = "postgres"
	StorageBackendRedis    = "redis"
	StorageBackendSQLite   = "sqlite"
)

type Config struct {
	Env                   string
	DiscordToken          string
	DiscordGuildID        string
	DiscordChannelID      string
	StorageBackend        string
	DatabaseURL           string
	RedisURL              string
	SQLitePath            string
	SessionLimit          int
	ScheduleWeekdays      []string
	TriggerTimezone       string
	TriggerHour           int
	TickInterval          time.Duration
	InactivityTimeout     time.Duration
	HTTPAddr              string
	LeaderboardWebhookURL string
	SaveRetryAttempts     int
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	switch c.StorageBackend {
	case StorageBackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	case StorageBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_BACKEND=redis")
		}
	case StorageBackendSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_BACKEND=sqlite")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of postgres, redis, sqlite, got %q", c.StorageBackend)
	}
	if c.SessionLimit < 0 {
		return fmt.Errorf("SESSION_LIMIT must not be negative, got %d", c.SessionLimit)
	}
	if len(c.ScheduleWeekdays) == 0 {
		return fmt.Errorf("SCHEDULE_WEEKDAYS must name at least one weekday")
	}
	for _, name := range c.ScheduleWeekdays {
		if _, ok := calendar.ParseWeekday(name); !ok {
			return fmt.Errorf("SCHEDULE_WEEKDAYS contains an unknown weekday %q", name)
		}
	}
	if c.TriggerHour < 0 || c.TriggerHour > 23 {
		return fmt.Errorf("TRIGGER_HOUR must be between 0 and 23, got %d", c.TriggerHour)
	}
	if _, err := time.LoadLocation(c.TriggerTimezone); err != nil {
		return fmt.Errorf("TRIGGER_TIMEZONE is invalid: %w", err)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	if c.InactivityTimeout < 0 {
		return fmt.Errorf("INACTIVITY_TIMEOUT must not be negative, got %s", c.InactivityTimeout)
	}
	if c.SaveRetryAttempts < 1 {
		return fmt.Errorf("SAVE_RETRY_ATTEMPTS must be at least 1, got %d", c.SaveRetryAttempts)
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "DISCORD_CHANNEL_ID", value: c.DiscordChannelID},
		{name: "TRIGGER_TIMEZONE", value: c.TriggerTimezone},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// TriggerLocation returns the zone used for the morning trigger hour.
// Validate guarantees the zone loads; UTC is returned otherwise.
func (c *Config) TriggerLocation() *time.Location {
	loc, err := time.LoadLocation(c.TriggerTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleWeekdaySet returns the weekdays users may put on a schedule.
func (c *Config) ScheduleWeekdaySet() map[time.Weekday]struct{} {
	set := make(map[time.Weekday]struct{}, len(c.ScheduleWeekdays))
	for _, name := range c.ScheduleWeekdays {
		if w, ok := calendar.ParseWeekday(strings.TrimSpace(name)); ok {
			set[w] = struct{}{}
		}
	}
	return set
}
