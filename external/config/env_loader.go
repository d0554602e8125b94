package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/bootcampbot/internal/config"
)

type envConfig struct {
	Env                   string        `env:"ENV" envDefault:"production"`
	DiscordToken          string        `env:"DISCORD_TOKEN,required"`
	DiscordGuildID        string        `env:"DISCORD_GUILD_ID,required"`
	DiscordChannelID      string        `env:"DISCORD_CHANNEL_ID,required"`
	StorageBackend        string        `env:"STORAGE_BACKEND" envDefault:"sqlite"`
	DatabaseURL           string        `env:"DATABASE_URL"`
	RedisURL              string        `env:"REDIS_URL"`
	SQLitePath            string        `env:"SQLITE_PATH" envDefault:"bootcamp.db"`
	SessionLimit          int           `env:"SESSION_LIMIT" envDefault:"0"`
	ScheduleWeekdays      []string      `env:"SCHEDULE_WEEKDAYS" envDefault:"monday,tuesday,thursday" envSeparator:","`
	TriggerTimezone       string        `env:"TRIGGER_TIMEZONE" envDefault:"Europe/Amsterdam"`
	TriggerHour           int           `env:"TRIGGER_HOUR" envDefault:"9"`
	TickInterval          time.Duration `env:"TICK_INTERVAL" envDefault:"1m"`
	InactivityTimeout     time.Duration `env:"INACTIVITY_TIMEOUT" envDefault:"0s"`
	HTTPAddr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	LeaderboardWebhookURL string        `env:"LEADERBOARD_WEBHOOK_URL"`
	SaveRetryAttempts     int           `env:"SAVE_RETRY_ATTEMPTS" envDefault:"3"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	return build(raw)
}

// LoadStorage reads only what is needed to open the store, for offline CLI commands.
func LoadStorage() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.ParseWithOptions(&raw, env.Options{
		Environment: withPlaceholders(env.ToMap(os.Environ())),
	}); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	return build(raw)
}

func build(raw envConfig) (*internalconfig.Config, error) {
	cfg := &internalconfig.Config{
		Env:                   raw.Env,
		DiscordToken:          raw.DiscordToken,
		DiscordGuildID:        raw.DiscordGuildID,
		DiscordChannelID:      raw.DiscordChannelID,
		StorageBackend:        raw.StorageBackend,
		DatabaseURL:           raw.DatabaseURL,
		RedisURL:              raw.RedisURL,
		SQLitePath:            raw.SQLitePath,
		SessionLimit:          raw.SessionLimit,
		ScheduleWeekdays:      raw.ScheduleWeekdays,
		TriggerTimezone:       raw.TriggerTimezone,
		TriggerHour:           raw.TriggerHour,
		TickInterval:          raw.TickInterval,
		InactivityTimeout:     raw.InactivityTimeout,
		HTTPAddr:              raw.HTTPAddr,
		LeaderboardWebhookURL: raw.LeaderboardWebhookURL,
		SaveRetryAttempts:     raw.SaveRetryAttempts,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

const offlinePlaceholder = "offline"

// withPlaceholders fills the Discord settings so storage-only commands can
// run without chat credentials.
func withPlaceholders(environ map[string]string) map[string]string {
	for _, key := range []string{"DISCORD_TOKEN", "DISCORD_GUILD_ID", "DISCORD_CHANNEL_ID"} {
		if environ[key] == "" {
			environ[key] = offlinePlaceholder
		}
	}
	return environ
}
