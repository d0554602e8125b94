package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do/v2"
)

const databaseInitTimeout = 15 * time.Second

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (repository.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		ctx, cancel := context.WithTimeout(context.Background(), databaseInitTimeout)
		defer cancel()

		switch cfg.StorageBackend {
		case config.StorageBackendPostgres:
			return openPostgres(ctx, cfg.DatabaseURL)
		case config.StorageBackendRedis:
			return openRedis(ctx, cfg.RedisURL)
		case config.StorageBackendSQLite:
			db, err := OpenSQLite(ctx, cfg.SQLitePath)
			if err != nil {
				return nil, fmt.Errorf("failed to open sqlite: %w", err)
			}
			return NewSQLiteRepository(db), nil
		default:
			return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
		}
	})
}

func openPostgres(ctx context.Context, databaseURL string) (repository.Repository, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := RunMigration(ctx, p); err != nil {
		p.Close()
		return nil, fmt.Errorf("failed to run migration: %w", err)
	}
	return NewPostgresRepository(p), nil
}

func openRedis(ctx context.Context, redisURL string) (repository.Repository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisRepository(client), nil
}
