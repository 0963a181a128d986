package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-grocer/internal/config"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
	"github.com/noah-isme/backend-grocer/internal/health"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

// Dependencies enumerates the shared clients every binary wires from config.
type Dependencies struct {
	DB      *pgxpool.Pool
	Queries *dbgen.Queries
	Redis   *redis.Client
}

// Open connects Postgres and Redis, applying migrations first when enabled.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Dependencies, error) {
	if cfg.DBMigrateOnStart {
		applied, err := RunMigrations(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info().Bool("applied", applied).Msg("database migrations checked")
	}
	pool, err := OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}
	rdb, err := OpenRedis(ctx, cfg.RedisURL, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return &Dependencies{DB: pool, Queries: dbgen.New(pool), Redis: rdb}, nil
}

// Close releases the clients.
func (d *Dependencies) Close() error {
	if d == nil {
		return nil
	}
	var err error
	if d.Redis != nil {
		err = d.Redis.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
	return err
}

// Probes returns readiness probes for the shared clients.
func (d *Dependencies) Probes() []health.Probe {
	return []health.Probe{
		health.PingProbe("db", d.DB, 500*time.Millisecond),
		{Name: "redis", Timeout: 300 * time.Millisecond, Check: func(ctx context.Context) error {
			return d.Redis.Ping(ctx).Err()
		}},
	}
}

// OpenPostgres builds a traced pgx pool and verifies connectivity.
func OpenPostgres(ctx context.Context, databaseURL string, maxConns int32) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// OpenRedis builds a Redis client with tracing. Instrumentation failures are
// logged, connectivity failures are returned.
func OpenRedis(ctx context.Context, redisURL string, logger zerolog.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := redisotel.InstrumentTracing(client); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("ping redis: %w", err), client.Close())
	}
	return client, nil
}
