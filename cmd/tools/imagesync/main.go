package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-grocer/internal/app"
	"github.com/noah-isme/backend-grocer/internal/config"
	dbgen "github.com/noah-isme/backend-grocer/internal/db/gen"
	"github.com/noah-isme/backend-grocer/internal/images"
	"github.com/noah-isme/backend-grocer/internal/lock"
	"github.com/noah-isme/backend-grocer/internal/obs"
)

// imagesync queues one images:fetch task per product with an image reference.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := obs.NewLogger("console", "info").With().Str("component", "imagesync").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error().Err(err).Msg("image sync finished with errors")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	pool, err := app.OpenPostgres(ctx, cfg.DatabaseURL, 2)
	if err != nil {
		return err
	}
	defer pool.Close()

	rdb, err := app.OpenRedis(ctx, cfg.RedisURL, logger)
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("parse redis url: %w", err)
	}
	client := asynq.NewClient(redisOpt)
	defer func() { _ = client.Close() }()

	locker := lock.Locker{R: rdb}
	err = locker.TryWithLock(ctx, "grocer:lock:imagesync", 10*time.Minute, func(ctx context.Context) error {
		sum, err := images.Sync(ctx, dbgen.New(pool), client)
		logger.Info().
			Int("products", sum.Total).
			Int("queued", sum.Queued).
			Int("duplicates", sum.Duplicates).
			Int("failed", sum.Failed).
			Msg("image sync summary")
		return err
	})
	if errors.Is(err, lock.ErrLocked) {
		logger.Warn().Msg("another image sync is running; nothing to do")
		return nil
	}
	return err
}
