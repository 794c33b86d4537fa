package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmdash_backend/internal/adapters"
	"crmdash_backend/internal/scheduler"
	scoringrepo "crmdash_backend/internal/scoring/repository"
	scoringservice "crmdash_backend/internal/scoring/service"
	"crmdash_backend/platform/ai/gemini"
	"crmdash_backend/platform/config"
	"crmdash_backend/platform/db"
	"crmdash_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	classifier := adapters.NewGeminiClassifier(gemini.NewClient(gemini.Config{
		APIKey: cfg.GetGeminiAPIKey(),
		Model:  cfg.GetGeminiModel(),
	}))
	if !classifier.Configured() {
		log.Warn("GEMINI_API_KEY not configured; minutes scoring runs in simulation mode")
	}

	repo := scoringrepo.NewRepository(pool)
	scorer := scoringservice.NewService(repo, classifier, log)

	worker := scheduler.NewMinutesSyncWorker(repo, scorer, log, cfg.GetSyncPollInterval())
	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
