// Package scheduler runs background maintenance loops.
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"crmdash_backend/internal/outcome"
	"crmdash_backend/internal/scoring/repository"
	"crmdash_backend/platform/logger"
)

// MinutesScorer scores a stored minutes record and updates the linked contact.
type MinutesScorer interface {
	ScoreStoredMinutes(ctx context.Context, rec repository.MinutesRecord) error
}

// SyncStore is the persistence surface the sync worker depends on.
type SyncStore interface {
	ListUnscoredMinutes(ctx context.Context) ([]repository.MinutesRecord, error)
	ListScoredMinutes(ctx context.Context) ([]repository.ScoredMinutes, error)
	GetMeetingContact(ctx context.Context, meetingID uuid.UUID) (*uuid.UUID, error)
	UpdateContactOutcomeIfUnset(ctx context.Context, contactID uuid.UUID, outcomeText string) (bool, error)
}

// MinutesSyncWorker periodically scores minutes that were stored without an
// analysis and backfills outcomes for contacts that never received one.
type MinutesSyncWorker struct {
	store    SyncStore
	scorer   MinutesScorer
	log      *logger.Logger
	interval time.Duration
}

func NewMinutesSyncWorker(store SyncStore, scorer MinutesScorer, log *logger.Logger, interval time.Duration) *MinutesSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}

	return &MinutesSyncWorker{
		store:    store,
		scorer:   scorer,
		log:      log,
		interval: interval,
	}
}

// Run executes one cycle immediately, then repeats on the configured
// interval until the context is cancelled.
func (w *MinutesSyncWorker) Run(ctx context.Context) {
	w.log.Info("minutes sync worker started", "interval", w.interval.String())

	w.RunCycle(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("minutes sync worker stopped")
			return
		case <-ticker.C:
			w.RunCycle(ctx)
		}
	}
}

// RunCycle processes unscored minutes, then backfills missing contact
// outcomes. Failures are logged and never stop the cycle.
func (w *MinutesSyncWorker) RunCycle(ctx context.Context) {
	w.processUnscored(ctx)
	w.backfillOutcomes(ctx)
}

func (w *MinutesSyncWorker) processUnscored(ctx context.Context) {
	records, err := w.store.ListUnscoredMinutes(ctx)
	if err != nil {
		w.log.WorkerError("minutes_sync.list_unscored", err)
		return
	}

	if len(records) == 0 {
		return
	}

	w.log.Info("scoring stored minutes", "count", len(records))

	for _, rec := range records {
		if ctx.Err() != nil {
			return
		}
		if strings.TrimSpace(rec.Body) == "" {
			continue
		}
		if err := w.scorer.ScoreStoredMinutes(ctx, rec); err != nil {
			w.log.WorkerError("minutes_sync.score", err)
		}
	}
}

// backfillOutcomes derives an outcome from each scored minutes record and
// writes it only for contacts whose outcome is still unset. Existing
// outcomes are never overwritten.
func (w *MinutesSyncWorker) backfillOutcomes(ctx context.Context) {
	records, err := w.store.ListScoredMinutes(ctx)
	if err != nil {
		w.log.WorkerError("minutes_sync.list_scored", err)
		return
	}

	for _, rec := range records {
		if ctx.Err() != nil {
			return
		}

		contactID, err := w.store.GetMeetingContact(ctx, rec.MeetingID)
		if err != nil {
			w.log.WorkerError("minutes_sync.resolve_contact", err)
			continue
		}
		if contactID == nil {
			continue
		}

		derived := outcome.FromScore(float64(rec.Score))
		updated, err := w.store.UpdateContactOutcomeIfUnset(ctx, *contactID, derived.ScanningLabel())
		if err != nil {
			w.log.WorkerError("minutes_sync.backfill_outcome", err)
			continue
		}
		if updated {
			w.log.Info("backfilled contact outcome",
				"contact_id", contactID.String(),
				"outcome", derived.ScanningLabel(),
			)
		}
	}
}
