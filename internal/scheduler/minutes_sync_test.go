package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"crmdash_backend/internal/scoring/repository"
	"crmdash_backend/platform/logger"
)

type fakeSyncStore struct {
	unscored    []repository.MinutesRecord
	unscoredErr error
	scored      []repository.ScoredMinutes

	contacts map[uuid.UUID]*uuid.UUID
	// contacts with an existing outcome; UpdateContactOutcomeIfUnset reports
	// no update for these.
	withOutcome map[uuid.UUID]bool

	backfilled map[uuid.UUID]string
}

func (f *fakeSyncStore) ListUnscoredMinutes(_ context.Context) ([]repository.MinutesRecord, error) {
	return f.unscored, f.unscoredErr
}

func (f *fakeSyncStore) ListScoredMinutes(_ context.Context) ([]repository.ScoredMinutes, error) {
	return f.scored, nil
}

func (f *fakeSyncStore) GetMeetingContact(_ context.Context, meetingID uuid.UUID) (*uuid.UUID, error) {
	contactID, ok := f.contacts[meetingID]
	if !ok {
		return nil, errors.New("meeting not found")
	}
	return contactID, nil
}

func (f *fakeSyncStore) UpdateContactOutcomeIfUnset(_ context.Context, contactID uuid.UUID, outcomeText string) (bool, error) {
	if f.withOutcome[contactID] {
		return false, nil
	}
	if f.backfilled == nil {
		f.backfilled = map[uuid.UUID]string{}
	}
	f.backfilled[contactID] = outcomeText
	return true, nil
}

type fakeScorer struct {
	scored []uuid.UUID
	errFor map[uuid.UUID]error
}

func (f *fakeScorer) ScoreStoredMinutes(_ context.Context, rec repository.MinutesRecord) error {
	if err := f.errFor[rec.ID]; err != nil {
		return err
	}
	f.scored = append(f.scored, rec.ID)
	return nil
}

func TestRunCycleScoresUnscoredMinutes(t *testing.T) {
	recA := repository.MinutesRecord{ID: uuid.New(), MeetingID: uuid.New(), Body: "Discussed budget."}
	recB := repository.MinutesRecord{ID: uuid.New(), MeetingID: uuid.New(), Body: "Timeline agreed."}
	blank := repository.MinutesRecord{ID: uuid.New(), MeetingID: uuid.New(), Body: "   "}

	store := &fakeSyncStore{unscored: []repository.MinutesRecord{recA, blank, recB}}
	scorer := &fakeScorer{}
	worker := NewMinutesSyncWorker(store, scorer, logger.New("development"), time.Minute)

	worker.RunCycle(context.Background())

	if len(scorer.scored) != 2 {
		t.Fatalf("scored %d records, want 2 (blank body skipped)", len(scorer.scored))
	}
	if scorer.scored[0] != recA.ID || scorer.scored[1] != recB.ID {
		t.Errorf("scored %v, want [%v %v]", scorer.scored, recA.ID, recB.ID)
	}
}

func TestRunCycleContinuesPastScoringFailure(t *testing.T) {
	failing := repository.MinutesRecord{ID: uuid.New(), MeetingID: uuid.New(), Body: "Broken."}
	healthy := repository.MinutesRecord{ID: uuid.New(), MeetingID: uuid.New(), Body: "Fine."}

	store := &fakeSyncStore{unscored: []repository.MinutesRecord{failing, healthy}}
	scorer := &fakeScorer{errFor: map[uuid.UUID]error{failing.ID: errors.New("classifier down")}}
	worker := NewMinutesSyncWorker(store, scorer, logger.New("development"), time.Minute)

	worker.RunCycle(context.Background())

	if len(scorer.scored) != 1 || scorer.scored[0] != healthy.ID {
		t.Errorf("scored %v, want just %v after failure", scorer.scored, healthy.ID)
	}
}

func TestBackfillWritesOnlyUnsetOutcomes(t *testing.T) {
	meetingA, meetingB := uuid.New(), uuid.New()
	contactA, contactB := uuid.New(), uuid.New()

	store := &fakeSyncStore{
		scored: []repository.ScoredMinutes{
			{ID: uuid.New(), MeetingID: meetingA, Score: 80},
			{ID: uuid.New(), MeetingID: meetingB, Score: 80},
		},
		contacts: map[uuid.UUID]*uuid.UUID{
			meetingA: &contactA,
			meetingB: &contactB,
		},
		withOutcome: map[uuid.UUID]bool{contactB: true},
	}
	worker := NewMinutesSyncWorker(store, &fakeScorer{}, logger.New("development"), time.Minute)

	worker.RunCycle(context.Background())

	if got := store.backfilled[contactA]; got != "Conversion" {
		t.Errorf("backfilled outcome = %q, want %q (score 80 is HOT)", got, "Conversion")
	}
	if _, ok := store.backfilled[contactB]; ok {
		t.Errorf("existing outcome must never be overwritten")
	}
}

func TestBackfillSkipsUnlinkedMeetings(t *testing.T) {
	meetingID := uuid.New()
	store := &fakeSyncStore{
		scored:   []repository.ScoredMinutes{{ID: uuid.New(), MeetingID: meetingID, Score: 50}},
		contacts: map[uuid.UUID]*uuid.UUID{meetingID: nil},
	}
	worker := NewMinutesSyncWorker(store, &fakeScorer{}, logger.New("development"), time.Minute)

	worker.RunCycle(context.Background())

	if len(store.backfilled) != 0 {
		t.Errorf("backfilled %v, want none for unlinked meetings", store.backfilled)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &fakeSyncStore{}
	worker := NewMinutesSyncWorker(store, &fakeScorer{}, logger.New("development"), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

func TestRunCycleSurvivesListFailure(t *testing.T) {
	store := &fakeSyncStore{unscoredErr: errors.New("db down")}
	worker := NewMinutesSyncWorker(store, &fakeScorer{}, logger.New("development"), time.Minute)

	// Must not panic; backfill still runs.
	worker.RunCycle(context.Background())
}

func TestNewWorkerDefaultsInterval(t *testing.T) {
	worker := NewMinutesSyncWorker(&fakeSyncStore{}, &fakeScorer{}, logger.New("development"), 0)
	if worker.interval != time.Minute {
		t.Errorf("interval = %v, want 1m default", worker.interval)
	}
}
