package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"crmdash_backend/internal/outcome"
	"crmdash_backend/internal/scoring/ports"
	"crmdash_backend/internal/scoring/repository"
	"crmdash_backend/platform/apperr"
	"crmdash_backend/platform/logger"
)

// fakeClassifier returns a canned analysis or error.
type fakeClassifier struct {
	configured bool
	analysis   ports.Analysis
	err        error
	calls      int
}

func (f *fakeClassifier) Configured() bool { return f.configured }

func (f *fakeClassifier) Classify(_ context.Context, _ string) (ports.Analysis, error) {
	f.calls++
	if f.err != nil {
		return ports.Analysis{}, f.err
	}
	return f.analysis, nil
}

// fakeStore records writes and serves canned reads.
type fakeStore struct {
	meeting       repository.Meeting
	meetingErr    error
	contactScores []int

	savedBody      string
	savedScore     int
	savedReasoning string
	saveCalls      int

	updatedMinutesID uuid.UUID
	minutesScore     int

	outcomeContact uuid.UUID
	outcomeText    string
	outcomeStatus  *string
	outcomeCalls   int
}

func (f *fakeStore) GetMeeting(_ context.Context, _, _ uuid.UUID) (repository.Meeting, error) {
	return f.meeting, f.meetingErr
}

func (f *fakeStore) GetMeetingContact(_ context.Context, _ uuid.UUID) (*uuid.UUID, error) {
	return f.meeting.ContactID, nil
}

func (f *fakeStore) SaveMinutesAnalysis(_ context.Context, _ uuid.UUID, body string, score int, reasoning string) error {
	f.saveCalls++
	f.savedBody = body
	f.savedScore = score
	f.savedReasoning = reasoning
	return nil
}

func (f *fakeStore) UpdateMinutesScore(_ context.Context, minutesID, _ uuid.UUID, score int, _ string) error {
	f.updatedMinutesID = minutesID
	f.minutesScore = score
	return nil
}

func (f *fakeStore) ListContactScores(_ context.Context, _ uuid.UUID) ([]int, error) {
	return f.contactScores, nil
}

func (f *fakeStore) UpdateContactOutcome(_ context.Context, contactID uuid.UUID, outcomeText string, status *string) error {
	f.outcomeCalls++
	f.outcomeContact = contactID
	f.outcomeText = outcomeText
	f.outcomeStatus = status
	return nil
}

func (f *fakeStore) UpdateContactOutcomeIfUnset(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (f *fakeStore) ListUnscoredMinutes(_ context.Context) ([]repository.MinutesRecord, error) {
	return nil, nil
}

func (f *fakeStore) ListScoredMinutes(_ context.Context) ([]repository.ScoredMinutes, error) {
	return nil, nil
}

var _ repository.Store = (*fakeStore)(nil)

func linkedMeeting() (repository.Meeting, uuid.UUID) {
	contactID := uuid.New()
	return repository.Meeting{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ContactID: &contactID,
		Status:    "completed",
	}, contactID
}

func newTestService(store *fakeStore, classifier ports.Classifier) *Service {
	svc := NewService(store, classifier, logger.New("development"))
	svc.SetRand(rand.New(rand.NewSource(1)))
	return svc
}

const sampleMinutes = "Discussed budget approval and rollout timeline with the decision maker."

func TestSubmitMinutesMeetingNotFound(t *testing.T) {
	store := &fakeStore{meetingErr: apperr.NotFound("meeting not found")}
	svc := newTestService(store, &fakeClassifier{})

	_, err := svc.SubmitMinutes(context.Background(), uuid.New(), uuid.New(), sampleMinutes)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("error kind = %v, want KindNotFound", apperr.GetKind(err))
	}
	if store.saveCalls != 0 {
		t.Errorf("minutes should not be stored for a missing meeting")
	}
}

func TestSubmitMinutesBlankTextSkipsClassifier(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting}
	classifier := &fakeClassifier{configured: true}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, "   \n\t ")
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if classifier.calls != 0 {
		t.Errorf("classifier called %d times for blank text, want 0", classifier.calls)
	}
	if result.Analysis.Score != 0 {
		t.Errorf("Score = %d, want 0", result.Analysis.Score)
	}
	if result.Analysis.Status != string(outcome.Cold) {
		t.Errorf("Status = %q, want %q", result.Analysis.Status, outcome.Cold)
	}
	if store.saveCalls != 1 {
		t.Errorf("blank minutes should still be stored")
	}
}

func TestSubmitMinutesClassifierResult(t *testing.T) {
	meeting, contactID := linkedMeeting()
	store := &fakeStore{meeting: meeting, contactScores: []int{82}}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 82, Status: "HOT", Reasoning: "Strong BANT signals."},
	}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if result.Analysis.Score != 82 || result.Analysis.Status != "HOT" {
		t.Errorf("analysis = %d/%q, want 82/HOT", result.Analysis.Score, result.Analysis.Status)
	}
	if store.savedScore != 82 {
		t.Errorf("stored score = %d, want 82", store.savedScore)
	}
	if store.outcomeContact != contactID {
		t.Errorf("outcome written to %v, want %v", store.outcomeContact, contactID)
	}
	if result.NewContactStatus == nil || *result.NewContactStatus != "HOT" {
		t.Errorf("NewContactStatus = %v, want HOT", result.NewContactStatus)
	}
}

func TestSubmitMinutesNormalizesLegacyStatus(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting, contactScores: []int{90}}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 90, Status: "WON", Reasoning: "Closed."},
	}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}
	if result.Analysis.Status != string(outcome.Hot) {
		t.Errorf("Status = %q, want %q (legacy WON maps to HOT)", result.Analysis.Status, outcome.Hot)
	}
}

func TestSubmitMinutesAveragesContactHistory(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting, contactScores: []int{80, 70, 60, 90}}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 90, Status: "HOT"},
	}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if result.AverageScore != 75 {
		t.Errorf("AverageScore = %v, want 75", result.AverageScore)
	}
	// Mean of 75 is not above the 75 threshold, so the contact lands WARM
	// even though this single meeting scored HOT.
	if result.NewContactStatus == nil || *result.NewContactStatus != string(outcome.Warm) {
		t.Errorf("NewContactStatus = %v, want WARM", result.NewContactStatus)
	}
	if store.outcomeText != string(outcome.Warm) {
		t.Errorf("stored outcome = %q, want WARM", store.outcomeText)
	}
}

func TestSubmitMinutesDealBreakerForcesLost(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting, contactScores: []int{85}}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 85, Status: "HOT", DealBreakersFound: true},
	}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if result.NewContactStatus == nil || *result.NewContactStatus != string(outcome.Lost) {
		t.Errorf("NewContactStatus = %v, want LOST despite high score", result.NewContactStatus)
	}
}

func TestSubmitMinutesUnlinkedMeeting(t *testing.T) {
	meeting := repository.Meeting{ID: uuid.New(), UserID: uuid.New(), Status: "completed"}
	store := &fakeStore{meeting: meeting}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 60, Status: "WARM"},
	}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if store.outcomeCalls != 0 {
		t.Errorf("no contact outcome should be written for an unlinked meeting")
	}
	if result.NewContactStatus != nil {
		t.Errorf("NewContactStatus = %v, want nil", result.NewContactStatus)
	}
	if result.Message == "" {
		t.Errorf("expected a partial-success message")
	}
}

func TestSubmitMinutesSimulatesWhenUnconfigured(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting}
	classifier := &fakeClassifier{configured: false}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("SubmitMinutes returned error: %v", err)
	}

	if classifier.calls != 0 {
		t.Errorf("unconfigured classifier should never be called")
	}
	if result.Analysis.Score < 40 || result.Analysis.Score > 100 {
		t.Errorf("simulated score = %d, want within [40, 100]", result.Analysis.Score)
	}
	want := string(outcome.FromScore(float64(result.Analysis.Score)))
	if result.Analysis.Status != want && !result.Analysis.DealBreakersFound {
		t.Errorf("simulated status %q inconsistent with score %d (want %q)", result.Analysis.Status, result.Analysis.Score, want)
	}
}

func TestSubmitMinutesSimulatesOnClassifierError(t *testing.T) {
	meeting, _ := linkedMeeting()
	store := &fakeStore{meeting: meeting}
	classifier := &fakeClassifier{configured: true, err: errors.New("upstream 503")}
	svc := newTestService(store, classifier)

	result, err := svc.SubmitMinutes(context.Background(), meeting.UserID, meeting.ID, sampleMinutes)
	if err != nil {
		t.Fatalf("classifier failure must not surface: %v", err)
	}

	if result.Analysis.Score < 40 || result.Analysis.Score > 100 {
		t.Errorf("fallback score = %d, want within [40, 100]", result.Analysis.Score)
	}
	// Transient failures never simulate deal breakers.
	if result.Analysis.DealBreakersFound {
		t.Errorf("error fallback must not report deal breakers")
	}
	if store.saveCalls != 1 {
		t.Errorf("fallback analysis should still be persisted")
	}
}

func TestSimulateDealBreakerOnlyWhenAllowed(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeClassifier{})

	for i := 0; i < 200; i++ {
		a := svc.simulate(sampleMinutes, false)
		if a.DealBreakersFound {
			t.Fatal("deal breakers must never be simulated when disallowed")
		}
		if a.Score < 40 || a.Score > 100 {
			t.Fatalf("score = %d, want within [40, 100]", a.Score)
		}
	}

	found := false
	for i := 0; i < 200; i++ {
		if svc.simulate(sampleMinutes, true).DealBreakersFound {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected at least one simulated deal breaker in 200 draws")
	}
}

func TestScoreStoredMinutesUpdatesContact(t *testing.T) {
	meeting, contactID := linkedMeeting()
	store := &fakeStore{meeting: meeting, contactScores: []int{30, 20}}
	classifier := &fakeClassifier{
		configured: true,
		analysis:   ports.Analysis{Score: 25, Status: "COLD"},
	}
	svc := newTestService(store, classifier)

	rec := repository.MinutesRecord{ID: uuid.New(), MeetingID: meeting.ID, Body: sampleMinutes}
	if err := svc.ScoreStoredMinutes(context.Background(), rec); err != nil {
		t.Fatalf("ScoreStoredMinutes returned error: %v", err)
	}

	if store.updatedMinutesID != rec.ID {
		t.Errorf("updated minutes %v, want %v", store.updatedMinutesID, rec.ID)
	}
	if store.minutesScore != 25 {
		t.Errorf("minutes score = %d, want 25", store.minutesScore)
	}
	if store.outcomeContact != contactID {
		t.Errorf("outcome written to %v, want %v", store.outcomeContact, contactID)
	}
	if store.outcomeText != string(outcome.Cold) {
		t.Errorf("outcome = %q, want COLD (mean 25)", store.outcomeText)
	}
}
