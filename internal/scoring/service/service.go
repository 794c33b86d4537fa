// Package service runs the outcome scoring pipeline: minutes text in,
// classification plus an updated contact outcome out.
package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"crmdash_backend/internal/outcome"
	"crmdash_backend/internal/scoring/ports"
	"crmdash_backend/internal/scoring/repository"
	"crmdash_backend/internal/scoring/transport"
	"crmdash_backend/platform/apperr"
	"crmdash_backend/platform/logger"
)

type Service struct {
	repo       repository.Store
	classifier ports.Classifier
	log        *logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(repo repository.Store, classifier ports.Classifier, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		log:        log,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetRand overrides the fallback randomness source. Tests only.
func (s *Service) SetRand(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng = rng
}

// SubmitMinutes stores the minutes text for a meeting, classifies it, and
// rolls the result into the linked contact's outcome.
func (s *Service) SubmitMinutes(ctx context.Context, userID, meetingID uuid.UUID, text string) (transport.ScoringResult, error) {
	meeting, err := s.repo.GetMeeting(ctx, meetingID, userID)
	if err != nil {
		return transport.ScoringResult{}, err
	}

	analysis := s.analyze(ctx, text)

	if err := s.repo.SaveMinutesAnalysis(ctx, meetingID, text, analysis.Score, analysis.Reasoning); err != nil {
		return transport.ScoringResult{}, apperr.Wrap(apperr.KindInternal, "failed to store meeting minutes", err)
	}

	result := transport.ScoringResult{
		Analysis: transport.Analysis{
			Score:             analysis.Score,
			Status:            analysis.Status,
			Reasoning:         analysis.Reasoning,
			DealBreakersFound: analysis.DealBreakersFound,
		},
		AverageScore: float64(analysis.Score),
	}

	if meeting.ContactID == nil {
		result.Message = "minutes scored; meeting has no linked contact"
		return result, nil
	}

	avg, derived, err := s.applyContactOutcome(ctx, *meeting.ContactID, analysis)
	if err != nil {
		// The minutes are already stored and scored, so report partial
		// success instead of failing the whole submission.
		s.log.DatabaseError("scoring.apply_contact_outcome", err)
		result.Message = "minutes scored; contact outcome update failed"
		return result, nil
	}

	status := string(derived)
	result.AverageScore = avg
	result.NewContactStatus = &status

	return result, nil
}

// ScoreStoredMinutes classifies a minutes record that was stored without a
// score and rolls the result into the linked contact's outcome. Used by the
// background sync worker.
func (s *Service) ScoreStoredMinutes(ctx context.Context, rec repository.MinutesRecord) error {
	analysis := s.analyze(ctx, rec.Body)

	if err := s.repo.UpdateMinutesScore(ctx, rec.ID, rec.MeetingID, analysis.Score, analysis.Reasoning); err != nil {
		return fmt.Errorf("update minutes score: %w", err)
	}

	contactID, err := s.repo.GetMeetingContact(ctx, rec.MeetingID)
	if err != nil {
		return fmt.Errorf("resolve meeting contact: %w", err)
	}
	if contactID == nil {
		return nil
	}

	if _, _, err := s.applyContactOutcome(ctx, *contactID, analysis); err != nil {
		return fmt.Errorf("apply contact outcome: %w", err)
	}

	return nil
}

// analyze classifies the minutes text. It never returns an error: blank text
// short-circuits to a zero score, and classifier failures fall back to a
// simulated analysis so a submission is never lost to an upstream outage.
func (s *Service) analyze(ctx context.Context, text string) ports.Analysis {
	if strings.TrimSpace(text) == "" {
		return ports.Analysis{
			Score:     0,
			Status:    string(outcome.Cold),
			Reasoning: "No meeting content provided.",
		}
	}

	if !s.classifier.Configured() {
		return s.simulate(text, true)
	}

	analysis, err := s.classifier.Classify(ctx, text)
	if err != nil {
		s.log.Warn("classifier unavailable, using simulated analysis", "error", err)
		return s.simulate(text, false)
	}

	return normalize(analysis)
}

// simulate produces a plausible analysis without the classifier. The score
// grows with text length on the assumption that longer minutes capture more
// substance. Deal breakers are only simulated when the classifier was never
// configured; a transient failure should not randomly kill a deal.
func (s *Service) simulate(text string, allowDealBreakers bool) ports.Analysis {
	s.mu.Lock()
	base := 40 + s.rng.Intn(41)
	roll := s.rng.Float64()
	s.mu.Unlock()

	lengthBonus := len(text) / 10
	if lengthBonus > 20 {
		lengthBonus = 20
	}

	score := base + lengthBonus
	if score > 100 {
		score = 100
	}

	dealBreakers := allowDealBreakers && roll < 0.1

	return ports.Analysis{
		Score:             score,
		Status:            string(outcome.FromScore(float64(score))),
		Reasoning:         "Simulated analysis: classifier unavailable, score estimated from meeting length.",
		DealBreakersFound: dealBreakers,
	}
}

// normalize clamps the score and maps any legacy status vocabulary onto the
// canonical outcome set, deriving from the score when the status is unusable.
func normalize(a ports.Analysis) ports.Analysis {
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}

	if parsed, ok := outcome.Parse(a.Status); ok {
		a.Status = string(parsed)
	} else {
		a.Status = string(outcome.FromScore(float64(a.Score)))
	}

	return a
}

// applyContactOutcome averages every stored score across the contact's
// meetings, derives the outcome from the mean, and persists it. A found deal
// breaker overrides the derived outcome to LOST regardless of score.
func (s *Service) applyContactOutcome(ctx context.Context, contactID uuid.UUID, analysis ports.Analysis) (float64, outcome.Outcome, error) {
	scores, err := s.repo.ListContactScores(ctx, contactID)
	if err != nil {
		return 0, "", err
	}

	avg := float64(analysis.Score)
	if len(scores) > 0 {
		sum := 0
		for _, score := range scores {
			sum += score
		}
		avg = math.Round(float64(sum)/float64(len(scores))*100) / 100
	}

	derived := outcome.FromScore(avg)
	if analysis.DealBreakersFound {
		derived = outcome.Lost
	}

	status := string(derived)
	if err := s.repo.UpdateContactOutcome(ctx, contactID, status, &status); err != nil {
		return 0, "", err
	}

	return avg, derived, nil
}
