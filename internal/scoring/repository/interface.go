package repository

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence surface the scoring service depends on.
type Store interface {
	// GetMeeting fetches a meeting owned by the given user.
	GetMeeting(ctx context.Context, meetingID, userID uuid.UUID) (Meeting, error)
	// GetMeetingContact returns the contact linked to a meeting, nil when unlinked.
	GetMeetingContact(ctx context.Context, meetingID uuid.UUID) (*uuid.UUID, error)
	// SaveMinutesAnalysis upserts the minutes body and analysis for a meeting
	// and marks the meeting as having minutes.
	SaveMinutesAnalysis(ctx context.Context, meetingID uuid.UUID, body string, score int, reasoning string) error
	// UpdateMinutesScore scores a previously stored minutes record.
	UpdateMinutesScore(ctx context.Context, minutesID, meetingID uuid.UUID, score int, reasoning string) error
	// ListContactScores returns every stored minutes score across the contact's meetings.
	ListContactScores(ctx context.Context, contactID uuid.UUID) ([]int, error)
	// UpdateContactOutcome writes the contact's outcome and, when status is
	// non-nil, the canonical outcome status alongside it.
	UpdateContactOutcome(ctx context.Context, contactID uuid.UUID, outcomeText string, status *string) error
	// UpdateContactOutcomeIfUnset writes the outcome only when the contact has
	// none yet. Reports whether a row was updated.
	UpdateContactOutcomeIfUnset(ctx context.Context, contactID uuid.UUID, outcomeText string) (bool, error)
	// ListUnscoredMinutes returns minutes records that have a body but no score.
	ListUnscoredMinutes(ctx context.Context) ([]MinutesRecord, error)
	// ListScoredMinutes returns minutes records that already carry a score.
	ListScoredMinutes(ctx context.Context) ([]ScoredMinutes, error)
}
