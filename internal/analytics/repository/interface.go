package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the read-side record store gateway consumed by the analytics
// service. The service folds these row sets into response shapes; no
// aggregation logic lives in the queries beyond filtering and grouping.
type Store interface {
	// CountContacts counts every contact the user owns, independent of range.
	CountContacts(ctx context.Context, userID uuid.UUID) (int, error)
	// ListContactOutcomes returns id + outcome fields for contacts created in range.
	ListContactOutcomes(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]ContactOutcome, error)
	// ListMeetingStatuses returns status + minutes flag for meetings scheduled in range.
	ListMeetingStatuses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]MeetingStatus, error)
	// ListEmailStatuses returns the status of emails drafted in range.
	ListEmailStatuses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]string, error)
	// CountOverdueFollowups counts contacts with a non-null follow-up due date in the past.
	CountOverdueFollowups(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)

	ListUpcomingMeetings(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]UpcomingMeeting, error)
	ListCompletedMeetings(ctx context.Context, userID uuid.UUID, limit int) ([]CompletedMeeting, error)
	ListDraftedEmails(ctx context.Context, userID uuid.UUID, limit int) ([]Email, error)
	ListContacts(ctx context.Context, userID uuid.UUID) ([]Contact, error)
	ListContactChannels(ctx context.Context, contactIDs []uuid.UUID) ([]ContactChannel, error)

	SearchContacts(ctx context.Context, userID uuid.UUID, query string) ([]Contact, error)
	SearchMeetings(ctx context.Context, userID uuid.UUID, query string) ([]Meeting, error)
	SearchEmails(ctx context.Context, userID uuid.UUID, query string) ([]Email, error)

	IndustryCounts(ctx context.Context, start, end time.Time) ([]IndustryCount, error)
	DailyScanCounts(ctx context.Context) ([]DailyScanCount, error)
}
