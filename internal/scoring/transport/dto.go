package transport

import "github.com/google/uuid"

// SubmitMinutesRequest is the direct minutes submission body.
type SubmitMinutesRequest struct {
	MeetingID uuid.UUID `json:"meeting_id" validate:"required"`
	MoMText   string    `json:"mom_text" validate:"required,min=10"`
}

// Analysis is the classification verdict returned to the caller.
type Analysis struct {
	Score             int    `json:"score"`
	Status            string `json:"status"`
	Reasoning         string `json:"reasoning"`
	DealBreakersFound bool   `json:"deal_breakers_found"`
}

// ScoringResult is the full pipeline outcome for one submission.
type ScoringResult struct {
	Analysis         Analysis `json:"analysis"`
	AverageScore     float64  `json:"average_score"`
	NewContactStatus *string  `json:"new_contact_status,omitempty"`
	Message          string   `json:"message,omitempty"`
}
