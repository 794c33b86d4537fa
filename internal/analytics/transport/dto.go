package transport

import (
	"time"

	"github.com/google/uuid"
)

// DateRangePreset is a named shorthand for a reporting window.
type DateRangePreset string

const (
	PresetToday       DateRangePreset = "TODAY"
	PresetThisWeek    DateRangePreset = "THIS_WEEK"
	PresetThisMonth   DateRangePreset = "THIS_MONTH"
	PresetThisQuarter DateRangePreset = "THIS_QUARTER"
	PresetThisYear    DateRangePreset = "THIS_YEAR"
	PresetCustom      DateRangePreset = "CUSTOM"
)

// Request DTOs

// RangeRequest carries the user scope plus either a preset or explicit bounds.
// UserID binds as a string because gin's form mapper cannot populate a
// uuid.UUID; handlers parse it after validation.
type RangeRequest struct {
	UserID    string          `form:"user_id" validate:"required,uuid"`
	Preset    DateRangePreset `form:"preset" validate:"omitempty,oneof=TODAY THIS_WEEK THIS_MONTH THIS_QUARTER THIS_YEAR CUSTOM"`
	StartDate string          `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string          `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// GlobalRangeRequest is a range request without user scoping
// (industry distribution spans all tenants).
type GlobalRangeRequest struct {
	Preset    DateRangePreset `form:"preset" validate:"omitempty,oneof=TODAY THIS_WEEK THIS_MONTH THIS_QUARTER THIS_YEAR CUSTOM"`
	StartDate string          `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string          `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// DateRangeRequest resolves a preset (or custom bounds) to concrete dates.
type DateRangeRequest struct {
	Preset      DateRangePreset `form:"preset" validate:"omitempty,oneof=TODAY THIS_WEEK THIS_MONTH THIS_QUARTER THIS_YEAR CUSTOM"`
	CustomStart string          `form:"custom_start" validate:"omitempty,datetime=2006-01-02"`
	CustomEnd   string          `form:"custom_end" validate:"omitempty,datetime=2006-01-02"`
}

// SearchRequest is the global search query.
type SearchRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
	Query  string `form:"query" validate:"required,min=1"`
}

// UpcomingMeetingsRequest lists the next scheduled meetings.
type UpcomingMeetingsRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=20"`
}

// CompletedMeetingsRequest lists recently completed meetings.
type CompletedMeetingsRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// DraftedEmailsRequest lists drafted outreach emails.
type DraftedEmailsRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// ContactsRequest lists all contacts for a user.
type ContactsRequest struct {
	UserID string `form:"user_id" validate:"required,uuid"`
}

// Response DTOs

// FunnelBreakdown counts records at each stage of the sales pipeline.
type FunnelBreakdown struct {
	ContactsCaptured  int `json:"contacts_captured"`
	MeetingsScheduled int `json:"meetings_scheduled"`
	MeetingsCompleted int `json:"meetings_completed"`
	EmailsDrafted     int `json:"emails_drafted"`
	EmailsSent        int `json:"emails_sent"`
	QualifiedContacts int `json:"qualified_contacts"`
	PositiveOutcomes  int `json:"positive_outcomes"`
}

// ConversionRates summarizes lead qualification over a range.
type ConversionRates struct {
	TotalLeads     int     `json:"total_leads"`
	QualifiedLeads int     `json:"qualified_leads"`
	ConvertedLeads int     `json:"converted_leads"`
	ConversionRate float64 `json:"conversion_rate"`
	RateChange     float64 `json:"conversion_rate_change"`
}

// DashboardSummary is the aggregated dashboard view for a user.
type DashboardSummary struct {
	ContactsTouched       int             `json:"contacts_touched"`
	EmailsDrafted         int             `json:"emails_drafted"`
	MoMCoveragePercent    float64         `json:"mom_coverage_percent"`
	OverdueFollowupsCount int             `json:"overdue_followups_count"`
	CancelledCount        int             `json:"cancelled_count"`
	NoShowCount           int             `json:"no_show_count"`
	ConversionRate        float64         `json:"conversion_rate"`
	ConversionRateChange  float64         `json:"conversion_rate_change"`
	TotalLeads            int             `json:"total_leads"`
	QualifiedLeads        int             `json:"qualified_leads"`
	ConvertedLeads        int             `json:"converted_leads"`
	FunnelBreakdown       FunnelBreakdown `json:"funnel_breakdown"`
}

// ContactChannel is one email/phone entry attached to a contact.
type ContactChannel struct {
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	IsPrimary bool   `json:"is_primary"`
}

// Contact is the API representation of a contact.
type Contact struct {
	ContactID         uuid.UUID        `json:"contact_id"`
	FirstName         *string          `json:"first_name,omitempty"`
	LastName          *string          `json:"last_name,omitempty"`
	CompanyName       *string          `json:"company_name,omitempty"`
	Email             *string          `json:"email,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	Outcome           *string          `json:"outcome,omitempty"`
	LastOutcomeStatus *string          `json:"last_outcome_status,omitempty"`
	CreatedAt         *time.Time       `json:"created_at,omitempty"`
	NextFollowUpDueAt *time.Time       `json:"next_follow_up_due_at,omitempty"`
	Channels          []ContactChannel `json:"channels,omitempty"`
}

// Meeting is the API representation of a meeting in search results.
type Meeting struct {
	MeetingID   uuid.UUID  `json:"meeting_id"`
	ContactID   *uuid.UUID `json:"contact_id,omitempty"`
	Topic       *string    `json:"topic,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      *string    `json:"status,omitempty"`
	MomExists   bool       `json:"mom_exists"`
}

// Email is the API representation of an email record.
type Email struct {
	EmailID   uuid.UUID  `json:"email_id"`
	Status    *string    `json:"status,omitempty"`
	Subject   *string    `json:"subject,omitempty"`
	Recipient *string    `json:"recipient,omitempty"`
	DraftedAt *time.Time `json:"drafted_at,omitempty"`
}

// SearchResult groups matches by record category.
type SearchResult struct {
	Contacts []Contact `json:"contacts"`
	Meetings []Meeting `json:"meetings"`
	Emails   []Email   `json:"emails"`
}

// UpcomingMeeting is a scheduled meeting annotated with its contact name.
type UpcomingMeeting struct {
	MeetingID   uuid.UUID `json:"meeting_id"`
	ContactName string    `json:"contact_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	MomExists   bool      `json:"mom_exists"`
}

// CompletedMeeting is a completed meeting annotated with contact/company
// display names and, when present, the minutes text.
type CompletedMeeting struct {
	MeetingID   uuid.UUID `json:"meeting_id"`
	ContactName string    `json:"contact_name"`
	CompanyName *string   `json:"company_name,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status"`
	MomExists   bool      `json:"mom_exists"`
	MomText     *string   `json:"mom_text,omitempty"`
}

// IndustryStat is one group-count of scanned records by industry.
type IndustryStat struct {
	Industry *string `json:"industry"`
	Count    int     `json:"count"`
}

// DailyScanStat is one day's scan count from the precomputed aggregate.
type DailyScanStat struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DateRangeResponse echoes the resolved bounds for a preset.
type DateRangeResponse struct {
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
	Preset    DateRangePreset `json:"preset"`
}
