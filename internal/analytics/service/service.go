// Package service implements the analytics aggregation engine: funnel
// breakdowns, dashboard summaries, conversion rates, and list views folded
// from record store queries.
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"crmdash_backend/internal/analytics/repository"
	"crmdash_backend/internal/analytics/transport"
	"crmdash_backend/internal/outcome"
	"crmdash_backend/platform/apperr"
	"crmdash_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	statusCompleted = "COMPLETED"
	statusCancelled = "CANCELLED"
	statusNoShow    = "NO_SHOW"
	statusDrafted   = "DRAFTED"
	statusSent      = "SENT"

	defaultUpcomingLimit  = 5
	defaultCompletedLimit = 20
	defaultDraftedLimit   = 20
)

// Service computes analytics views over the record store. Every operation is
// a pure function of stored-record state at call time; reads within one
// operation are independent queries with no cross-read snapshot guarantee.
type Service struct {
	repo repository.Store
	log  *logger.Logger
	now  func() time.Time
}

// New creates the analytics service.
func New(repo repository.Store, log *logger.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// SetClock overrides the time source, used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Resolve maps the request's preset or explicit bounds to concrete times.
func (s *Service) Resolve(preset transport.DateRangePreset, start, end string) (time.Time, time.Time) {
	if start != "" && end != "" && preset != transport.PresetCustom {
		preset = transport.PresetCustom
	}
	return ResolveDateRange(s.now(), preset, start, end)
}

// FunnelBreakdown counts contacts, meetings, and emails in range, partitioned
// by pipeline stage.
func (s *Service) FunnelBreakdown(ctx context.Context, userID uuid.UUID, start, end time.Time) (transport.FunnelBreakdown, error) {
	contacts, err := s.repo.ListContactOutcomes(ctx, userID, start, end)
	if err != nil {
		return transport.FunnelBreakdown{}, apperr.Wrap(apperr.KindBadRequest, "error in funnel view: "+err.Error(), err)
	}

	meetings, err := s.repo.ListMeetingStatuses(ctx, userID, start, end)
	if err != nil {
		return transport.FunnelBreakdown{}, apperr.Wrap(apperr.KindBadRequest, "error in funnel view: "+err.Error(), err)
	}

	emailStatuses, err := s.repo.ListEmailStatuses(ctx, userID, start, end)
	if err != nil {
		return transport.FunnelBreakdown{}, apperr.Wrap(apperr.KindBadRequest, "error in funnel view: "+err.Error(), err)
	}

	breakdown := transport.FunnelBreakdown{
		ContactsCaptured:  len(contacts),
		MeetingsScheduled: len(meetings),
	}

	for _, m := range meetings {
		if strings.EqualFold(m.Status, statusCompleted) {
			breakdown.MeetingsCompleted++
		}
	}
	for _, status := range emailStatuses {
		switch strings.ToUpper(status) {
		case statusDrafted:
			breakdown.EmailsDrafted++
		case statusSent:
			breakdown.EmailsSent++
		}
	}
	for _, c := range contacts {
		o, ok := contactOutcome(c)
		if !ok {
			continue
		}
		if o.Qualified() {
			breakdown.QualifiedContacts++
		}
		if o.Positive() {
			breakdown.PositiveOutcomes++
		}
	}

	return breakdown, nil
}

// DashboardSummary aggregates the per-user dashboard. Returns a not-found
// error when the user has no contacts at all, independent of range.
func (s *Service) DashboardSummary(ctx context.Context, userID uuid.UUID, start, end time.Time) (transport.DashboardSummary, error) {
	totalContacts, err := s.repo.CountContacts(ctx, userID)
	if err != nil {
		return transport.DashboardSummary{}, apperr.Wrap(apperr.KindBadRequest, "error in dashboard summary: "+err.Error(), err)
	}
	if totalContacts == 0 {
		return transport.DashboardSummary{}, apperr.NotFound("no contacts found")
	}

	meetings, err := s.repo.ListMeetingStatuses(ctx, userID, start, end)
	if err != nil {
		return transport.DashboardSummary{}, apperr.Wrap(apperr.KindBadRequest, "error in dashboard summary: "+err.Error(), err)
	}

	emailStatuses, err := s.repo.ListEmailStatuses(ctx, userID, start, end)
	if err != nil {
		return transport.DashboardSummary{}, apperr.Wrap(apperr.KindBadRequest, "error in dashboard summary: "+err.Error(), err)
	}

	overdue, err := s.repo.CountOverdueFollowups(ctx, userID, s.now())
	if err != nil {
		return transport.DashboardSummary{}, apperr.Wrap(apperr.KindBadRequest, "error in dashboard summary: "+err.Error(), err)
	}

	funnel, err := s.FunnelBreakdown(ctx, userID, start, end)
	if err != nil {
		return transport.DashboardSummary{}, err
	}

	rates, err := s.ConversionRates(ctx, userID, start, end)
	if err != nil {
		return transport.DashboardSummary{}, err
	}

	var completed, withMinutes, cancelled, noShow int
	for _, m := range meetings {
		switch strings.ToUpper(m.Status) {
		case statusCompleted:
			completed++
			if m.MomExists {
				withMinutes++
			}
		case statusCancelled:
			cancelled++
		case statusNoShow:
			noShow++
		}
	}

	var drafted int
	for _, status := range emailStatuses {
		if strings.EqualFold(status, statusDrafted) {
			drafted++
		}
	}

	// Coverage is denominated over completed meetings; scheduled-but-not-held
	// meetings cannot have minutes yet.
	coverage := 0.0
	if completed > 0 {
		coverage = round2(float64(withMinutes) / float64(completed) * 100)
	}

	return transport.DashboardSummary{
		ContactsTouched:       totalContacts,
		EmailsDrafted:         drafted,
		MoMCoveragePercent:    coverage,
		OverdueFollowupsCount: overdue,
		CancelledCount:        cancelled,
		NoShowCount:           noShow,
		ConversionRate:        rates.ConversionRate,
		ConversionRateChange:  rates.RateChange,
		TotalLeads:            rates.TotalLeads,
		QualifiedLeads:        rates.QualifiedLeads,
		ConvertedLeads:        rates.ConvertedLeads,
		FunnelBreakdown:       funnel,
	}, nil
}

// ConversionRates computes qualification and conversion percentages for
// contacts created in range. The rate change compares against the prior
// calendar month regardless of the requested range.
func (s *Service) ConversionRates(ctx context.Context, userID uuid.UUID, start, end time.Time) (transport.ConversionRates, error) {
	contacts, err := s.repo.ListContactOutcomes(ctx, userID, start, end)
	if err != nil {
		return transport.ConversionRates{}, apperr.Wrap(apperr.KindBadRequest, "error in conversion rates: "+err.Error(), err)
	}

	total, qualified, converted := tallyOutcomes(contacts)
	rate := ratio(converted, total)

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	priorStart := monthStart.AddDate(0, -1, 0)

	priorContacts, err := s.repo.ListContactOutcomes(ctx, userID, priorStart, monthStart)
	if err != nil {
		return transport.ConversionRates{}, apperr.Wrap(apperr.KindBadRequest, "error in conversion rates: "+err.Error(), err)
	}
	priorTotal, _, priorConverted := tallyOutcomes(priorContacts)

	return transport.ConversionRates{
		TotalLeads:     total,
		QualifiedLeads: qualified,
		ConvertedLeads: converted,
		ConversionRate: rate,
		RateChange:     round2(rate - ratio(priorConverted, priorTotal)),
	}, nil
}

// UpcomingMeetings lists the next scheduled meetings with resolved contact
// names. Failures degrade to an empty list.
func (s *Service) UpcomingMeetings(ctx context.Context, userID uuid.UUID, limit int) []transport.UpcomingMeeting {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}

	rows, err := s.repo.ListUpcomingMeetings(ctx, userID, s.now(), limit)
	if err != nil {
		s.log.DatabaseError("list upcoming meetings", err)
		return []transport.UpcomingMeeting{}
	}

	out := make([]transport.UpcomingMeeting, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.UpcomingMeeting{
			MeetingID:   row.ID,
			ContactName: displayName(row.FirstName, row.LastName),
			ScheduledAt: row.ScheduledAt,
			Status:      row.Status,
			MomExists:   row.MomExists,
		})
	}
	return out
}

// CompletedMeetings lists recently completed meetings, newest first, with
// minutes text when present. Failures degrade to an empty list.
func (s *Service) CompletedMeetings(ctx context.Context, userID uuid.UUID, limit int) []transport.CompletedMeeting {
	if limit <= 0 {
		limit = defaultCompletedLimit
	}

	rows, err := s.repo.ListCompletedMeetings(ctx, userID, limit)
	if err != nil {
		s.log.DatabaseError("list completed meetings", err)
		return []transport.CompletedMeeting{}
	}

	out := make([]transport.CompletedMeeting, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.CompletedMeeting{
			MeetingID:   row.ID,
			ContactName: displayName(row.FirstName, row.LastName),
			CompanyName: row.CompanyName,
			ScheduledAt: row.ScheduledAt,
			Status:      row.Status,
			MomExists:   row.MomExists,
			MomText:     row.MomText,
		})
	}
	return out
}

// DraftedEmails lists drafted outreach emails. Failures degrade to an
// empty list.
func (s *Service) DraftedEmails(ctx context.Context, userID uuid.UUID, limit int) []transport.Email {
	if limit <= 0 {
		limit = defaultDraftedLimit
	}

	rows, err := s.repo.ListDraftedEmails(ctx, userID, limit)
	if err != nil {
		s.log.DatabaseError("list drafted emails", err)
		return []transport.Email{}
	}
	return toTransportEmails(rows)
}

// AllContacts lists every contact the user owns with associated channels.
// Failures degrade to an empty list.
func (s *Service) AllContacts(ctx context.Context, userID uuid.UUID) []transport.Contact {
	rows, err := s.repo.ListContacts(ctx, userID)
	if err != nil {
		s.log.DatabaseError("list contacts", err)
		return []transport.Contact{}
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	channelsByContact := map[uuid.UUID][]transport.ContactChannel{}
	channels, err := s.repo.ListContactChannels(ctx, ids)
	if err != nil {
		// Contacts without channel detail are still worth returning.
		s.log.DatabaseError("list contact channels", err)
	} else {
		for _, ch := range channels {
			channelsByContact[ch.ContactID] = append(channelsByContact[ch.ContactID], transport.ContactChannel{
				Kind:      ch.Kind,
				Value:     ch.Value,
				IsPrimary: ch.IsPrimary,
			})
		}
	}

	out := make([]transport.Contact, 0, len(rows))
	for _, row := range rows {
		contact := toTransportContact(row)
		contact.Channels = channelsByContact[row.ID]
		out = append(out, contact)
	}
	return out
}

// GlobalSearch matches contacts, meetings, and emails. A failing category
// degrades to an empty list rather than failing the whole search.
func (s *Service) GlobalSearch(ctx context.Context, userID uuid.UUID, query string) transport.SearchResult {
	result := transport.SearchResult{
		Contacts: []transport.Contact{},
		Meetings: []transport.Meeting{},
		Emails:   []transport.Email{},
	}

	if contacts, err := s.repo.SearchContacts(ctx, userID, query); err != nil {
		s.log.DatabaseError("search contacts", err)
	} else {
		for _, c := range contacts {
			result.Contacts = append(result.Contacts, toTransportContact(c))
		}
	}

	if meetings, err := s.repo.SearchMeetings(ctx, userID, query); err != nil {
		s.log.DatabaseError("search meetings", err)
	} else {
		for _, m := range meetings {
			status := m.Status
			result.Meetings = append(result.Meetings, transport.Meeting{
				MeetingID:   m.ID,
				ContactID:   m.ContactID,
				Topic:       m.Topic,
				ScheduledAt: &m.ScheduledAt,
				Status:      &status,
				MomExists:   m.MomExists,
			})
		}
	}

	if emails, err := s.repo.SearchEmails(ctx, userID, query); err != nil {
		s.log.DatabaseError("search emails", err)
	} else {
		result.Emails = toTransportEmails(emails)
	}

	return result
}

// IndustryDistribution group-counts scanned records, preserving first-seen order.
func (s *Service) IndustryDistribution(ctx context.Context, start, end time.Time) ([]transport.IndustryStat, error) {
	rows, err := s.repo.IndustryCounts(ctx, start, end)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "error in industry distribution: "+err.Error(), err)
	}

	out := make([]transport.IndustryStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.IndustryStat{Industry: row.Industry, Count: row.Count})
	}
	return out, nil
}

// DailyScans reads the precomputed per-day scan aggregate.
func (s *Service) DailyScans(ctx context.Context) ([]transport.DailyScanStat, error) {
	rows, err := s.repo.DailyScanCounts(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindBadRequest, "error in daily scans: "+err.Error(), err)
	}

	out := make([]transport.DailyScanStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, transport.DailyScanStat{
			Date:  row.Date.Format("2006-01-02"),
			Count: row.Count,
		})
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// contactOutcome resolves a contact row's stored vocabulary to the canonical
// outcome, preferring the constrained status column over the free-text field.
func contactOutcome(c repository.ContactOutcome) (outcome.Outcome, bool) {
	if c.LastOutcomeStatus != nil {
		if o, ok := outcome.Parse(*c.LastOutcomeStatus); ok {
			return o, true
		}
	}
	if c.Outcome != nil {
		return outcome.Parse(*c.Outcome)
	}
	return "", false
}

func tallyOutcomes(contacts []repository.ContactOutcome) (total, qualified, converted int) {
	total = len(contacts)
	for _, c := range contacts {
		o, ok := contactOutcome(c)
		if !ok {
			continue
		}
		if o.Qualified() {
			qualified++
		}
		if o.Positive() {
			converted++
		}
	}
	return total, qualified, converted
}

// ratio returns part/whole as a percentage rounded to 2 decimals, 0 when the
// denominator is 0.
func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func displayName(first, last *string) string {
	name := strings.TrimSpace(strings.TrimSpace(deref(first)) + " " + strings.TrimSpace(deref(last)))
	if name == "" {
		return "Unknown"
	}
	return name
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toTransportContact(c repository.Contact) transport.Contact {
	createdAt := c.CreatedAt
	return transport.Contact{
		ContactID:         c.ID,
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		CompanyName:       c.CompanyName,
		Email:             c.Email,
		Phone:             c.Phone,
		Outcome:           c.Outcome,
		LastOutcomeStatus: c.LastOutcomeStatus,
		CreatedAt:         &createdAt,
		NextFollowUpDueAt: c.NextFollowUpDueAt,
	}
}

func toTransportEmails(rows []repository.Email) []transport.Email {
	out := make([]transport.Email, 0, len(rows))
	for _, row := range rows {
		status := row.Status
		out = append(out, transport.Email{
			EmailID:   row.ID,
			Status:    &status,
			Subject:   row.Subject,
			Recipient: row.Recipient,
			DraftedAt: row.DraftedAt,
		})
	}
	return out
}
