package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Row Models ────────────────────────────────────────────────────────────────

// ContactOutcome is the projection used by funnel and conversion queries.
type ContactOutcome struct {
	ID                uuid.UUID `db:"id"`
	Outcome           *string   `db:"outcome"`
	LastOutcomeStatus *string   `db:"last_outcome_status"`
}

// MeetingStatus is the projection used by funnel and dashboard queries.
type MeetingStatus struct {
	Status    string `db:"status"`
	MomExists bool   `db:"mom_exists"`
}

// Contact is the full contact row.
type Contact struct {
	ID                uuid.UUID  `db:"id"`
	UserID            uuid.UUID  `db:"user_id"`
	FirstName         *string    `db:"first_name"`
	LastName          *string    `db:"last_name"`
	CompanyName       *string    `db:"company_name"`
	Email             *string    `db:"email"`
	Phone             *string    `db:"phone"`
	Outcome           *string    `db:"outcome"`
	LastOutcomeStatus *string    `db:"last_outcome_status"`
	CreatedAt         time.Time  `db:"created_at"`
	NextFollowUpDueAt *time.Time `db:"next_follow_up_due_at"`
}

// ContactChannel is one email/phone record attached to a contact.
type ContactChannel struct {
	ContactID uuid.UUID `db:"contact_id"`
	Kind      string    `db:"kind"`
	Value     string    `db:"value"`
	IsPrimary bool      `db:"is_primary"`
}

// Meeting is the meeting row as returned by search.
type Meeting struct {
	ID          uuid.UUID  `db:"id"`
	ContactID   *uuid.UUID `db:"contact_id"`
	Topic       *string    `db:"topic"`
	Status      string     `db:"status"`
	ScheduledAt time.Time  `db:"scheduled_at"`
	MomExists   bool       `db:"mom_exists"`
}

// UpcomingMeeting joins the contact display name onto a scheduled meeting.
type UpcomingMeeting struct {
	ID          uuid.UUID `db:"id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
	MomExists   bool      `db:"mom_exists"`
	FirstName   *string   `db:"first_name"`
	LastName    *string   `db:"last_name"`
}

// CompletedMeeting joins display names and minutes text onto a completed meeting.
type CompletedMeeting struct {
	ID          uuid.UUID `db:"id"`
	ScheduledAt time.Time `db:"scheduled_at"`
	Status      string    `db:"status"`
	MomExists   bool      `db:"mom_exists"`
	FirstName   *string   `db:"first_name"`
	LastName    *string   `db:"last_name"`
	CompanyName *string   `db:"company_name"`
	MomText     *string   `db:"mom_text"`
}

// Email is the email row.
type Email struct {
	ID        uuid.UUID  `db:"id"`
	Status    string     `db:"status"`
	Subject   *string    `db:"subject"`
	Recipient *string    `db:"recipient"`
	DraftedAt *time.Time `db:"drafted_at"`
}

// IndustryCount is one group-count of scanned records.
type IndustryCount struct {
	Industry *string `db:"industry"`
	Count    int     `db:"cnt"`
}

// DailyScanCount is one row of the precomputed daily aggregate.
type DailyScanCount struct {
	Date  time.Time `db:"scan_date"`
	Count int       `db:"scan_count"`
}

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides read-side database operations for analytics.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new analytics repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CountContacts(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contacts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count contacts: %w", err)
	}
	return count, nil
}

func (r *Repository) ListContactOutcomes(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]ContactOutcome, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, outcome, last_outcome_status
		FROM contacts
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact outcomes: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (ContactOutcome, error) {
		var c ContactOutcome
		err := row.Scan(&c.ID, &c.Outcome, &c.LastOutcomeStatus)
		return c, err
	})
}

func (r *Repository) ListMeetingStatuses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]MeetingStatus, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, mom_exists
		FROM meetings
		WHERE user_id = $1 AND scheduled_at >= $2 AND scheduled_at <= $3`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list meeting statuses: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (MeetingStatus, error) {
		var m MeetingStatus
		err := row.Scan(&m.Status, &m.MomExists)
		return m, err
	})
}

func (r *Repository) ListEmailStatuses(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status
		FROM emails
		WHERE user_id = $1 AND drafted_at >= $2 AND drafted_at <= $3`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list email statuses: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (string, error) {
		var status string
		err := row.Scan(&status)
		return status, err
	})
}

func (r *Repository) CountOverdueFollowups(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM contacts
		WHERE user_id = $1
		  AND next_follow_up_due_at IS NOT NULL
		  AND next_follow_up_due_at < $2`,
		userID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue followups: %w", err)
	}
	return count, nil
}

func (r *Repository) ListUpcomingMeetings(ctx context.Context, userID uuid.UUID, after time.Time, limit int) ([]UpcomingMeeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.scheduled_at, m.status, m.mom_exists, c.first_name, c.last_name
		FROM meetings m
		LEFT JOIN contacts c ON c.id = m.contact_id
		WHERE m.user_id = $1
		  AND LOWER(m.status) = 'scheduled'
		  AND m.scheduled_at >= $2
		ORDER BY m.scheduled_at ASC
		LIMIT $3`,
		userID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming meetings: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (UpcomingMeeting, error) {
		var m UpcomingMeeting
		err := row.Scan(&m.ID, &m.ScheduledAt, &m.Status, &m.MomExists, &m.FirstName, &m.LastName)
		return m, err
	})
}

func (r *Repository) ListCompletedMeetings(ctx context.Context, userID uuid.UUID, limit int) ([]CompletedMeeting, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.scheduled_at, m.status, m.mom_exists,
		       c.first_name, c.last_name, c.company_name, mm.body
		FROM meetings m
		LEFT JOIN contacts c ON c.id = m.contact_id
		LEFT JOIN meeting_minutes mm ON mm.meeting_id = m.id
		WHERE m.user_id = $1 AND LOWER(m.status) = 'completed'
		ORDER BY m.scheduled_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed meetings: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (CompletedMeeting, error) {
		var m CompletedMeeting
		err := row.Scan(&m.ID, &m.ScheduledAt, &m.Status, &m.MomExists,
			&m.FirstName, &m.LastName, &m.CompanyName, &m.MomText)
		return m, err
	})
}

func (r *Repository) ListDraftedEmails(ctx context.Context, userID uuid.UUID, limit int) ([]Email, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, status, subject, recipient, drafted_at
		FROM emails
		WHERE user_id = $1 AND UPPER(status) = 'DRAFTED'
		ORDER BY drafted_at DESC
		LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafted emails: %w", err)
	}
	defer rows.Close()

	return collectEmails(rows)
}

func (r *Repository) ListContacts(ctx context.Context, userID uuid.UUID) ([]Contact, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, first_name, last_name, company_name, email, phone,
		       outcome, last_outcome_status, created_at, next_follow_up_due_at
		FROM contacts
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *Repository) ListContactChannels(ctx context.Context, contactIDs []uuid.UUID) ([]ContactChannel, error) {
	if len(contactIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT contact_id, kind, value, is_primary
		FROM contact_channels
		WHERE contact_id = ANY($1)
		ORDER BY contact_id, is_primary DESC, kind`,
		contactIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact channels: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (ContactChannel, error) {
		var ch ContactChannel
		err := row.Scan(&ch.ContactID, &ch.Kind, &ch.Value, &ch.IsPrimary)
		return ch, err
	})
}

func (r *Repository) SearchContacts(ctx context.Context, userID uuid.UUID, query string) ([]Contact, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, first_name, last_name, company_name, email, phone,
		       outcome, last_outcome_status, created_at, next_follow_up_due_at
		FROM contacts
		WHERE user_id = $1
		  AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)`,
		userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func (r *Repository) SearchMeetings(ctx context.Context, userID uuid.UUID, query string) ([]Meeting, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT id, contact_id, topic, status, scheduled_at, mom_exists
		FROM meetings
		WHERE user_id = $1 AND topic ILIKE $2`,
		userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search meetings: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (Meeting, error) {
		var m Meeting
		err := row.Scan(&m.ID, &m.ContactID, &m.Topic, &m.Status, &m.ScheduledAt, &m.MomExists)
		return m, err
	})
}

func (r *Repository) SearchEmails(ctx context.Context, userID uuid.UUID, query string) ([]Email, error) {
	pattern := "%" + query + "%"
	rows, err := r.pool.Query(ctx, `
		SELECT id, status, subject, recipient, drafted_at
		FROM emails
		WHERE user_id = $1 AND (subject ILIKE $2 OR recipient ILIKE $2)`,
		userID, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search emails: %w", err)
	}
	defer rows.Close()

	return collectEmails(rows)
}

// IndustryCounts groups scanned records by industry, ordered by the first
// time each industry was seen rather than by count.
func (r *Repository) IndustryCounts(ctx context.Context, start, end time.Time) ([]IndustryCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT industry, COUNT(*) AS cnt
		FROM customer_scans
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY industry
		ORDER BY MIN(created_at)`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to count industries: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (IndustryCount, error) {
		var ic IndustryCount
		err := row.Scan(&ic.Industry, &ic.Count)
		return ic, err
	})
}

// DailyScanCounts reads the precomputed daily aggregate maintained in the
// database rather than recomputing it per request.
func (r *Repository) DailyScanCounts(ctx context.Context) ([]DailyScanCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT scan_date, scan_count FROM daily_scan_counts()`)
	if err != nil {
		return nil, fmt.Errorf("failed to read daily scan counts: %w", err)
	}
	defer rows.Close()

	return collectRows(rows, func(row pgx.Rows) (DailyScanCount, error) {
		var d DailyScanCount
		err := row.Scan(&d.Date, &d.Count)
		return d, err
	})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func collectRows[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func collectContacts(rows pgx.Rows) ([]Contact, error) {
	return collectRows(rows, func(row pgx.Rows) (Contact, error) {
		var c Contact
		err := row.Scan(&c.ID, &c.UserID, &c.FirstName, &c.LastName, &c.CompanyName,
			&c.Email, &c.Phone, &c.Outcome, &c.LastOutcomeStatus, &c.CreatedAt, &c.NextFollowUpDueAt)
		return c, err
	})
}

func collectEmails(rows pgx.Rows) ([]Email, error) {
	return collectRows(rows, func(row pgx.Rows) (Email, error) {
		var e Email
		err := row.Scan(&e.ID, &e.Status, &e.Subject, &e.Recipient, &e.DraftedAt)
		return e, err
	})
}

// Compile-time check that Repository implements Store.
var _ Store = (*Repository)(nil)
