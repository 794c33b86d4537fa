// Package repository persists meeting minutes, their analysis, and the
// contact outcomes derived from them.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crmdash_backend/platform/apperr"
)

// Meeting is the slice of a meeting row the scoring pipeline needs.
type Meeting struct {
	ID        uuid.UUID  `db:"id"`
	UserID    uuid.UUID  `db:"user_id"`
	ContactID *uuid.UUID `db:"contact_id"`
	Status    string     `db:"status"`
}

// MinutesRecord is a stored minutes row awaiting or carrying a score.
type MinutesRecord struct {
	ID        uuid.UUID `db:"id"`
	MeetingID uuid.UUID `db:"meeting_id"`
	Body      string    `db:"body"`
}

// ScoredMinutes is a minutes row that already has an analysis score.
type ScoredMinutes struct {
	ID        uuid.UUID `db:"id"`
	MeetingID uuid.UUID `db:"meeting_id"`
	Score     int       `db:"ai_score"`
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetMeeting(ctx context.Context, meetingID, userID uuid.UUID) (Meeting, error) {
	const op = "scoring.Repository.GetMeeting"

	query := `
		SELECT id, user_id, contact_id, status
		FROM meetings
		WHERE id = $1 AND user_id = $2`

	rows, err := r.db.Query(ctx, query, meetingID, userID)
	if err != nil {
		return Meeting{}, fmt.Errorf("%s: %w", op, err)
	}

	meeting, err := pgx.CollectOneRow(rows, pgx.RowToStructByNameLax[Meeting])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Meeting{}, apperr.NotFound("meeting not found")
		}
		return Meeting{}, fmt.Errorf("%s: %w", op, err)
	}

	return meeting, nil
}

func (r *Repository) GetMeetingContact(ctx context.Context, meetingID uuid.UUID) (*uuid.UUID, error) {
	const op = "scoring.Repository.GetMeetingContact"

	var contactID *uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT contact_id FROM meetings WHERE id = $1`, meetingID).Scan(&contactID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("meeting not found")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return contactID, nil
}

func (r *Repository) SaveMinutesAnalysis(ctx context.Context, meetingID uuid.UUID, body string, score int, reasoning string) error {
	const op = "scoring.Repository.SaveMinutesAnalysis"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO meeting_minutes (id, meeting_id, body, ai_score, ai_reasoning, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (meeting_id) DO UPDATE SET
			body = EXCLUDED.body,
			ai_score = EXCLUDED.ai_score,
			ai_reasoning = EXCLUDED.ai_reasoning,
			updated_at = NOW()`,
		meetingID, body, score, reasoning)
	if err != nil {
		return fmt.Errorf("%s: upsert minutes: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE meetings
		SET mom_exists = TRUE, ai_score = $2, ai_reasoning = $3, updated_at = NOW()
		WHERE id = $1`,
		meetingID, score, reasoning)
	if err != nil {
		return fmt.Errorf("%s: update meeting: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (r *Repository) UpdateMinutesScore(ctx context.Context, minutesID, meetingID uuid.UUID, score int, reasoning string) error {
	const op = "scoring.Repository.UpdateMinutesScore"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE meeting_minutes
		SET ai_score = $2, ai_reasoning = $3, updated_at = NOW()
		WHERE id = $1`,
		minutesID, score, reasoning)
	if err != nil {
		return fmt.Errorf("%s: update minutes: %w", op, err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE meetings
		SET mom_exists = TRUE, ai_score = $2, ai_reasoning = $3, updated_at = NOW()
		WHERE id = $1`,
		meetingID, score, reasoning)
	if err != nil {
		return fmt.Errorf("%s: update meeting: %w", op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (r *Repository) ListContactScores(ctx context.Context, contactID uuid.UUID) ([]int, error) {
	const op = "scoring.Repository.ListContactScores"

	query := `
		SELECT mm.ai_score
		FROM meeting_minutes mm
		JOIN meetings m ON m.id = mm.meeting_id
		WHERE m.contact_id = $1 AND mm.ai_score IS NOT NULL
		ORDER BY mm.created_at`

	rows, err := r.db.Query(ctx, query, contactID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scores, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return scores, nil
}

func (r *Repository) UpdateContactOutcome(ctx context.Context, contactID uuid.UUID, outcomeText string, status *string) error {
	const op = "scoring.Repository.UpdateContactOutcome"

	_, err := r.db.Exec(ctx, `
		UPDATE contacts
		SET outcome = $2,
		    last_outcome_status = COALESCE($3, last_outcome_status),
		    updated_at = NOW()
		WHERE id = $1`,
		contactID, outcomeText, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *Repository) UpdateContactOutcomeIfUnset(ctx context.Context, contactID uuid.UUID, outcomeText string) (bool, error) {
	const op = "scoring.Repository.UpdateContactOutcomeIfUnset"

	tag, err := r.db.Exec(ctx, `
		UPDATE contacts
		SET outcome = $2, updated_at = NOW()
		WHERE id = $1 AND outcome IS NULL`,
		contactID, outcomeText)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r *Repository) ListUnscoredMinutes(ctx context.Context) ([]MinutesRecord, error) {
	const op = "scoring.Repository.ListUnscoredMinutes"

	query := `
		SELECT id, meeting_id, body
		FROM meeting_minutes
		WHERE ai_score IS NULL AND body IS NOT NULL
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[MinutesRecord])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return records, nil
}

func (r *Repository) ListScoredMinutes(ctx context.Context) ([]ScoredMinutes, error) {
	const op = "scoring.Repository.ListScoredMinutes"

	query := `
		SELECT id, meeting_id, ai_score
		FROM meeting_minutes
		WHERE ai_score IS NOT NULL
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByNameLax[ScoredMinutes])
	if err != nil {
		return nil, fmt.Errorf("%s: collect: %w", op, err)
	}

	return records, nil
}

var _ Store = (*Repository)(nil)
