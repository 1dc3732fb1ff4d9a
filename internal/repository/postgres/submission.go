package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/preference"
)

var _ model.SubmissionStore = (*SubmissionRepository)(nil)

type SubmissionRepository struct {
	db *Connection
}

func NewSubmissionRepository(db *Connection) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func scanSubmission(row pgx.Row) (model.Submission, error) {
	var (
		sub  model.Submission
		wire string
	)
	err := row.Scan(
		&sub.ID, &sub.EventID, &sub.UserID, &wire, &sub.Notes,
		&sub.Allocated, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, err
	}
	prefs, err := preference.Decode(wire)
	if err != nil {
		return model.Submission{}, fmt.Errorf("stored preferences are malformed: %w", err)
	}
	sub.Preferences = prefs
	return sub, nil
}

// Upsert inserts the submission or, when one already exists for the
// same (event, user), updates its preferences and notes in place. The
// single INSERT ... ON CONFLICT statement makes concurrent double
// submits race-safe: one row wins, none are duplicated. Allocated is
// never touched here.
func (r *SubmissionRepository) Upsert(ctx context.Context, sub model.Submission) (model.Submission, error) {
	const query = `
        INSERT INTO submissions (id, event_id, user_id, preferences, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        ON CONFLICT (event_id, user_id)
        DO UPDATE SET preferences = EXCLUDED.preferences, notes = EXCLUDED.notes, updated_at = NOW()
        RETURNING id, event_id, user_id, preferences, notes, allocated, created_at, updated_at
    `

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	saved, err := scanSubmission(r.db.QueryRow(ctx, query,
		sub.ID, sub.EventID, sub.UserID, preference.Encode(sub.Preferences), sub.Notes,
	))
	if err != nil {
		return model.Submission{}, fmt.Errorf("failed to upsert submission: %w", err)
	}
	return saved, nil
}

// Insert creates a submission and fails with ErrConflict when one
// already exists for the (event, user) pair. Used by the on-behalf
// flow, which must not overwrite a user's own submission.
func (r *SubmissionRepository) Insert(ctx context.Context, sub model.Submission) (model.Submission, error) {
	const query = `
        INSERT INTO submissions (id, event_id, user_id, preferences, notes, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
        RETURNING id, event_id, user_id, preferences, notes, allocated, created_at, updated_at
    `

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}

	saved, err := scanSubmission(r.db.QueryRow(ctx, query,
		sub.ID, sub.EventID, sub.UserID, preference.Encode(sub.Preferences), sub.Notes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Submission{}, model.ErrConflict
		}
		return model.Submission{}, fmt.Errorf("failed to insert submission: %w", err)
	}
	return saved, nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Submission, error) {
	const query = `
        SELECT id, event_id, user_id, preferences, notes, allocated, created_at, updated_at
        FROM submissions WHERE id = $1
    `
	sub, err := scanSubmission(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, fmt.Errorf("failed to get submission by id: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (model.Submission, error) {
	const query = `
        SELECT id, event_id, user_id, preferences, notes, allocated, created_at, updated_at
        FROM submissions WHERE event_id = $1 AND user_id = $2
    `
	sub, err := scanSubmission(r.db.QueryRow(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, fmt.Errorf("failed to get submission by event and user: %w", err)
	}
	return sub, nil
}

func (r *SubmissionRepository) ListForEvent(ctx context.Context, eventID uuid.UUID) ([]model.Submission, error) {
	const query = `
        SELECT s.id, s.event_id, s.user_id, s.preferences, s.notes, s.allocated,
               s.created_at, s.updated_at, u.name
        FROM submissions s
        JOIN users u ON s.user_id = u.id
        WHERE s.event_id = $1
        ORDER BY u.name
    `
	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var (
			sub  model.Submission
			wire string
		)
		if err := rows.Scan(
			&sub.ID, &sub.EventID, &sub.UserID, &wire, &sub.Notes,
			&sub.Allocated, &sub.CreatedAt, &sub.UpdatedAt, &sub.UserName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		prefs, err := preference.Decode(wire)
		if err != nil {
			return nil, fmt.Errorf("stored preferences are malformed: %w", err)
		}
		sub.Preferences = prefs
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return subs, nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	return nil
}

// SetAllocations writes a batch of organizer-entered counts inside one
// transaction, so a concurrent tally never observes a half-applied
// batch. Submissions outside the given event are left untouched.
func (r *SubmissionRepository) SetAllocations(ctx context.Context, eventID uuid.UUID, allocations map[uuid.UUID]int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin allocation transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `
        UPDATE submissions SET allocated = $3, updated_at = NOW()
        WHERE id = $1 AND event_id = $2
    `
	for id, count := range allocations {
		if _, err := tx.Exec(ctx, query, id, eventID, count); err != nil {
			return fmt.Errorf("failed to set allocation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit allocations: %w", err)
	}
	return nil
}

// Tally aggregates all submissions for an event. The ideal and
// minimum-acceptable sums come from the decoded preference curves, the
// allocated sum from the organizer-entered counts.
func (r *SubmissionRepository) Tally(ctx context.Context, eventID uuid.UUID) (model.Tally, error) {
	const query = `SELECT preferences, allocated FROM submissions WHERE event_id = $1`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		return model.Tally{}, fmt.Errorf("failed to tally submissions: %w", err)
	}
	defer rows.Close()

	var tally model.Tally
	for rows.Next() {
		var (
			wire      string
			allocated int
		)
		if err := rows.Scan(&wire, &allocated); err != nil {
			return model.Tally{}, fmt.Errorf("failed to scan tally row: %w", err)
		}
		prefs, err := preference.Decode(wire)
		if err != nil {
			return model.Tally{}, fmt.Errorf("stored preferences are malformed: %w", err)
		}
		tally.Count++
		tally.SumIdeal += preference.First(prefs)
		tally.SumMinAcceptable += preference.MinAcceptable(prefs)
		tally.SumAllocated += allocated
	}
	if err := rows.Err(); err != nil {
		return model.Tally{}, fmt.Errorf("failed to iterate tally rows: %w", err)
	}
	return tally, nil
}
