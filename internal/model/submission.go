package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubmissionStore defines persistence operations for submissions.
// Upsert must treat existence-check plus insert-or-update as one atomic
// unit so concurrent double-submits never produce two rows for the same
// (event, user) pair. Allocation batches are applied transactionally.
type SubmissionStore interface {
	Upsert(ctx context.Context, sub Submission) (Submission, error)
	Insert(ctx context.Context, sub Submission) (Submission, error)
	GetByID(ctx context.Context, id uuid.UUID) (Submission, error)
	GetByEventAndUser(ctx context.Context, eventID, userID uuid.UUID) (Submission, error)
	ListForEvent(ctx context.Context, eventID uuid.UUID) ([]Submission, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetAllocations(ctx context.Context, eventID uuid.UUID, allocations map[uuid.UUID]int) error
	Tally(ctx context.Context, eventID uuid.UUID) (Tally, error)
}

// Submission records one user's ranked ticket preferences for one event.
// Preferences hold the decoded declining willingness curve, e.g. 4,2,1,0.
// Allocated is authoritative organizer input, not a derived value.
type Submission struct {
	ID          uuid.UUID
	EventID     uuid.UUID
	UserID      uuid.UUID
	UserName    string // joined from users on reads, not persisted here
	Preferences []int
	Notes       string
	Allocated   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Tally aggregates an event's submissions. SumIdeal totals first
// choices, SumMinAcceptable totals the smallest positive preference of
// each submission, SumAllocated totals organizer-entered counts.
type Tally struct {
	Count            int
	SumIdeal         int
	SumMinAcceptable int
	SumAllocated     int
}
