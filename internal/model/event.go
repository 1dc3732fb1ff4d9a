package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventOpen      EventStatus = "open"
	EventFinalized EventStatus = "finalized"
	EventCancelled EventStatus = "cancelled"
)

// EventStore defines persistence operations for events.
type EventStore interface {
	Create(ctx context.Context, event Event) (Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (Event, error)
	Update(ctx context.Context, event Event) (Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListOpen(ctx context.Context) ([]Event, error)
	ListPast(ctx context.Context, withinMonths int) ([]Event, error)
}

// Event is a scheduled happening with a fixed ticket capacity.
// FinalizedAt is set exactly when Status is EventFinalized.
type Event struct {
	ID           uuid.UUID
	Name         string
	EventDate    time.Time
	TotalTickets int
	Notes        string
	Status       EventStatus
	CreatedBy    uuid.UUID
	CreatedAt    time.Time
	FinalizedAt  *time.Time
}

// IsOpen reports whether the event still accepts submissions.
func (e Event) IsOpen() bool {
	return e.Status == EventOpen
}

// IsFinalized reports whether allocations have been fixed.
func (e Event) IsFinalized() bool {
	return e.Status == EventFinalized
}

// CanTransition reports whether the state machine permits moving from
// the event's current status to the target. Cancelled is terminal.
func (e Event) CanTransition(to EventStatus) bool {
	switch e.Status {
	case EventOpen:
		return to == EventFinalized || to == EventCancelled
	case EventFinalized:
		return to == EventOpen
	default:
		return false
	}
}
