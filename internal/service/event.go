package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// EventParams carries the mutable fields of an event.
type EventParams struct {
	Name         string
	EventDate    time.Time
	TotalTickets int
	Notes        string
}

func (p EventParams) validate() error {
	if p.Name == "" {
		return model.NewValidationError("event name is required")
	}
	if p.EventDate.IsZero() {
		return model.NewValidationError("event date is required")
	}
	if p.TotalTickets <= 0 {
		return model.NewValidationError("total tickets must be positive")
	}
	return nil
}

// Event owns the event state machine and its authorization rules.
// Mutations require the actor to be the creator or an admin; state
// changes additionally follow the open/finalized/cancelled table.
type Event struct {
	eventStore model.EventStore
	logger     *logger.Logger
}

func NewEvent(eventStore model.EventStore, logger *logger.Logger) *Event {
	return &Event{eventStore: eventStore, logger: logger}
}

// Create opens a new event owned by the actor. Any authenticated user
// may create events.
func (s *Event) Create(ctx context.Context, actor model.User, params EventParams) (model.Event, error) {
	if err := params.validate(); err != nil {
		return model.Event{}, err
	}

	event := model.Event{
		ID:           uuid.New(),
		Name:         params.Name,
		EventDate:    params.EventDate,
		TotalTickets: params.TotalTickets,
		Notes:        params.Notes,
		Status:       model.EventOpen,
		CreatedBy:    actor.ID,
		CreatedAt:    time.Now(),
	}

	saved, err := s.eventStore.Create(ctx, event)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to create event: %w", err)
	}

	s.logger.Info("Event service: event created", "event_id", saved.ID, "created_by", actor.ID)
	return saved, nil
}

// Update edits an open event's fields; finalized events are frozen.
func (s *Event) Update(ctx context.Context, actor model.User, eventID uuid.UUID, params EventParams) (model.Event, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return model.Event{}, err
	}
	if event.IsFinalized() {
		return model.Event{}, model.ErrEventNotOpen
	}
	if err := params.validate(); err != nil {
		return model.Event{}, err
	}

	event.Name = params.Name
	event.EventDate = params.EventDate
	event.TotalTickets = params.TotalTickets
	event.Notes = params.Notes

	saved, err := s.eventStore.Update(ctx, event)
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to update event: %w", err)
	}
	return saved, nil
}

// Finalize moves an open event to finalized and stamps finalized_at.
func (s *Event) Finalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	return s.transition(ctx, actor, eventID, model.EventFinalized)
}

// Unfinalize reopens a finalized event, clearing finalized_at. Stored
// allocations are left untouched.
func (s *Event) Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	return s.transition(ctx, actor, eventID, model.EventOpen)
}

// Cancel moves an open event to cancelled. Cancelled is terminal.
func (s *Event) Cancel(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	return s.transition(ctx, actor, eventID, model.EventCancelled)
}

func (s *Event) transition(ctx context.Context, actor model.User, eventID uuid.UUID, to model.EventStatus) (model.Event, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return model.Event{}, err
	}
	if !event.CanTransition(to) {
		return model.Event{}, model.ErrInvalidTransition
	}

	saved, err := s.eventStore.Update(ctx, withStatus(event, to))
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to update event state: %w", err)
	}

	s.logger.Info("Event service: state transition",
		"event_id", saved.ID,
		"status", saved.Status,
		"actor", actor.ID)
	return saved, nil
}

// Delete removes an event and, by cascade, its submissions. Admin only.
func (s *Event) Delete(ctx context.Context, actor model.User, eventID uuid.UUID) error {
	if !actor.IsAdmin {
		return model.ErrUnauthorized
	}
	if err := s.eventStore.Delete(ctx, eventID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	s.logger.Info("Event service: event deleted", "event_id", eventID, "actor", actor.ID)
	return nil
}

// Get returns an event by ID.
func (s *Event) Get(ctx context.Context, eventID uuid.UUID) (model.Event, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListOpen returns open events by date, soonest first.
func (s *Event) ListOpen(ctx context.Context) ([]model.Event, error) {
	events, err := s.eventStore.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list open events: %w", err)
	}
	return events, nil
}

// ListPast returns finalized and cancelled events, newest first,
// optionally limited to the last withinMonths months.
func (s *Event) ListPast(ctx context.Context, withinMonths int) ([]model.Event, error) {
	events, err := s.eventStore.ListPast(ctx, withinMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to list past events: %w", err)
	}
	return events, nil
}

func (s *Event) authorizedEvent(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Event{}, model.ErrNotFound
		}
		return model.Event{}, fmt.Errorf("failed to get event: %w", err)
	}
	if !canMutateEvent(actor, event) {
		return model.Event{}, model.ErrUnauthorized
	}
	return event, nil
}

// canMutateEvent is the single authorization rule for event mutation:
// the creator or any admin, independent of which change is requested.
func canMutateEvent(actor model.User, event model.Event) bool {
	return actor.IsAdmin || actor.ID == event.CreatedBy
}

// withStatus applies a state transition, keeping finalized_at in step
// with the status.
func withStatus(event model.Event, to model.EventStatus) model.Event {
	event.Status = to
	if to == model.EventFinalized {
		now := time.Now()
		event.FinalizedAt = &now
	} else {
		event.FinalizedAt = nil
	}
	return event
}
