package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/preference"
)

// Allocation turns an event's submissions into final ticket counts.
// Drafts can be saved any number of times while the event is open;
// finalizing writes the last word and notifies every submitter.
type Allocation struct {
	submissionStore model.SubmissionStore
	eventStore      model.EventStore
	userStore       model.UserStore
	notifier        model.Notifier
	logger          *logger.Logger
}

func NewAllocation(
	submissionStore model.SubmissionStore,
	eventStore model.EventStore,
	userStore model.UserStore,
	notifier model.Notifier,
	logger *logger.Logger,
) *Allocation {
	return &Allocation{
		submissionStore: submissionStore,
		eventStore:      eventStore,
		userStore:       userStore,
		notifier:        notifier,
		logger:          logger,
	}
}

// SaveDraft stores per-submission ticket counts without changing the
// event's state. Counts are free-form; organizers may deliberately
// over- or under-allocate relative to the preference lists.
func (s *Allocation) SaveDraft(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) error {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return err
	}
	if !event.IsOpen() {
		return model.ErrEventNotOpen
	}

	if err := validateAllocations(allocations); err != nil {
		return err
	}

	if err := s.submissionStore.SetAllocations(ctx, eventID, allocations); err != nil {
		return fmt.Errorf("failed to save allocations: %w", err)
	}

	s.logger.Info("Allocation service: draft saved",
		"event_id", eventID,
		"submissions", len(allocations),
		"actor", actor.ID)
	return nil
}

// Finalize writes the given allocations, moves the event to finalized
// and emails each submitter their result. Notification failures are
// logged and do not undo the finalization.
func (s *Allocation) Finalize(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) (model.Event, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return model.Event{}, err
	}
	if !event.CanTransition(model.EventFinalized) {
		return model.Event{}, model.ErrInvalidTransition
	}

	if err := validateAllocations(allocations); err != nil {
		return model.Event{}, err
	}

	if err := s.submissionStore.SetAllocations(ctx, eventID, allocations); err != nil {
		return model.Event{}, fmt.Errorf("failed to save allocations: %w", err)
	}

	saved, err := s.eventStore.Update(ctx, withStatus(event, model.EventFinalized))
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to finalize event: %w", err)
	}

	s.notifyResults(ctx, saved)

	s.logger.Info("Allocation service: event finalized",
		"event_id", saved.ID,
		"actor", actor.ID)
	return saved, nil
}

// Unfinalize reopens a finalized event so allocations can be revised.
// No mail is sent; submitters learn of changes on the next Finalize.
func (s *Allocation) Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
	event, err := s.authorizedEvent(ctx, actor, eventID)
	if err != nil {
		return model.Event{}, err
	}
	if !event.CanTransition(model.EventOpen) {
		return model.Event{}, model.ErrInvalidTransition
	}

	saved, err := s.eventStore.Update(ctx, withStatus(event, model.EventOpen))
	if err != nil {
		return model.Event{}, fmt.Errorf("failed to reopen event: %w", err)
	}

	s.logger.Info("Allocation service: event reopened",
		"event_id", saved.ID,
		"actor", actor.ID)
	return saved, nil
}

func (s *Allocation) notifyResults(ctx context.Context, event model.Event) {
	submissions, err := s.submissionStore.ListForEvent(ctx, event.ID)
	if err != nil {
		s.logger.Error("Allocation service: failed to list submissions for notification",
			"event_id", event.ID,
			"error", err)
		return
	}

	for _, submission := range submissions {
		user, err := s.userStore.GetByID(ctx, submission.UserID)
		if err != nil {
			s.logger.Error("Allocation service: failed to get submitter",
				"user_id", submission.UserID,
				"error", err)
			continue
		}

		payload := model.NotificationPayload{
			EventName: event.Name,
			Requested: preference.First(submission.Preferences),
			Allocated: submission.Allocated,
		}
		if err := s.notifier.Notify(ctx, user, model.NotifyAllocationResult, payload); err != nil {
			s.logger.Error("Allocation service: failed to send result notification",
				"user_id", user.ID,
				"error", err)
		}
	}
}

func (s *Allocation) authorizedEvent(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error) {
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

func validateAllocations(allocations map[uuid.UUID]int) error {
	for _, count := range allocations {
		if count < 0 {
			return model.NewValidationError("allocated tickets cannot be negative")
		}
	}
	return nil
}
