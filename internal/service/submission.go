package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/preference"
)

// Submission manages ticket requests against open events. A user holds
// at most one submission per event; re-submitting replaces it.
type Submission struct {
	submissionStore model.SubmissionStore
	eventStore      model.EventStore
	userStore       model.UserStore
	logger          *logger.Logger
}

func NewSubmission(
	submissionStore model.SubmissionStore,
	eventStore model.EventStore,
	userStore model.UserStore,
	logger *logger.Logger,
) *Submission {
	return &Submission{
		submissionStore: submissionStore,
		eventStore:      eventStore,
		userStore:       userStore,
		logger:          logger,
	}
}

// Submit records or replaces the actor's preference list for an open
// event. The stored allocation is never touched by a re-submit.
func (s *Submission) Submit(ctx context.Context, actor model.User, eventID uuid.UUID, preferences []int, notes string) (model.Submission, error) {
	if err := s.requireOpen(ctx, eventID); err != nil {
		return model.Submission{}, err
	}
	if err := preference.Validate(preferences); err != nil {
		return model.Submission{}, model.NewValidationError(err.Error())
	}

	submission := model.Submission{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      actor.ID,
		Preferences: preferences,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	saved, err := s.submissionStore.Upsert(ctx, submission)
	if err != nil {
		return model.Submission{}, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Submission service: submission saved",
		"event_id", eventID,
		"user_id", actor.ID)
	return saved, nil
}

// SubmitOnBehalf lets the event creator enter a submission for another
// active user, for requests arriving out of band. Unlike Submit it
// refuses to overwrite: an existing submission is a conflict.
func (s *Submission) SubmitOnBehalf(ctx context.Context, actor model.User, eventID, userID uuid.UUID, preferences []int, notes string) (model.Submission, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, fmt.Errorf("failed to get event: %w", err)
	}
	if actor.ID != event.CreatedBy {
		return model.Submission{}, model.ErrUnauthorized
	}
	if !event.IsOpen() {
		return model.Submission{}, model.ErrEventNotOpen
	}

	target, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !target.IsActive {
		return model.Submission{}, model.NewValidationError("user account is deactivated")
	}

	if err := preference.Validate(preferences); err != nil {
		return model.Submission{}, model.NewValidationError(err.Error())
	}

	submission := model.Submission{
		ID:          uuid.New(),
		EventID:     eventID,
		UserID:      target.ID,
		Preferences: preferences,
		Notes:       notes,
		CreatedAt:   time.Now(),
	}

	saved, err := s.submissionStore.Insert(ctx, submission)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Submission{}, model.ErrConflict
		}
		return model.Submission{}, fmt.Errorf("failed to save submission: %w", err)
	}

	s.logger.Info("Submission service: submission entered on behalf",
		"event_id", eventID,
		"user_id", target.ID,
		"actor", actor.ID)
	return saved, nil
}

// Withdraw removes the actor's submission from an open event. A missing
// submission is not an error; the end state is the same.
func (s *Submission) Withdraw(ctx context.Context, actor model.User, eventID uuid.UUID) error {
	if err := s.requireOpen(ctx, eventID); err != nil {
		return err
	}

	existing, err := s.submissionStore.GetByEventAndUser(ctx, eventID, actor.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get submission: %w", err)
	}

	if err := s.submissionStore.Delete(ctx, existing.ID); err != nil && !errors.Is(err, model.ErrNotFound) {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	s.logger.Info("Submission service: submission withdrawn",
		"event_id", eventID,
		"user_id", actor.ID)
	return nil
}

// ListForEvent returns an event's submissions ordered by user name.
// Visible to the event creator and admins.
func (s *Submission) ListForEvent(ctx context.Context, actor model.User, eventID uuid.UUID) ([]model.Submission, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if !canMutateEvent(actor, event) {
		return nil, model.ErrUnauthorized
	}

	submissions, err := s.submissionStore.ListForEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// GetForUser returns the actor's own submission for an event, or
// ErrNotFound when none exists.
func (s *Submission) GetForUser(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Submission, error) {
	submission, err := s.submissionStore.GetByEventAndUser(ctx, eventID, actor.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Submission{}, model.ErrNotFound
		}
		return model.Submission{}, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// Tally aggregates an event's demand against its capacity.
func (s *Submission) Tally(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Tally, error) {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Tally{}, model.ErrNotFound
		}
		return model.Tally{}, fmt.Errorf("failed to get event: %w", err)
	}
	if !canMutateEvent(actor, event) {
		return model.Tally{}, model.ErrUnauthorized
	}

	tally, err := s.submissionStore.Tally(ctx, eventID)
	if err != nil {
		return model.Tally{}, fmt.Errorf("failed to tally submissions: %w", err)
	}
	return tally, nil
}

func (s *Submission) requireOpen(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.eventStore.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to get event: %w", err)
	}
	if !event.IsOpen() {
		return model.ErrEventNotOpen
	}
	return nil
}
