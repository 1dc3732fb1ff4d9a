package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/avelov/ticketlot/internal/logger"
	servermocks "github.com/avelov/ticketlot/internal/mocks"
	"github.com/avelov/ticketlot/internal/model"
)

func TestSubmission_Submit(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	actor := activeUser()
	event := openEvent(uuid.New())

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	subStore.On("Upsert", mock.Anything, mock.MatchedBy(func(s model.Submission) bool {
		return s.EventID == event.ID &&
			s.UserID == actor.ID &&
			assert.ObjectsAreEqual([]int{4, 2, 1, 0}, s.Preferences)
	})).Return(model.Submission{EventID: event.ID, UserID: actor.ID, Preferences: []int{4, 2, 1, 0}}, nil)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	saved, err := s.Submit(ctx, actor, event.ID, []int{4, 2, 1, 0}, "aisle seats please")
	require.NoError(t, err)
	assert.Equal(t, actor.ID, saved.UserID)
	subStore.AssertExpectations(t)
}

func TestSubmission_Submit_EventNotOpen(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	event := openEvent(uuid.New())
	event.Status = model.EventFinalized

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	_, err := s.Submit(ctx, activeUser(), event.ID, []int{2, 0}, "")
	assert.ErrorIs(t, err, model.ErrEventNotOpen)
	subStore.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestSubmission_Submit_InvalidPreferences(t *testing.T) {
	ctx := context.Background()
	eventStore := &servermocks.EventStore{}
	event := openEvent(uuid.New())

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)

	s := NewSubmission(&servermocks.SubmissionStore{}, eventStore, &servermocks.UserStore{}, logger.New(0))

	var validationErr *model.ValidationError
	for _, prefs := range [][]int{{}, {0}, {3, 3, 0}, {3, 5, 0}, {3, 1}} {
		_, err := s.Submit(ctx, activeUser(), event.ID, prefs, "")
		require.ErrorAs(t, err, &validationErr, "preferences %v", prefs)
	}
}

func TestSubmission_SubmitOnBehalf(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	userStore := &servermocks.UserStore{}

	creator := activeUser()
	target := activeUser()
	event := openEvent(creator.ID)

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	userStore.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	subStore.On("Insert", mock.Anything, mock.MatchedBy(func(s model.Submission) bool {
		return s.EventID == event.ID && s.UserID == target.ID
	})).Return(model.Submission{EventID: event.ID, UserID: target.ID}, nil)

	s := NewSubmission(subStore, eventStore, userStore, logger.New(0))

	saved, err := s.SubmitOnBehalf(ctx, creator, event.ID, target.ID, []int{2, 0}, "phoned in")
	require.NoError(t, err)
	assert.Equal(t, target.ID, saved.UserID)
	subStore.AssertExpectations(t)
}

func TestSubmission_SubmitOnBehalf_OnlyCreator(t *testing.T) {
	ctx := context.Background()
	eventStore := &servermocks.EventStore{}
	event := openEvent(uuid.New())

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)

	s := NewSubmission(&servermocks.SubmissionStore{}, eventStore, &servermocks.UserStore{}, logger.New(0))

	// even an admin is refused when not the creator
	_, err := s.SubmitOnBehalf(ctx, adminActor(), event.ID, uuid.New(), []int{2, 0}, "")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSubmission_SubmitOnBehalf_ExistingSubmission(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	userStore := &servermocks.UserStore{}

	creator := activeUser()
	target := activeUser()
	event := openEvent(creator.ID)

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	userStore.On("GetByID", mock.Anything, target.ID).Return(target, nil)
	subStore.On("Insert", mock.Anything, mock.Anything).Return(model.Submission{}, model.ErrConflict)

	s := NewSubmission(subStore, eventStore, userStore, logger.New(0))

	_, err := s.SubmitOnBehalf(ctx, creator, event.ID, target.ID, []int{2, 0}, "")
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestSubmission_SubmitOnBehalf_DeactivatedTarget(t *testing.T) {
	ctx := context.Background()
	eventStore := &servermocks.EventStore{}
	userStore := &servermocks.UserStore{}

	creator := activeUser()
	target := activeUser()
	target.IsActive = false
	event := openEvent(creator.ID)

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	userStore.On("GetByID", mock.Anything, target.ID).Return(target, nil)

	s := NewSubmission(&servermocks.SubmissionStore{}, eventStore, userStore, logger.New(0))

	var validationErr *model.ValidationError
	_, err := s.SubmitOnBehalf(ctx, creator, event.ID, target.ID, []int{2, 0}, "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestSubmission_Withdraw(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	actor := activeUser()
	event := openEvent(uuid.New())
	existing := model.Submission{ID: uuid.New(), EventID: event.ID, UserID: actor.ID}

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	subStore.On("GetByEventAndUser", mock.Anything, event.ID, actor.ID).Return(existing, nil)
	subStore.On("Delete", mock.Anything, existing.ID).Return(nil)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	require.NoError(t, s.Withdraw(ctx, actor, event.ID))
	subStore.AssertExpectations(t)
}

func TestSubmission_Withdraw_NothingToWithdraw(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	actor := activeUser()
	event := openEvent(uuid.New())

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	subStore.On("GetByEventAndUser", mock.Anything, event.ID, actor.ID).Return(model.Submission{}, model.ErrNotFound)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	require.NoError(t, s.Withdraw(ctx, actor, event.ID))
	subStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSubmission_Withdraw_EventNotOpen(t *testing.T) {
	ctx := context.Background()
	eventStore := &servermocks.EventStore{}
	event := openEvent(uuid.New())
	event.Status = model.EventCancelled

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)

	s := NewSubmission(&servermocks.SubmissionStore{}, eventStore, &servermocks.UserStore{}, logger.New(0))

	err := s.Withdraw(ctx, activeUser(), event.ID)
	assert.ErrorIs(t, err, model.ErrEventNotOpen)
}

func TestSubmission_ListForEvent_Authorization(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	creator := activeUser()
	event := openEvent(creator.ID)

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	subStore.On("ListForEvent", mock.Anything, event.ID).Return([]model.Submission{}, nil)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	_, err := s.ListForEvent(ctx, creator, event.ID)
	require.NoError(t, err)

	_, err = s.ListForEvent(ctx, adminActor(), event.ID)
	require.NoError(t, err)

	_, err = s.ListForEvent(ctx, activeUser(), event.ID)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSubmission_Tally(t *testing.T) {
	ctx := context.Background()
	subStore := &servermocks.SubmissionStore{}
	eventStore := &servermocks.EventStore{}
	creator := activeUser()
	event := openEvent(creator.ID)

	eventStore.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	subStore.On("Tally", mock.Anything, event.ID).Return(model.Tally{Count: 2, SumIdeal: 7, SumMinAcceptable: 4}, nil)

	s := NewSubmission(subStore, eventStore, &servermocks.UserStore{}, logger.New(0))

	tally, err := s.Tally(ctx, creator, event.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, tally.Count)
	assert.Equal(t, 7, tally.SumIdeal)
	assert.Equal(t, 4, tally.SumMinAcceptable)
}
