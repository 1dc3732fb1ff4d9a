package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// SubmissionService defines the ticket request operations.
type SubmissionService interface {
	Submit(ctx context.Context, actor model.User, eventID uuid.UUID, preferences []int, notes string) (model.Submission, error)
	SubmitOnBehalf(ctx context.Context, actor model.User, eventID, userID uuid.UUID, preferences []int, notes string) (model.Submission, error)
	Withdraw(ctx context.Context, actor model.User, eventID uuid.UUID) error
	ListForEvent(ctx context.Context, actor model.User, eventID uuid.UUID) ([]model.Submission, error)
	GetForUser(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Submission, error)
	Tally(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Tally, error)
}

// Submission handles the submission endpoints.
type Submission struct {
	submissionService SubmissionService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// NewSubmission creates a new Submission handler.
func NewSubmission(submissionService SubmissionService, contextManager model.ContextManager, logger *logger.Logger) *Submission {
	return &Submission{
		submissionService: submissionService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

type submitRequest struct {
	Preferences []int  `json:"preferences"`
	Notes       string `json:"notes"`
}

// Submit records or replaces the caller's preference list.
func (h *Submission) Submit(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	submission, err := h.submissionService.Submit(r.Context(), actor, eventID, req.Preferences, req.Notes)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

type submitOnBehalfRequest struct {
	UserID      uuid.UUID `json:"user_id"`
	Preferences []int     `json:"preferences"`
	Notes       string    `json:"notes"`
}

// SubmitOnBehalf lets the event creator enter a submission for another
// user.
func (h *Submission) SubmitOnBehalf(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	var req submitOnBehalfRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	submission, err := h.submissionService.SubmitOnBehalf(r.Context(), actor, eventID, req.UserID, req.Preferences, req.Notes)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSubmissionResponse(submission))
}

// Withdraw removes the caller's submission.
func (h *Submission) Withdraw(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	if err := h.submissionService.Withdraw(r.Context(), actor, eventID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns an event's submissions for its organizer.
func (h *Submission) List(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	submissions, err := h.submissionService.ListForEvent(r.Context(), actor, eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponses(submissions))
}

// Mine returns the caller's own submission for an event.
func (h *Submission) Mine(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	submission, err := h.submissionService.GetForUser(r.Context(), actor, eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSubmissionResponse(submission))
}

// Tally returns the demand aggregate for an event.
func (h *Submission) Tally(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	tally, err := h.submissionService.Tally(r.Context(), actor, eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTallyResponse(tally))
}

func (h *Submission) actorAndEvent(w http.ResponseWriter, r *http.Request) (model.User, uuid.UUID, bool) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return model.User{}, uuid.Nil, false
	}

	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return model.User{}, uuid.Nil, false
	}

	return actor, eventID, true
}
