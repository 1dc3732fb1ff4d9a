package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
)

// EventService defines the event lifecycle operations.
type EventService interface {
	Create(ctx context.Context, actor model.User, params service.EventParams) (model.Event, error)
	Update(ctx context.Context, actor model.User, eventID uuid.UUID, params service.EventParams) (model.Event, error)
	Finalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error)
	Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error)
	Cancel(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error)
	Delete(ctx context.Context, actor model.User, eventID uuid.UUID) error
	Get(ctx context.Context, eventID uuid.UUID) (model.Event, error)
	ListOpen(ctx context.Context) ([]model.Event, error)
	ListPast(ctx context.Context, withinMonths int) ([]model.Event, error)
}

// AllocationService defines allocation drafting and finalization.
type AllocationService interface {
	SaveDraft(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) error
	Finalize(ctx context.Context, actor model.User, eventID uuid.UUID, allocations map[uuid.UUID]int) (model.Event, error)
	Unfinalize(ctx context.Context, actor model.User, eventID uuid.UUID) (model.Event, error)
}

// Event handles the event and allocation endpoints.
type Event struct {
	eventService      EventService
	allocationService AllocationService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// NewEvent creates a new Event handler.
func NewEvent(eventService EventService, allocationService AllocationService, contextManager model.ContextManager, logger *logger.Logger) *Event {
	return &Event{
		eventService:      eventService,
		allocationService: allocationService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

type eventRequest struct {
	Name         string    `json:"name"`
	EventDate    time.Time `json:"event_date"`
	TotalTickets int       `json:"total_tickets"`
	Notes        string    `json:"notes"`
}

func (req eventRequest) params() service.EventParams {
	return service.EventParams{
		Name:         req.Name,
		EventDate:    req.EventDate,
		TotalTickets: req.TotalTickets,
		Notes:        req.Notes,
	}
}

func (h *Event) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.eventService.Create(r.Context(), actor, req.params())
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *Event) Update(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	var req eventRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.eventService.Update(r.Context(), actor, eventID, req.params())
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Event) Get(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid event id")
		return
	}

	event, err := h.eventService.Get(r.Context(), eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Event) ListOpen(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListOpen(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(events))
}

// ListPast returns finalized and cancelled events, optionally limited
// by a months query parameter.
func (h *Event) ListPast(w http.ResponseWriter, r *http.Request) {
	months := 0
	if raw := r.URL.Query().Get("months"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "invalid months parameter")
			return
		}
		months = parsed
	}

	events, err := h.eventService.ListPast(r.Context(), months)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (h *Event) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.eventService.Cancel)
}

func (h *Event) Unfinalize(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.allocationService.Unfinalize)
}

func (h *Event) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, model.User, uuid.UUID) (model.Event, error)) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	event, err := op(r.Context(), actor, eventID)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Event) Delete(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), actor, eventID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type allocationRequest struct {
	Allocations map[uuid.UUID]int `json:"allocations"`
}

// SaveAllocations stores a draft allocation without finalizing.
func (h *Event) SaveAllocations(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	var req allocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.allocationService.SaveDraft(r.Context(), actor, eventID, req.Allocations); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "allocations saved"})
}

// Finalize stores the allocations and closes the event.
func (h *Event) Finalize(w http.ResponseWriter, r *http.Request) {
	actor, eventID, ok := h.actorAndEvent(w, r)
	if !ok {
		return
	}

	var req allocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.allocationService.Finalize(r.Context(), actor, eventID, req.Allocations)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *Event) actorAndEvent(w http.ResponseWriter, r *http.Request) (model.User, uuid.UUID, bool) {
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
