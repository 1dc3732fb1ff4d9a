package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
)

// DirectoryService defines the admin account management operations.
type DirectoryService interface {
	Register(ctx context.Context, actor model.User, name, email string, opts service.RegisterOptions) (model.User, error)
	SetActive(ctx context.Context, actor model.User, userID uuid.UUID, active bool) (model.User, error)
	SetAdmin(ctx context.Context, actor model.User, userID uuid.UUID, admin bool) (model.User, error)
	Rename(ctx context.Context, actor model.User, userID uuid.UUID, name string) (model.User, error)
	SetEmail(ctx context.Context, actor model.User, userID uuid.UUID, email string) (model.User, error)
	List(ctx context.Context, actor model.User) ([]model.User, error)
}

// User handles the admin user management endpoints.
type User struct {
	directoryService DirectoryService
	contextManager   model.ContextManager
	logger           *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(directoryService DirectoryService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		directoryService: directoryService,
		contextManager:   contextManager,
		logger:           logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"is_admin"`
}

// Register creates a new account. Without a password the user receives
// a first-time setup link by email.
func (h *User) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.directoryService.Register(r.Context(), actor, req.Name, req.Email, service.RegisterOptions{
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// List returns every account.
func (h *User) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	users, err := h.directoryService.List(r.Context(), actor)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponses(users))
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// SetActive toggles account activation.
func (h *User) SetActive(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := h.actorAndUser(w, r)
	if !ok {
		return
	}

	var req setActiveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.directoryService.SetActive(r.Context(), actor, userID, req.Active)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type setAdminRequest struct {
	Admin bool `json:"admin"`
}

// SetAdmin toggles the admin flag.
func (h *User) SetAdmin(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := h.actorAndUser(w, r)
	if !ok {
		return
	}

	var req setAdminRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.directoryService.SetAdmin(r.Context(), actor, userID, req.Admin)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type renameRequest struct {
	Name string `json:"name"`
}

// Rename changes a user's display name.
func (h *User) Rename(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := h.actorAndUser(w, r)
	if !ok {
		return
	}

	var req renameRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.directoryService.Rename(r.Context(), actor, userID, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type setEmailRequest struct {
	Email string `json:"email"`
}

// SetEmail changes a user's address.
func (h *User) SetEmail(w http.ResponseWriter, r *http.Request) {
	actor, userID, ok := h.actorAndUser(w, r)
	if !ok {
		return
	}

	var req setEmailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.directoryService.SetEmail(r.Context(), actor, userID, req.Email)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (h *User) actorAndUser(w http.ResponseWriter, r *http.Request) (model.User, uuid.UUID, bool) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return model.User{}, uuid.Nil, false
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return model.User{}, uuid.Nil, false
	}

	return actor, userID, true
}
