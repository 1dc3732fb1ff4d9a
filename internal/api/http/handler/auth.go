package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/service"
)

// AuthService defines the login and credential recovery operations.
type AuthService interface {
	RequestMagicLink(ctx context.Context, email string) error
	LoginWithToken(ctx context.Context, value string) (service.Session, error)
	LoginWithPassword(ctx context.Context, email, password string) (service.Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, value, newPassword string) error
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

// CredentialService updates a user's own password.
type CredentialService interface {
	SetCredential(ctx context.Context, userID uuid.UUID, password string) error
}

// Auth handles the authentication endpoints.
type Auth struct {
	authService       AuthService
	credentialService CredentialService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, credentialService CredentialService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:       authService,
		credentialService: credentialService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

type emailRequest struct {
	Email string `json:"email"`
}

// RequestMagicLink answers 202 whether or not the address is known.
func (h *Auth) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.RequestMagicLink(r.Context(), req.Email); err != nil {
		h.logger.Error("Auth handler: magic link request failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "if the address is registered, a login link has been sent",
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

// Verify redeems a magic-link token and opens a session.
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.authService.LoginWithToken(r.Context(), req.Token)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies email and password and opens a session.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.authService.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

// RequestPasswordReset answers 202 whether or not the address is known.
func (h *Auth) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("Auth handler: password reset request failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "if the address is registered, a reset link has been sent",
	})
}

type resetRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword redeems a reset token and stores the new password.
func (h *Auth) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh rotates a refresh token into a new session pair.
func (h *Auth) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	access, refresh, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// Logout revokes the presented refresh token.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll revokes every session of the authenticated user.
func (h *Auth) LogoutAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.authService.LogoutAll(r.Context(), actor.ID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(actor))
}

type passwordRequest struct {
	Password string `json:"password"`
}

// SetPassword stores a new password for the authenticated user and
// clears any forced-reset flag.
func (h *Auth) SetPassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req passwordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := h.credentialService.SetCredential(r.Context(), actor.ID, req.Password); err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
