package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens, loads the account and injects
// it into the request context. Deactivated accounts are rejected even
// when their token is still cryptographically valid.
type Authenticate struct {
	tokenService   TokenService
	userStore      model.UserStore
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, userStore model.UserStore, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		tokenService:   tokenService,
		userStore:      userStore,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Handle wraps a handler with bearer authentication.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			m.logger.Debug("Authenticate middleware: request rejected",
				"path", r.URL.Path,
				"error", err.Error())
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
	})
}

func (m *Authenticate) authenticate(r *http.Request) (model.User, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return model.User{}, model.ErrUnauthorized
	}

	userID, err := m.tokenService.GetUserID(r.Context(), strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return model.User{}, model.ErrUnauthorized
	}

	user, err := m.userStore.GetByID(r.Context(), userID)
	if err != nil {
		return model.User{}, model.ErrUnauthorized
	}
	if !user.IsActive {
		return model.User{}, model.ErrDeactivated
	}

	return user, nil
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
}
