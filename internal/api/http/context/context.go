// Package context carries the authenticated user through request
// contexts for the HTTP layer.
package context

import (
	"context"

	"github.com/avelov/ticketlot/internal/model"
)

type ctxKey int

const userKey ctxKey = iota

// Manager implements model.ContextManager over plain context values.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// SetUserToContext returns a child context carrying the user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the user set by the authenticate
// middleware. The boolean is false on unauthenticated requests.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}
