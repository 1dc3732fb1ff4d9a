package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	List(ctx context.Context) ([]User, error)
	ListActive(ctx context.Context) ([]User, error)
}

// User represents an account in the directory. A nil PasswordHash means
// the user has never completed first-time setup and can only get in
// through a recovery token.
type User struct {
	ID                uuid.UUID
	Name              string
	Email             string
	PasswordHash      *string
	IsAdmin           bool
	IsActive          bool
	MustResetPassword bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NeedsPasswordSetup reports whether the user has no stored credential.
func (u User) NeedsPasswordSetup() bool {
	return u.PasswordHash == nil || *u.PasswordHash == ""
}

// Hasher is the one-way credential hashing collaborator.
type Hasher interface {
	Hash(secret string) (string, error)
	Compare(digest, secret string) error
}
