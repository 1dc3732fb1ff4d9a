package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenPurpose discriminates what a credential token may redeem.
type TokenPurpose string

const (
	PurposeLogin         TokenPurpose = "login"
	PurposePasswordReset TokenPurpose = "password_reset"
)

// Credential token lifetimes. First-time setup gets a longer window so a
// freshly invited user is not locked out over a weekend.
const (
	LoginTokenTTL      = 15 * time.Minute
	ResetTokenTTL      = 24 * time.Hour
	FirstSetupTokenTTL = 7 * 24 * time.Hour
)

// CredentialTokenStore persists single-use recovery and login tokens.
// Issue replaces any prior token for the same (user, purpose) pair.
// Redeem must be atomic: of two concurrent calls with the same value,
// exactly one receives the user ID and the other ErrTokenInvalid.
type CredentialTokenStore interface {
	Issue(ctx context.Context, token CredentialToken) error
	Redeem(ctx context.Context, value string, purpose TokenPurpose) (uuid.UUID, error)
}

// CredentialToken is a short-lived opaque secret bound to a user and a
// purpose. At most one live token exists per (user, purpose).
type CredentialToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Purpose   TokenPurpose
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}
