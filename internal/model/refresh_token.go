package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// RefreshTokenStore persists long-lived session refresh tokens.
type RefreshTokenStore interface {
	Create(ctx context.Context, token RefreshToken) error
	GetByJTI(ctx context.Context, jti string) (RefreshToken, error)
	RevokeByJTI(ctx context.Context, jti string) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// RefreshToken is one rotation link in a session chain. Only the SHA-256
// hash of the presented token is stored.
type RefreshToken struct {
	ID             uuid.UUID
	JTI            string
	UserID         uuid.UUID
	TokenHash      []byte
	IssuedAt       time.Time
	ExpiresAt      time.Time
	RevokedAt      *time.Time
	RotatedFromJTI *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
