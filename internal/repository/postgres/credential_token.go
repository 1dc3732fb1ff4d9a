package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelov/ticketlot/internal/model"
)

var _ model.CredentialTokenStore = (*CredentialTokenRepository)(nil)

type CredentialTokenRepository struct {
	db *Connection
}

func NewCredentialTokenRepository(db *Connection) *CredentialTokenRepository {
	return &CredentialTokenRepository{db: db}
}

// Issue stores a token, replacing any prior token of the same purpose
// for the same user. Issuing therefore invalidates an outstanding token
// even before it expires.
func (r *CredentialTokenRepository) Issue(ctx context.Context, token model.CredentialToken) error {
	const query = `
        INSERT INTO credential_tokens (id, user_id, purpose, token, expires_at, created_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (user_id, purpose)
        DO UPDATE SET id = EXCLUDED.id, token = EXCLUDED.token,
                      expires_at = EXCLUDED.expires_at, created_at = NOW()
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	if _, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.Purpose, token.Token, token.ExpiresAt,
	); err != nil {
		return fmt.Errorf("failed to issue credential token: %w", err)
	}
	return nil
}

// Redeem consumes a live token in a single conditional DELETE, so two
// concurrent redemptions of the same value serialize in the store and
// exactly one of them gets the row. Expired rows never match and are
// simply overwritten by the next Issue.
func (r *CredentialTokenRepository) Redeem(ctx context.Context, value string, purpose model.TokenPurpose) (uuid.UUID, error) {
	const query = `
        DELETE FROM credential_tokens
        WHERE token = $1 AND purpose = $2 AND expires_at > NOW()
        RETURNING user_id
    `

	var userID uuid.UUID
	err := r.db.QueryRow(ctx, query, value, purpose).Scan(&userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, model.ErrTokenInvalid
		}
		return uuid.Nil, fmt.Errorf("failed to redeem credential token: %w", err)
	}
	return userID, nil
}
