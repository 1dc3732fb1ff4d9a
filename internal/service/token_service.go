package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// TokenService issues, refreshes and revokes session tokens. It
// composes the TokenManager and RefreshTokenStore.
type TokenService struct {
	manager model.TokenManager
	store   model.RefreshTokenStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.RefreshTokenStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

// NOTE: Keep this in sync with the token manager. The stored expiry is
// used for persistence-side checks; cryptographic validity is checked
// against the JWT claims by the manager at parse time.
const refreshTTL = 365 * 24 * time.Hour

func (s *TokenService) Issue(ctx context.Context, userID uuid.UUID) (accessToken string, refreshToken string, err error) {
	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue access: %w", err)
	}

	refresh, jti, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue refresh: %w", err)
	}

	now := time.Now()
	rt := model.RefreshToken{
		ID:        uuid.New(),
		JTI:       jti,
		UserID:    userID,
		TokenHash: hashRefresh(refresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, rt); err != nil {
		return "", "", fmt.Errorf("persist refresh: %w", err)
	}

	return access, refresh, nil
}

func (s *TokenService) Refresh(ctx context.Context, presentedRefresh string) (newAccess string, newRefresh string, err error) {
	userID, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return "", "", err
	}

	rt, err := s.store.GetByJTI(ctx, jti)
	if err != nil {
		return "", "", err
	}

	if err := validateRecord(rt, hashRefresh(presentedRefresh), time.Now()); err != nil {
		return "", "", err
	}

	// Rotation: the presented token dies with this call.
	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return "", "", fmt.Errorf("revoke old refresh: %w", err)
	}

	access, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue new access: %w", err)
	}

	refresh, newJTI, err := s.manager.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("issue new refresh: %w", err)
	}

	now := time.Now()
	rotatedFrom := rt.JTI
	newRT := model.RefreshToken{
		ID:             uuid.New(),
		JTI:            newJTI,
		UserID:         userID,
		TokenHash:      hashRefresh(refresh),
		IssuedAt:       now,
		ExpiresAt:      now.Add(refreshTTL),
		RotatedFromJTI: &rotatedFrom,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, newRT); err != nil {
		return "", "", fmt.Errorf("persist new refresh: %w", err)
	}

	return access, refresh, nil
}

func (s *TokenService) RevokeByToken(ctx context.Context, presentedRefresh string) error {
	_, jti, err := s.manager.ParseRefreshToken(presentedRefresh)
	if err != nil {
		return err
	}

	if err := s.store.RevokeByJTI(ctx, jti); err != nil {
		return fmt.Errorf("revoke refresh: %w", err)
	}
	return nil
}

func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.RevokeAllByUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke all refresh tokens: %w", err)
	}
	return nil
}

// GetUserID resolves the user behind a bearer access token.
func (s *TokenService) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse access token: %w", err)
	}
	return userID, nil
}

func hashRefresh(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return sum[:]
}

func validateRecord(rt model.RefreshToken, presentedHash []byte, now time.Time) error {
	if rt.RevokedAt != nil {
		return model.ErrSessionRevoked
	}
	if now.After(rt.ExpiresAt) {
		return model.ErrSessionExpired
	}
	if subtle.ConstantTimeCompare(rt.TokenHash, presentedHash) != 1 {
		return model.ErrSessionMismatch
	}
	return nil
}
