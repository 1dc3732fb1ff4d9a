package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
	"github.com/avelov/ticketlot/internal/token"
)

// Session is the result of a successful login.
type Session struct {
	User         model.User
	AccessToken  string
	RefreshToken string
}

// Auth owns the credential token lifecycle and the login flows built
// on top of it: magic links, password login and password reset.
type Auth struct {
	userStore    model.UserStore
	tokenStore   model.CredentialTokenStore
	hasher       model.Hasher
	notifier     model.Notifier
	tokenService *TokenService
	baseURL      string
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	tokenStore model.CredentialTokenStore,
	hasher model.Hasher,
	notifier model.Notifier,
	tokenService *TokenService,
	baseURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		tokenStore:   tokenStore,
		hasher:       hasher,
		notifier:     notifier,
		tokenService: tokenService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		logger:       logger,
	}
}

// IssueLoginToken mints a 15-minute magic-link token, replacing any
// prior login token for the user.
func (a *Auth) IssueLoginToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return a.issue(ctx, userID, model.PurposeLogin, model.LoginTokenTTL)
}

// IssueResetToken mints a 24-hour password-reset token.
func (a *Auth) IssueResetToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return a.issue(ctx, userID, model.PurposePasswordReset, model.ResetTokenTTL)
}

// IssueFirstSetupToken mints the 7-day reset token handed out at
// registration time so an invited user can set their first password.
func (a *Auth) IssueFirstSetupToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return a.issue(ctx, userID, model.PurposePasswordReset, model.FirstSetupTokenTTL)
}

func (a *Auth) issue(ctx context.Context, userID uuid.UUID, purpose model.TokenPurpose, ttl time.Duration) (string, error) {
	value, err := token.NewCredentialToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	err = a.tokenStore.Issue(ctx, model.CredentialToken{
		ID:        uuid.New(),
		UserID:    userID,
		Purpose:   purpose,
		Token:     value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	return value, nil
}

// RequestMagicLink emails a login link to the given address if an
// active account exists. It reports success either way so callers
// cannot probe which emails are registered.
func (a *Auth) RequestMagicLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: magic link requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if !user.IsActive {
		a.logger.Info("Auth service: magic link requested for deactivated account", "user_id", user.ID)
		return nil
	}

	value, err := a.IssueLoginToken(ctx, user.ID)
	if err != nil {
		return err
	}

	payload := model.NotificationPayload{URL: a.baseURL + "/auth/verify/" + value}
	if err := a.notifier.Notify(ctx, user, model.NotifyLoginLink, payload); err != nil {
		// Best effort: the caller still answers success-shaped.
		a.logger.Error("Auth service: failed to send login link",
			"user_id", user.ID,
			"error", err.Error())
	}
	return nil
}

// LoginWithToken redeems a magic-link token and opens a session.
// Redemption is single-use: a second call with the same value fails.
func (a *Auth) LoginWithToken(ctx context.Context, value string) (Session, error) {
	userID, err := a.tokenStore.Redeem(ctx, value, model.PurposeLogin)
	if err != nil {
		if errors.Is(err, model.ErrTokenInvalid) {
			return Session{}, model.ErrTokenInvalid
		}
		return Session{}, fmt.Errorf("failed to redeem login token: %w", err)
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	if !user.IsActive {
		return Session{}, model.ErrDeactivated
	}

	return a.openSession(ctx, user)
}

// LoginWithPassword verifies credentials and opens a session. The
// returned user carries MustResetPassword; callers are expected to
// force the reset step before granting full access.
func (a *Auth) LoginWithPassword(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return Session{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if !user.IsActive || user.NeedsPasswordSetup() {
		return Session{}, model.ErrInvalidCredentials
	}
	if err := a.hasher.Compare(*user.PasswordHash, password); err != nil {
		return Session{}, model.ErrInvalidCredentials
	}

	return a.openSession(ctx, user)
}

// RequestPasswordReset emails a reset link if an active account
// exists, reporting success either way.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Info("Auth service: password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	value, err := a.IssueResetToken(ctx, user.ID)
	if err != nil {
		return err
	}

	payload := model.NotificationPayload{URL: a.baseURL + "/auth/reset-password/" + value}
	if err := a.notifier.Notify(ctx, user, model.NotifyPasswordReset, payload); err != nil {
		a.logger.Error("Auth service: failed to send password reset",
			"user_id", user.ID,
			"error", err.Error())
	}
	return nil
}

// ResetPassword redeems a reset token and stores the new credential.
func (a *Auth) ResetPassword(ctx context.Context, value, newPassword string) error {
	userID, err := a.tokenStore.Redeem(ctx, value, model.PurposePasswordReset)
	if err != nil {
		if errors.Is(err, model.ErrTokenInvalid) {
			return model.ErrTokenInvalid
		}
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	digest, err := a.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &digest
	user.MustResetPassword = false
	if _, err := a.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	a.logger.Info("Auth service: password reset completed", "user_id", user.ID)
	return nil
}

// Refresh exchanges a refresh token for a new session pair.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	return a.tokenService.Refresh(ctx, refreshToken)
}

// Logout revokes the presented refresh token.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	return a.tokenService.RevokeByToken(ctx, refreshToken)
}

// LogoutAll revokes every live session the user holds.
func (a *Auth) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return a.tokenService.RevokeAllForUser(ctx, userID)
}

func (a *Auth) openSession(ctx context.Context, user model.User) (Session, error) {
	access, refresh, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to issue session tokens: %w", err)
	}

	a.logger.Info("Auth service: session opened", "user_id", user.ID)
	return Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
