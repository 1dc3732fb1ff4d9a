package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avelov/ticketlot/internal/logger"
	"github.com/avelov/ticketlot/internal/model"
)

// RegisterOptions tunes user creation. With no password the account is
// created in first-time-setup state and receives a 7-day setup token.
type RegisterOptions struct {
	Password string
	IsAdmin  bool
}

// Directory owns user identity: registration, credential updates and
// the admin-only account mutations.
type Directory struct {
	userStore model.UserStore
	hasher    model.Hasher
	notifier  model.Notifier
	auth      *Auth
	logger    *logger.Logger
}

func NewDirectory(
	userStore model.UserStore,
	hasher model.Hasher,
	notifier model.Notifier,
	auth *Auth,
	logger *logger.Logger,
) *Directory {
	return &Directory{
		userStore: userStore,
		hasher:    hasher,
		notifier:  notifier,
		auth:      auth,
		logger:    logger,
	}
}

// Register creates a user. Only admins may register accounts. Without a
// password the account gets a NULL credential plus a setup token, and a
// welcome notification carrying the setup link is sent best-effort.
func (d *Directory) Register(ctx context.Context, actor model.User, name, email string, opts RegisterOptions) (model.User, error) {
	if !actor.IsAdmin {
		return model.User{}, model.ErrUnauthorized
	}
	if name == "" {
		return model.User{}, model.NewValidationError("name is required")
	}
	email = normalizeEmail(email)
	if email == "" {
		return model.User{}, model.NewValidationError("email is required")
	}

	user := model.User{
		ID:                uuid.New(),
		Name:              name,
		Email:             email,
		IsAdmin:           opts.IsAdmin,
		IsActive:          true,
		MustResetPassword: true,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if opts.Password != "" {
		digest, err := d.hasher.Hash(opts.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = &digest
		user.MustResetPassword = false
	}

	saved, err := d.userStore.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	if saved.NeedsPasswordSetup() {
		value, err := d.auth.IssueFirstSetupToken(ctx, saved.ID)
		if err != nil {
			return model.User{}, err
		}
		payload := model.NotificationPayload{URL: d.auth.baseURL + "/auth/reset-password/" + value}
		if err := d.notifier.Notify(ctx, saved, model.NotifyWelcome, payload); err != nil {
			d.logger.Error("Directory service: failed to send welcome email",
				"user_id", saved.ID,
				"error", err.Error())
		}
	}

	d.logger.Info("Directory service: user registered", "user_id", saved.ID, "is_admin", saved.IsAdmin)
	return saved, nil
}

// SetCredential stores a new password digest and clears the forced
// reset flag.
func (d *Directory) SetCredential(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := d.userStore.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	digest, err := d.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = &digest
	user.MustResetPassword = false
	if _, err := d.userStore.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}
	return nil
}

// SetActive toggles account activation. An admin cannot deactivate
// their own account.
func (d *Directory) SetActive(ctx context.Context, actor model.User, userID uuid.UUID, active bool) (model.User, error) {
	if !actor.IsAdmin {
		return model.User{}, model.ErrUnauthorized
	}
	if actor.ID == userID && !active {
		return model.User{}, model.ErrUnauthorized
	}

	return d.mutate(ctx, userID, func(u *model.User) { u.IsActive = active })
}

// SetAdmin toggles the admin flag. An admin cannot strip their own
// admin rights.
func (d *Directory) SetAdmin(ctx context.Context, actor model.User, userID uuid.UUID, admin bool) (model.User, error) {
	if !actor.IsAdmin {
		return model.User{}, model.ErrUnauthorized
	}
	if actor.ID == userID && !admin {
		return model.User{}, model.ErrUnauthorized
	}

	return d.mutate(ctx, userID, func(u *model.User) { u.IsAdmin = admin })
}

// Rename changes a user's display name.
func (d *Directory) Rename(ctx context.Context, actor model.User, userID uuid.UUID, name string) (model.User, error) {
	if !actor.IsAdmin {
		return model.User{}, model.ErrUnauthorized
	}
	if name == "" {
		return model.User{}, model.NewValidationError("name is required")
	}

	return d.mutate(ctx, userID, func(u *model.User) { u.Name = name })
}

// SetEmail changes a user's address; duplicates fail with ErrConflict.
func (d *Directory) SetEmail(ctx context.Context, actor model.User, userID uuid.UUID, email string) (model.User, error) {
	if !actor.IsAdmin {
		return model.User{}, model.ErrUnauthorized
	}
	email = normalizeEmail(email)
	if email == "" {
		return model.User{}, model.NewValidationError("email is required")
	}

	return d.mutate(ctx, userID, func(u *model.User) { u.Email = email })
}

func (d *Directory) mutate(ctx context.Context, userID uuid.UUID, apply func(*model.User)) (model.User, error) {
	user, err := d.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	apply(&user)

	saved, err := d.userStore.Update(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return saved, nil
}

// Get returns a user by ID.
func (d *Directory) Get(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := d.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// List returns all users ordered by name; admin only.
func (d *Directory) List(ctx context.Context, actor model.User) ([]model.User, error) {
	if !actor.IsAdmin {
		return nil, model.ErrUnauthorized
	}
	users, err := d.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
