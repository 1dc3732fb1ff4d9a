package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelov/ticketlot/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, name, email, password_hash, is_admin, is_active, must_reset_password, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row pgx.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.IsAdmin, &user.IsActive, &user.MustResetPassword,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, name, email, password_hash, is_admin, is_active, must_reset_password, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.IsAdmin, user.IsActive, user.MustResetPassword,
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	query := `UPDATE users
			  SET name = $2, email = $3, password_hash = $4, is_admin = $5,
			      is_active = $6, must_reset_password = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns

	saved, err := scanUser(r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.IsAdmin, user.IsActive, user.MustResetPassword,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrConflict
		}
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}
	return saved, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users ORDER BY name`)
}

func (r *UserRepository) ListActive(ctx context.Context) ([]model.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE is_active ORDER BY name`)
}

func (r *UserRepository) list(ctx context.Context, query string) ([]model.User, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}
