package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/courseware-api/internal/models"
)

const userColumns = "id, email, username, full_name, password_hash, role, active, created_at, updated_at"

// UserRepository provides database access for user accounts.
type UserRepository struct {
	crudRepository[models.User]
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{newCRUDRepository[models.User](db, "users", userColumns)}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT id, email, username, full_name, password_hash, role, active, created_at, updated_at FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const query = `SELECT id, email, username, full_name, password_hash, role, active, created_at, updated_at FROM users WHERE username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// Create persists a new user, assigning identity and timestamps. The caller
// supplies a password hash, never plaintext.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `INSERT INTO users (email, username, full_name, password_hash, role, active, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &user.ID, query, user.Email, user.Username, user.FullName, user.PasswordHash, user.Role, user.Active, user.CreatedAt, user.UpdatedAt); err != nil {
		return fmt.Errorf("create user: %w", translateConstraint(err))
	}
	return nil
}

// Update persists the mutable fields of a user and advances updated_at.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET email = $2, username = $3, full_name = $4, password_hash = $5, role = $6, active = $7, updated_at = $8 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Username, user.FullName, user.PasswordHash, user.Role, user.Active, user.UpdatedAt); err != nil {
		return fmt.Errorf("update user: %w", translateConstraint(err))
	}
	return nil
}
