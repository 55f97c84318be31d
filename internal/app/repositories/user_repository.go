package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qlgl/catechism-backend/internal/app/models"
	"github.com/qlgl/catechism-backend/internal/pkg/apperrors"
	"github.com/qlgl/catechism-backend/internal/pkg/dberrors"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, username, password, full_name, role, phone, is_active, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.FullName,
		&user.Role, &user.Phone, &user.IsActive, &user.RefreshToken,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	return user, nil
}

// Create creates a new user and sets its generated ID.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (email, username, password, full_name, role, phone, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Username, user.Password, user.FullName, user.Role,
		user.Phone, user.IsActive).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrEmailOrUsernameExists
		}
		return fmt.Errorf("error creating user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`, id)
	return scanUser(row)
}

// GetActiveByIdentifier retrieves an active user whose username or email
// matches the given identifier.
func (r *UserRepository) GetActiveByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE (username = $1 OR email = $1) AND is_active = TRUE`, identifier)
	return scanUser(row)
}

// EmailOrUsernameExists checks whether any user already uses the email or
// the username.
func (r *UserRepository) EmailOrUsernameExists(ctx context.Context, email, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 OR username = $2)`,
		email, username).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("error checking user uniqueness: %w", err)
	}

	return exists, nil
}

// UpdateRefreshToken stores the hashed refresh token for a user. A nil hash
// clears the stored token, invalidating future refresh calls.
func (r *UserRepository) UpdateRefreshToken(ctx context.Context, userID int64, tokenHash *string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET refresh_token = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`,
		tokenHash, userID)

	if err != nil {
		return fmt.Errorf("error updating refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
