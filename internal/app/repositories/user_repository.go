package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
)

// UserRepository handles database operations for identity mirror rows
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert writes the provider profile for a subject. Existing rows get their
// display name and avatar refreshed so the mirror follows the provider.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, display_name, avatar_url)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name,
		    avatar_url = EXCLUDED.avatar_url
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, user.ID, user.DisplayName, user.AvatarURL).Scan(&user.CreatedAt)
	if err != nil {
		return fmt.Errorf("error upserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by provider subject
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `
		SELECT id, display_name, avatar_url, created_at
		FROM users
		WHERE id = $1
	`

	var user models.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}
