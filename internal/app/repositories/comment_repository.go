package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
)

// CommentRepository handles database operations for challenge discussions
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, challenge_id, user_id, body)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query,
		comment.ID,
		comment.ChallengeID,
		comment.UserID,
		comment.Body,
	).Scan(&comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating comment: %w", err)
	}

	return nil
}

// ListByChallenge retrieves a challenge's comments with authors, newest first
func (r *CommentRepository) ListByChallenge(ctx context.Context, challengeID uuid.UUID) ([]*models.Comment, error) {
	query := `
		SELECT c.id, c.challenge_id, c.user_id, c.body, c.created_at,
			u.id, u.display_name, u.avatar_url, u.created_at
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.challenge_id = $1
		ORDER BY c.created_at DESC, c.id DESC
	`

	rows, err := r.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		var author models.User
		if err := rows.Scan(
			&comment.ID,
			&comment.ChallengeID,
			&comment.UserID,
			&comment.Body,
			&comment.CreatedAt,
			&author.ID,
			&author.DisplayName,
			&author.AvatarURL,
			&author.CreatedAt,
		); err != nil {
			return nil, err
		}
		comment.Author = &author
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

// Delete removes a comment by ID
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting comment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCommentNotFound
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT id, challenge_id, user_id, body, created_at
		FROM comments
		WHERE id = $1
	`

	var comment models.Comment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ChallengeID,
		&comment.UserID,
		&comment.Body,
		&comment.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCommentNotFound
		}
		return nil, fmt.Errorf("error retrieving comment: %w", err)
	}

	return &comment, nil
}
