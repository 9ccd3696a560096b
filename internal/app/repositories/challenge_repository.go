package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/dberrors"
	"github.com/huddleapp/huddle/internal/pkg/logger"
)

// Querier is the subset of pgx operations shared by the pool and an open
// transaction, so repository methods can participate in either.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const challengeColumns = `id, slug, title, description, category, frequency,
	start_date, end_date, goal_numeric, unit_label, is_public, owner_id, created_at`

// ChallengeRepository handles database operations for challenges
type ChallengeRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new challenge. Runs on the given querier so the caller
// can pair it with the owner's membership insert in one transaction.
func (r *ChallengeRepository) Create(ctx context.Context, q Querier, challenge *models.Challenge) error {
	query := `
		INSERT INTO challenges (id, slug, title, description, category, frequency,
			start_date, end_date, goal_numeric, unit_label, is_public, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		challenge.ID,
		challenge.Slug,
		challenge.Title,
		challenge.Description,
		challenge.Category,
		challenge.Frequency,
		challenge.StartDate,
		challenge.EndDate,
		challenge.GoalNumeric,
		challenge.UnitLabel,
		challenge.IsPublic,
		challenge.OwnerID,
	).Scan(&challenge.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintChallengeSlug) {
			return apperrors.ErrSlugAlreadyExists
		}
		return fmt.Errorf("error creating challenge: %w", err)
	}

	return nil
}

// GetBySlug retrieves a challenge by its slug
func (r *ChallengeRepository) GetBySlug(ctx context.Context, slug string) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

// GetByID retrieves a challenge by ID
func (r *ChallengeRepository) GetByID(ctx context.Context, id string) (*models.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *ChallengeRepository) getOne(ctx context.Context, query string, arg any) (*models.Challenge, error) {
	var challenge models.Challenge
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&challenge.ID,
		&challenge.Slug,
		&challenge.Title,
		&challenge.Description,
		&challenge.Category,
		&challenge.Frequency,
		&challenge.StartDate,
		&challenge.EndDate,
		&challenge.GoalNumeric,
		&challenge.UnitLabel,
		&challenge.IsPublic,
		&challenge.OwnerID,
		&challenge.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("error retrieving challenge: %w", err)
	}

	return &challenge, nil
}

// ListPublic retrieves public challenges with optional category and title
// filtering and pagination, newest first. The second return value is the
// total row count before pagination.
func (r *ChallengeRepository) ListPublic(ctx context.Context, category, search *string, page, pageSize int) ([]*models.Challenge, int64, error) {
	builder := r.sb.Select(
		"id", "slug", "title", "description", "category", "frequency",
		"start_date", "end_date", "goal_numeric", "unit_label", "is_public",
		"owner_id", "created_at", "COUNT(*) OVER() AS total_count",
	).
		From("challenges").
		Where(squirrel.Eq{"is_public": true})

	if category != nil && *category != "" {
		builder = builder.Where(squirrel.Eq{"category": *category})
	}
	if search != nil && *search != "" {
		builder = builder.Where(squirrel.ILike{"title": "%" + *search + "%"})
	}

	offset := (page - 1) * pageSize
	sql, args, err := builder.
		OrderBy("created_at DESC", "id").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list challenges SQL")
		return nil, 0, fmt.Errorf("failed to build list challenges query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	var total int64
	for rows.Next() {
		var challenge models.Challenge
		if err := rows.Scan(
			&challenge.ID,
			&challenge.Slug,
			&challenge.Title,
			&challenge.Description,
			&challenge.Category,
			&challenge.Frequency,
			&challenge.StartDate,
			&challenge.EndDate,
			&challenge.GoalNumeric,
			&challenge.UnitLabel,
			&challenge.IsPublic,
			&challenge.OwnerID,
			&challenge.CreatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		challenges = append(challenges, &challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return challenges, total, nil
}

// ListJoinedByUser retrieves the challenges a user is enrolled in, most
// recently joined first.
func (r *ChallengeRepository) ListJoinedByUser(ctx context.Context, userID string) ([]*models.Challenge, error) {
	query := `
		SELECT c.id, c.slug, c.title, c.description, c.category, c.frequency,
			c.start_date, c.end_date, c.goal_numeric, c.unit_label, c.is_public,
			c.owner_id, c.created_at
		FROM challenges c
		JOIN memberships m ON m.challenge_id = c.id
		WHERE m.user_id = $1
		ORDER BY m.joined_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing joined challenges: %w", err)
	}
	defer rows.Close()

	var challenges []*models.Challenge
	for rows.Next() {
		var challenge models.Challenge
		if err := rows.Scan(
			&challenge.ID,
			&challenge.Slug,
			&challenge.Title,
			&challenge.Description,
			&challenge.Category,
			&challenge.Frequency,
			&challenge.StartDate,
			&challenge.EndDate,
			&challenge.GoalNumeric,
			&challenge.UnitLabel,
			&challenge.IsPublic,
			&challenge.OwnerID,
			&challenge.CreatedAt,
		); err != nil {
			return nil, err
		}
		challenges = append(challenges, &challenge)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return challenges, nil
}
