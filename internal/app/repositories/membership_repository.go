package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/dberrors"
)

// MembershipRepository handles database operations for memberships
type MembershipRepository struct {
	db *pgxpool.Pool
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create enrolls a user in a challenge. The unique
// (challenge_id, user_id) constraint makes double joins a conflict.
func (r *MembershipRepository) Create(ctx context.Context, q Querier, membership *models.Membership) error {
	query := `
		INSERT INTO memberships (id, challenge_id, user_id, streak)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
	`

	err := q.QueryRow(ctx, query,
		membership.ID,
		membership.ChallengeID,
		membership.UserID,
		membership.Streak,
	).Scan(&membership.JoinedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintMembershipPerUser) {
			return apperrors.ErrAlreadyJoined
		}
		return fmt.Errorf("error creating membership: %w", err)
	}

	return nil
}

// GetByChallengeAndUser retrieves a user's membership in a challenge
func (r *MembershipRepository) GetByChallengeAndUser(ctx context.Context, challengeID uuid.UUID, userID string) (*models.Membership, error) {
	query := `
		SELECT id, challenge_id, user_id, streak, last_checkin, joined_at
		FROM memberships
		WHERE challenge_id = $1 AND user_id = $2
	`

	var membership models.Membership
	err := r.db.QueryRow(ctx, query, challengeID, userID).Scan(
		&membership.ID,
		&membership.ChallengeID,
		&membership.UserID,
		&membership.Streak,
		&membership.LastCheckin,
		&membership.JoinedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMembershipNotFound
		}
		return nil, fmt.Errorf("error retrieving membership: %w", err)
	}

	return &membership, nil
}

// Delete removes a membership. The entries foreign key cascades, so the
// member's check-in history goes with it.
func (r *MembershipRepository) Delete(ctx context.Context, q Querier, id uuid.UUID) error {
	cmdTag, err := q.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting membership: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}

	return nil
}

// UpdateStreak writes the derived streak state after a check-in
func (r *MembershipRepository) UpdateStreak(ctx context.Context, q Querier, id uuid.UUID, streak int, lastCheckin *time.Time) error {
	cmdTag, err := q.Exec(ctx, `
		UPDATE memberships SET streak = $1, last_checkin = $2 WHERE id = $3`,
		streak, lastCheckin, id)
	if err != nil {
		return fmt.Errorf("error updating membership streak: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}

	return nil
}

// CountByChallenge returns the number of members in a challenge
func (r *MembershipRepository) CountByChallenge(ctx context.Context, challengeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM memberships WHERE challenge_id = $1`,
		challengeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting memberships: %w", err)
	}
	return count, nil
}

// ListStandings loads the unranked leaderboard input for a challenge: one
// row per member with profile data, stored streak and ledger entry count.
// Ordering is left to the ranking pass.
func (r *MembershipRepository) ListStandings(ctx context.Context, challengeID uuid.UUID) ([]engine.Standing, error) {
	query := `
		SELECT m.id, m.user_id, u.display_name, u.avatar_url, m.streak,
			COUNT(e.id) AS entry_count, m.joined_at
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN entries e ON e.membership_id = m.id
		WHERE m.challenge_id = $1
		GROUP BY m.id, m.user_id, u.display_name, u.avatar_url, m.streak, m.joined_at
	`

	rows, err := r.db.Query(ctx, query, challengeID)
	if err != nil {
		return nil, fmt.Errorf("error loading standings: %w", err)
	}
	defer rows.Close()

	var standings []engine.Standing
	for rows.Next() {
		var s engine.Standing
		if err := rows.Scan(
			&s.MembershipID,
			&s.UserID,
			&s.DisplayName,
			&s.AvatarURL,
			&s.Streak,
			&s.EntryCount,
			&s.JoinedAt,
		); err != nil {
			return nil, err
		}
		standings = append(standings, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return standings, nil
}
