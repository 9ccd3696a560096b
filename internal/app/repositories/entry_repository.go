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
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/dberrors"
)

// EntryRepository handles database operations for the check-in ledger
type EntryRepository struct {
	db *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{db: db}
}

// Insert appends a check-in to the ledger. The unique
// (membership_id, entry_date) constraint is the authoritative once-per-day
// guard; a violation surfaces as ErrAlreadyCheckedIn regardless of what any
// pre-check concluded.
func (r *EntryRepository) Insert(ctx context.Context, q Querier, entry *models.Entry) error {
	query := `
		INSERT INTO entries (id, membership_id, entry_date, value_numeric, note, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := q.QueryRow(ctx, query,
		entry.ID,
		entry.MembershipID,
		entry.EntryDate,
		entry.ValueNumeric,
		entry.Note,
		entry.PhotoURL,
	).Scan(&entry.CreatedAt)

	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.ConstraintEntryPerDay) {
			return apperrors.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("error inserting entry: %w", err)
	}

	return nil
}

// GetByMembershipAndDate retrieves the entry a membership recorded on a day
func (r *EntryRepository) GetByMembershipAndDate(ctx context.Context, membershipID uuid.UUID, day time.Time) (*models.Entry, error) {
	query := `
		SELECT id, membership_id, entry_date, value_numeric, note, photo_url, created_at
		FROM entries
		WHERE membership_id = $1 AND entry_date = $2
	`

	var entry models.Entry
	err := r.db.QueryRow(ctx, query, membershipID, day).Scan(
		&entry.ID,
		&entry.MembershipID,
		&entry.EntryDate,
		&entry.ValueNumeric,
		&entry.Note,
		&entry.PhotoURL,
		&entry.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEntryNotFound
		}
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	}

	return &entry, nil
}

// ListDatesByMembership returns every recorded entry date for a membership
// in ascending order, for replaying streak state from the ledger.
func (r *EntryRepository) ListDatesByMembership(ctx context.Context, membershipID uuid.UUID) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `
		SELECT entry_date FROM entries
		WHERE membership_id = $1
		ORDER BY entry_date`,
		membershipID)
	if err != nil {
		return nil, fmt.Errorf("error listing entry dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}

// ListFeed retrieves the newest check-ins across a challenge with author
// profiles attached, newest first, capped at limit.
func (r *EntryRepository) ListFeed(ctx context.Context, challengeID uuid.UUID, limit int) ([]*models.Entry, error) {
	query := `
		SELECT e.id, e.membership_id, e.entry_date, e.value_numeric, e.note,
			e.photo_url, e.created_at,
			u.id, u.display_name, u.avatar_url, u.created_at
		FROM entries e
		JOIN memberships m ON m.id = e.membership_id
		JOIN users u ON u.id = m.user_id
		WHERE m.challenge_id = $1
		ORDER BY e.created_at DESC, e.id
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, challengeID, limit)
	if err != nil {
		return nil, fmt.Errorf("error loading feed: %w", err)
	}
	defer rows.Close()

	var entries []*models.Entry
	for rows.Next() {
		var entry models.Entry
		var member models.User
		if err := rows.Scan(
			&entry.ID,
			&entry.MembershipID,
			&entry.EntryDate,
			&entry.ValueNumeric,
			&entry.Note,
			&entry.PhotoURL,
			&entry.CreatedAt,
			&member.ID,
			&member.DisplayName,
			&member.AvatarURL,
			&member.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Member = &member
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
