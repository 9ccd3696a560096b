package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the engine cares about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Constraint names from the migrations. Uniqueness on these two constraints
// is the authoritative concurrency-control boundary: a violation means a
// concurrent writer won the race, not that something is broken.
const (
	ConstraintMembershipPerUser = "uq_memberships_challenge_user"
	ConstraintEntryPerDay       = "uq_entries_membership_day"
	ConstraintChallengeSlug     = "uq_challenges_slug"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique
// violation for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key
// violation, e.g. an entry referencing a membership that was just removed.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}
