package services

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/db"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/filestorage"
	"github.com/huddleapp/huddle/internal/pkg/helpers"
	"github.com/huddleapp/huddle/internal/pkg/validation"
)

// The check-in flow depends on narrow store interfaces rather than the
// concrete repositories so the flow's ordering rules (authorize before
// validate, duplicate check before any write, streak update only after a
// successful insert) can be exercised without a database.

type challengeGetter interface {
	GetBySlug(ctx context.Context, slug string) (*models.Challenge, error)
}

type membershipStore interface {
	GetByChallengeAndUser(ctx context.Context, challengeID uuid.UUID, userID string) (*models.Membership, error)
	UpdateStreak(ctx context.Context, q repositories.Querier, id uuid.UUID, streak int, lastCheckin *time.Time) error
}

type entryStore interface {
	Insert(ctx context.Context, q repositories.Querier, entry *models.Entry) error
	GetByMembershipAndDate(ctx context.Context, membershipID uuid.UUID, day time.Time) (*models.Entry, error)
}

type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// CheckinService defines the interface for the check-in flow
type CheckinService interface {
	SubmitCheckin(ctx context.Context, identity *models.Identity, slug string, req *dto.CheckinRequest, photo *multipart.FileHeader) (*dto.CheckinResponse, error)
}

type checkinServiceImpl struct {
	challenges  challengeGetter
	memberships membershipStore
	entries     entryStore
	photos      filestorage.PhotoStorage
	tx          txRunner
	logger      zerolog.Logger
}

// NewCheckinService creates a new CheckinService
func NewCheckinService(
	challenges challengeGetter,
	memberships membershipStore,
	entries entryStore,
	photos filestorage.PhotoStorage,
	tx txRunner,
	logger zerolog.Logger,
) CheckinService {
	return &checkinServiceImpl{
		challenges:  challenges,
		memberships: memberships,
		entries:     entries,
		photos:      photos,
		tx:          tx,
		logger:      logger,
	}
}

// SubmitCheckin records a check-in for the caller's membership in the
// challenge named by slug.
//
// The flow: resolve the membership (non-members are rejected before any
// other validation), normalize and window-check the entry date, reject a
// duplicate day up front, store the photo if any, then append the entry and
// advance the streak in one transaction. The ledger's per-day uniqueness
// constraint backstops the duplicate pre-check under concurrency.
func (s *checkinServiceImpl) SubmitCheckin(ctx context.Context, identity *models.Identity, slug string, req *dto.CheckinRequest, photo *multipart.FileHeader) (*dto.CheckinResponse, error) {
	challenge, err := s.challenges.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	membership, err := s.memberships.GetByChallengeAndUser(ctx, challenge.ID, identity.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrMembershipNotFound) {
			return nil, apperrors.ErrNotAMember
		}
		return nil, err
	}

	entryDate, err := resolveEntryDate(req.EntryDate)
	if err != nil {
		return nil, err
	}
	if !challenge.ContainsDate(entryDate) {
		return nil, apperrors.ErrChallengeNotActive
	}
	if err := validation.ValidateNote(req.Note); err != nil {
		return nil, err
	}
	if err := validation.ValidateCheckinValue(req.ValueNumeric); err != nil {
		return nil, err
	}

	if _, err := s.entries.GetByMembershipAndDate(ctx, membership.ID, entryDate); err == nil {
		return nil, apperrors.ErrAlreadyCheckedIn
	} else if !errors.Is(err, apperrors.ErrEntryNotFound) {
		return nil, err
	}

	var photoURL *string
	var photoPath string
	if photo != nil {
		uploaded, err := s.photos.Upload(photo, identity.UserID)
		if err != nil {
			return nil, err
		}
		photoURL = &uploaded.URL
		photoPath = uploaded.Path
	}

	entry := &models.Entry{
		ID:           uuid.New(),
		MembershipID: membership.ID,
		EntryDate:    entryDate,
		ValueNumeric: req.ValueNumeric,
		Note:         req.Note,
		PhotoURL:     photoURL,
	}

	state := engine.StreakState{
		Streak:      membership.Streak,
		LastCheckin: membership.LastCheckin,
	}
	next := state.Advance(entryDate, challenge.Frequency)

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.entries.Insert(ctx, tx, entry); err != nil {
			return err
		}
		return s.memberships.UpdateStreak(ctx, tx, membership.ID, next.Streak, next.LastCheckin)
	})
	if err != nil {
		s.discardPhoto(photoPath)
		return nil, err
	}

	s.logger.Info().
		Str("membershipId", membership.ID.String()).
		Str("entryDate", helpers.FormatDate(entryDate)).
		Int("streak", next.Streak).
		Msg("Check-in recorded")

	return &dto.CheckinResponse{
		Entry:       toEntryResponse(entry, nil),
		Streak:      next.Streak,
		LastCheckin: helpers.FormatDate(*next.LastCheckin),
	}, nil
}

// discardPhoto best-effort removes a photo stored for an entry that never
// made it into the ledger. A failure here only orphans a file.
func (s *checkinServiceImpl) discardPhoto(path string) {
	if path == "" {
		return
	}
	if err := s.photos.Delete(path); err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove orphaned check-in photo")
	}
}

func resolveEntryDate(raw string) (time.Time, error) {
	if raw == "" {
		return helpers.Today(), nil
	}
	day, err := helpers.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("entryDate must be a YYYY-MM-DD date")
	}
	return day, nil
}

func toEntryResponse(entry *models.Entry, member *dto.MemberIdentity) dto.EntryResponse {
	return dto.EntryResponse{
		ID:           entry.ID,
		MembershipID: entry.MembershipID,
		EntryDate:    helpers.FormatDate(entry.EntryDate),
		ValueNumeric: entry.ValueNumeric,
		Note:         entry.Note,
		PhotoURL:     entry.PhotoURL,
		CreatedAt:    entry.CreatedAt,
		Member:       member,
	}
}
