package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/db"
)

// MembershipService defines the interface for enrollment operations
type MembershipService interface {
	JoinChallenge(ctx context.Context, identity *models.Identity, slug string) (*dto.MembershipResponse, error)
	LeaveChallenge(ctx context.Context, identity *models.Identity, slug string) error
}

type membershipServiceImpl struct {
	challengeRepo  *repositories.ChallengeRepository
	membershipRepo *repositories.MembershipRepository
	userRepo       *repositories.UserRepository
	database       *db.PostgresDB
	logger         zerolog.Logger
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(
	challengeRepo *repositories.ChallengeRepository,
	membershipRepo *repositories.MembershipRepository,
	userRepo *repositories.UserRepository,
	database *db.PostgresDB,
	logger zerolog.Logger,
) MembershipService {
	return &membershipServiceImpl{
		challengeRepo:  challengeRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		database:       database,
		logger:         logger,
	}
}

// JoinChallenge enrolls the caller in a challenge. Joining twice surfaces
// ErrAlreadyJoined from the membership uniqueness constraint.
func (s *membershipServiceImpl) JoinChallenge(ctx context.Context, identity *models.Identity, slug string) (*dto.MembershipResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:          identity.UserID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}

	membership := &models.Membership{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		UserID:      identity.UserID,
	}

	if err := s.membershipRepo.Create(ctx, s.database.Pool, membership); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("challengeId", challenge.ID.String()).
		Str("userId", identity.UserID).
		Msg("Member joined challenge")

	return toMembershipResponse(membership, &dto.MemberIdentity{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}), nil
}

// LeaveChallenge removes the caller's membership. The member's check-in
// history cascades away with it, so a later re-join starts from zero.
func (s *membershipServiceImpl) LeaveChallenge(ctx context.Context, identity *models.Identity, slug string) error {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	membership, err := s.membershipRepo.GetByChallengeAndUser(ctx, challenge.ID, identity.UserID)
	if err != nil {
		return err
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.membershipRepo.Delete(ctx, tx, membership.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().
		Str("challengeId", challenge.ID.String()).
		Str("userId", identity.UserID).
		Msg("Member left challenge")

	return nil
}
