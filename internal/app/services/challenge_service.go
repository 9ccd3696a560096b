package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/db"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/helpers"
)

// ChallengeService defines the interface for challenge operations
type ChallengeService interface {
	CreateChallenge(ctx context.Context, identity *models.Identity, req *dto.CreateChallengeRequest) (*dto.ChallengeResponse, error)
	GetChallengeBySlug(ctx context.Context, slug string, identity *models.Identity) (*dto.ChallengeDetailResponse, error)
	ListPublicChallenges(ctx context.Context, category, search *string, page, pageSize int) (*dto.PaginatedResponse, error)
	ListJoinedChallenges(ctx context.Context, identity *models.Identity) ([]dto.ChallengeResponse, error)
}

type challengeServiceImpl struct {
	challengeRepo  *repositories.ChallengeRepository
	membershipRepo *repositories.MembershipRepository
	userRepo       *repositories.UserRepository
	database       *db.PostgresDB
	logger         zerolog.Logger
}

// NewChallengeService creates a new ChallengeService
func NewChallengeService(
	challengeRepo *repositories.ChallengeRepository,
	membershipRepo *repositories.MembershipRepository,
	userRepo *repositories.UserRepository,
	database *db.PostgresDB,
	logger zerolog.Logger,
) ChallengeService {
	return &challengeServiceImpl{
		challengeRepo:  challengeRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		database:       database,
		logger:         logger,
	}
}

// CreateChallenge creates a challenge and enrolls its creator as the first
// member, both in one transaction.
func (s *challengeServiceImpl) CreateChallenge(ctx context.Context, identity *models.Identity, req *dto.CreateChallengeRequest) (*dto.ChallengeResponse, error) {
	challenge, err := challengeFromRequest(identity, req)
	if err != nil {
		return nil, err
	}

	if err := s.upsertIdentity(ctx, identity); err != nil {
		return nil, err
	}

	membership := &models.Membership{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		UserID:      identity.UserID,
	}

	err = s.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.challengeRepo.Create(ctx, tx, challenge); err != nil {
			return err
		}
		return s.membershipRepo.Create(ctx, tx, membership)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSlugAlreadyExists) {
			// The random slug suffix makes this a freak collision; surface it
			// as a retryable conflict rather than minting a second suffix here.
			return nil, apperrors.NewConflictError("challenge slug already exists")
		}
		s.logger.Error().Err(err).Str("title", req.Title).Msg("Failed to create challenge")
		return nil, err
	}

	s.logger.Info().
		Str("challengeId", challenge.ID.String()).
		Str("slug", challenge.Slug).
		Str("ownerId", identity.UserID).
		Msg("Challenge created")

	resp := toChallengeResponse(challenge, 1)
	resp.Owner = &dto.MemberIdentity{
		UserID:      identity.UserID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}
	return &resp, nil
}

// GetChallengeBySlug retrieves a challenge with member count, owner profile
// and, when the caller is authenticated and enrolled, their membership.
func (s *challengeServiceImpl) GetChallengeBySlug(ctx context.Context, slug string, identity *models.Identity) (*dto.ChallengeDetailResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	memberCount, err := s.membershipRepo.CountByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ChallengeDetailResponse{
		ChallengeResponse: toChallengeResponse(challenge, int(memberCount)),
	}

	if owner, err := s.userRepo.GetByID(ctx, challenge.OwnerID); err == nil {
		detail.Owner = &dto.MemberIdentity{
			UserID:      owner.ID,
			DisplayName: owner.DisplayName,
			AvatarURL:   owner.AvatarURL,
		}
	}

	if identity != nil {
		membership, err := s.membershipRepo.GetByChallengeAndUser(ctx, challenge.ID, identity.UserID)
		if err == nil {
			detail.Membership = toMembershipResponse(membership, nil)
		} else if !errors.Is(err, apperrors.ErrMembershipNotFound) {
			return nil, err
		}
	}

	return detail, nil
}

// ListPublicChallenges retrieves the public challenge directory page
func (s *challengeServiceImpl) ListPublicChallenges(ctx context.Context, category, search *string, page, pageSize int) (*dto.PaginatedResponse, error) {
	challenges, total, err := s.challengeRepo.ListPublic(ctx, category, search, page, pageSize)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list public challenges")
		return nil, err
	}

	responses := make([]dto.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		memberCount, err := s.membershipRepo.CountByChallenge(ctx, challenge.ID)
		if err != nil {
			memberCount = 0
		}
		responses = append(responses, toChallengeResponse(challenge, int(memberCount)))
	}

	return &dto.PaginatedResponse{
		Items:      responses,
		Pagination: helpers.NewPaginationInfo(total, page, pageSize),
	}, nil
}

// ListJoinedChallenges retrieves the caller's enrolled challenges
func (s *challengeServiceImpl) ListJoinedChallenges(ctx context.Context, identity *models.Identity) ([]dto.ChallengeResponse, error) {
	challenges, err := s.challengeRepo.ListJoinedByUser(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		memberCount, err := s.membershipRepo.CountByChallenge(ctx, challenge.ID)
		if err != nil {
			memberCount = 0
		}
		responses = append(responses, toChallengeResponse(challenge, int(memberCount)))
	}

	return responses, nil
}

func (s *challengeServiceImpl) upsertIdentity(ctx context.Context, identity *models.Identity) error {
	user := &models.User{
		ID:          identity.UserID,
		DisplayName: identity.DisplayName,
		AvatarURL:   identity.AvatarURL,
	}
	return s.userRepo.Upsert(ctx, user)
}

func challengeFromRequest(identity *models.Identity, req *dto.CreateChallengeRequest) (*models.Challenge, error) {
	startDate, err := helpers.ParseDate(req.StartDate)
	if err != nil {
		return nil, apperrors.NewValidationError("startDate must be a YYYY-MM-DD date")
	}
	endDate, err := helpers.ParseDate(req.EndDate)
	if err != nil {
		return nil, apperrors.NewValidationError("endDate must be a YYYY-MM-DD date")
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewValidationError("endDate must not be before startDate")
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	return &models.Challenge{
		ID:          uuid.New(),
		Slug:        helpers.GenerateSlug(req.Title),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Frequency:   engine.Frequency(req.Frequency),
		StartDate:   startDate,
		EndDate:     endDate,
		GoalNumeric: req.GoalNumeric,
		UnitLabel:   req.UnitLabel,
		IsPublic:    isPublic,
		OwnerID:     identity.UserID,
	}, nil
}

func toChallengeResponse(challenge *models.Challenge, memberCount int) dto.ChallengeResponse {
	return dto.ChallengeResponse{
		ID:          challenge.ID,
		Slug:        challenge.Slug,
		Title:       challenge.Title,
		Description: challenge.Description,
		Category:    challenge.Category,
		Frequency:   string(challenge.Frequency),
		StartDate:   helpers.FormatDate(challenge.StartDate),
		EndDate:     helpers.FormatDate(challenge.EndDate),
		GoalNumeric: challenge.GoalNumeric,
		UnitLabel:   challenge.UnitLabel,
		IsPublic:    challenge.IsPublic,
		MemberCount: memberCount,
		CreatedAt:   challenge.CreatedAt,
	}
}

func toMembershipResponse(membership *models.Membership, member *dto.MemberIdentity) *dto.MembershipResponse {
	resp := &dto.MembershipResponse{
		ID:          membership.ID,
		ChallengeID: membership.ChallengeID,
		Streak:      membership.Streak,
		JoinedAt:    membership.JoinedAt,
		Member:      member,
	}
	if membership.LastCheckin != nil {
		formatted := helpers.FormatDate(*membership.LastCheckin)
		resp.LastCheckin = &formatted
	}
	return resp
}
