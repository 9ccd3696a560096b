package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/auth"
	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/validation"
)

// CommentService defines the interface for challenge discussions
type CommentService interface {
	PostComment(ctx context.Context, identity *models.Identity, slug string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, slug string) ([]dto.CommentResponse, error)
	DeleteComment(ctx context.Context, identity *models.Identity, slug string, commentID uuid.UUID) error
}

type commentServiceImpl struct {
	challengeRepo *repositories.ChallengeRepository
	commentRepo   *repositories.CommentRepository
	authzService  *auth.AuthorizationService
	logger        zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(
	challengeRepo *repositories.ChallengeRepository,
	commentRepo *repositories.CommentRepository,
	authzService *auth.AuthorizationService,
	logger zerolog.Logger,
) CommentService {
	return &commentServiceImpl{
		challengeRepo: challengeRepo,
		commentRepo:   commentRepo,
		authzService:  authzService,
		logger:        logger,
	}
}

// PostComment adds a comment to a challenge's discussion. Only members can
// post.
func (s *commentServiceImpl) PostComment(ctx context.Context, identity *models.Identity, slug string, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.authzService.ValidateMember(ctx, challenge.ID, identity.UserID); err != nil {
		return nil, err
	}

	body, err := validation.ValidateCommentBody(req.Body)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		UserID:      identity.UserID,
		Body:        body,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return &dto.CommentResponse{
		ID:          comment.ID,
		ChallengeID: comment.ChallengeID,
		Body:        comment.Body,
		Author: &dto.MemberIdentity{
			UserID:      identity.UserID,
			DisplayName: identity.DisplayName,
			AvatarURL:   identity.AvatarURL,
		},
		CreatedAt: comment.CreatedAt,
	}, nil
}

// ListComments retrieves a challenge's discussion thread, newest first
func (s *commentServiceImpl) ListComments(ctx context.Context, slug string) ([]dto.CommentResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByChallenge(ctx, challenge.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, len(comments))
	for i, comment := range comments {
		var author *dto.MemberIdentity
		if comment.Author != nil {
			author = &dto.MemberIdentity{
				UserID:      comment.Author.ID,
				DisplayName: comment.Author.DisplayName,
				AvatarURL:   comment.Author.AvatarURL,
			}
		}
		responses[i] = dto.CommentResponse{
			ID:          comment.ID,
			ChallengeID: comment.ChallengeID,
			Body:        comment.Body,
			Author:      author,
			CreatedAt:   comment.CreatedAt,
		}
	}

	return responses, nil
}

// DeleteComment removes a comment, for the author or the challenge owner
func (s *commentServiceImpl) DeleteComment(ctx context.Context, identity *models.Identity, slug string, commentID uuid.UUID) error {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.ChallengeID != challenge.ID {
		return apperrors.ErrCommentNotFound
	}

	if err := s.authzService.ValidateCommentModerator(comment, challenge, identity.UserID); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, commentID)
}
