package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
)

// AuthorizationService answers the engine's access questions: membership
// gates writes inside a challenge, and comment moderation belongs to the
// author or the challenge owner. Identity itself is established upstream by
// the token verifier; this service only decides what a known identity may do.
type AuthorizationService struct {
	membershipRepo *repositories.MembershipRepository
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(membershipRepo *repositories.MembershipRepository) *AuthorizationService {
	return &AuthorizationService{membershipRepo: membershipRepo}
}

// ValidateMember checks that userID is enrolled in the challenge
func (s *AuthorizationService) ValidateMember(ctx context.Context, challengeID uuid.UUID, userID string) error {
	if _, err := s.membershipRepo.GetByChallengeAndUser(ctx, challengeID, userID); err != nil {
		return apperrors.ErrNotAMember
	}
	return nil
}

// ValidateCommentModerator checks that userID may delete the comment: the
// author always can, and so can the owner of the challenge it lives in.
func (s *AuthorizationService) ValidateCommentModerator(comment *models.Comment, challenge *models.Challenge, userID string) error {
	if comment.UserID == userID || challenge.OwnerID == userID {
		return nil
	}
	return apperrors.NewForbiddenError("only the author or the challenge owner can delete a comment")
}
