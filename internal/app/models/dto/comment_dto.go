package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateCommentRequest posts a discussion comment on a challenge.
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,min=1,max=500"`
}

// CommentResponse is one discussion comment.
type CommentResponse struct {
	ID          uuid.UUID       `json:"id"`
	ChallengeID uuid.UUID       `json:"challengeId"`
	Body        string          `json:"body"`
	Author      *MemberIdentity `json:"author,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}
