package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
)

// CommentController handles challenge discussion operations
type CommentController struct {
	commentService services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// PostComment handles posting a comment to a challenge's discussion
func (c *CommentController) PostComment(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		))
		return
	}

	comment, err := c.commentService.PostComment(ctx, identity, ctx.Param("slug"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(comment, "Comment posted"))
}

// ListComments handles retrieving a challenge's discussion thread
func (c *CommentController) ListComments(ctx *gin.Context) {
	comments, err := c.commentService.ListComments(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(comments, ""))
}

// DeleteComment handles removing a comment
func (c *CommentController) DeleteComment(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	commentID, err := uuid.Parse(ctx.Param("commentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Comment ID must be a valid UUID"),
		))
		return
	}

	if err := c.commentService.DeleteComment(ctx, identity, ctx.Param("slug"), commentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Comment deleted"))
}
