package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
	"github.com/huddleapp/huddle/internal/pkg/helpers"
)

// ChallengeController handles challenge related operations
type ChallengeController struct {
	challengeService services.ChallengeService
}

// NewChallengeController creates a new ChallengeController
func NewChallengeController(challengeService services.ChallengeService) *ChallengeController {
	return &ChallengeController{challengeService: challengeService}
}

// CreateChallenge handles challenge creation. The creator becomes the first
// member.
func (c *ChallengeController) CreateChallenge(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	var req dto.CreateChallengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		))
		return
	}

	challenge, err := c.challengeService.CreateChallenge(ctx, identity, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(challenge, "Challenge created"))
}

// ListChallenges handles the public challenge directory
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	var category, search *string
	if value := ctx.Query("category"); value != "" {
		category = &value
	}
	if value := ctx.Query("search"); value != "" {
		search = &value
	}

	response, err := c.challengeService.ListPublicChallenges(ctx, category, search, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(response, ""))
}

// GetChallenge handles retrieving a challenge by slug. Authentication is
// optional; with a token the caller's membership is included.
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	identity, _ := middleware.IdentityFromContext(ctx)

	challenge, err := c.challengeService.GetChallengeBySlug(ctx, ctx.Param("slug"), identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(challenge, ""))
}

// ListMyChallenges handles retrieving the caller's enrolled challenges
func (c *ChallengeController) ListMyChallenges(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	challenges, err := c.challengeService.ListJoinedChallenges(ctx, identity)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(challenges, ""))
}
