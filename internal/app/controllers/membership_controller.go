package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
)

// MembershipController handles enrollment operations
type MembershipController struct {
	membershipService services.MembershipService
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(membershipService services.MembershipService) *MembershipController {
	return &MembershipController{membershipService: membershipService}
}

// JoinChallenge handles joining a challenge
func (c *MembershipController) JoinChallenge(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	membership, err := c.membershipService.JoinChallenge(ctx, identity, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(membership, "Joined challenge"))
}

// LeaveChallenge handles leaving a challenge. The member's check-in history
// is removed with the membership.
func (c *MembershipController) LeaveChallenge(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	if err := c.membershipService.LeaveChallenge(ctx, identity, ctx.Param("slug")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Left challenge"))
}
