package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
)

// CheckinController handles the check-in flow
type CheckinController struct {
	checkinService services.CheckinService
}

// NewCheckinController creates a new CheckinController
func NewCheckinController(checkinService services.CheckinService) *CheckinController {
	return &CheckinController{checkinService: checkinService}
}

// SubmitCheckin handles recording a check-in. Accepts a multipart form with
// optional entryDate, valueNumeric, note and photo parts.
func (c *CheckinController) SubmitCheckin(ctx *gin.Context) {
	identity, ok := middleware.IdentityFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTokenMissing, "Authentication required"),
		))
		return
	}

	var req dto.CheckinRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		))
		return
	}

	// The photo part is optional; any error other than "missing" is left to
	// the storage layer's own validation.
	photo, err := ctx.FormFile("photo")
	if err != nil && err != http.ErrMissingFile {
		photo = nil
	}

	checkin, err := c.checkinService.SubmitCheckin(ctx, identity, ctx.Param("slug"), &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(checkin, "Check-in recorded"))
}
