package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
)

// HandleAPIError translates the error taxonomy into HTTP responses.
// Conflict and not-found reflect genuine state and are reported verbatim;
// transient collaborator failures come back as 502 with no local retry.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest, apperrors.ErrChallengeNotActive):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()),
		))

	case apperrors.Is(err, apperrors.ErrConflict, apperrors.ErrAlreadyJoined, apperrors.ErrAlreadyCheckedIn, apperrors.ErrSlugAlreadyExists):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, err.Error()),
		))

	case apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrChallengeNotFound, apperrors.ErrMembershipNotFound, apperrors.ErrEntryNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error()),
		))

	case apperrors.Is(err, apperrors.ErrPermissionDenied, apperrors.ErrNotAMember):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, err.Error()),
		))

	case errors.Is(err, apperrors.ErrTransientIO):
		c.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeTransientIO, "Upstream call failed, retry at your discretion"),
		))

	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
		))
	}
}
