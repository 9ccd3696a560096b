package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
	"github.com/huddleapp/huddle/internal/pkg/auth"
	"github.com/huddleapp/huddle/internal/pkg/validation"
	"github.com/huddleapp/huddle/internal/pkg/websocket"
)

// StreamController upgrades clients onto a challenge's live snapshot stream
type StreamController struct {
	hub              *websocket.Hub
	challengeService services.ChallengeService
	verifier         *auth.Verifier
	logger           zerolog.Logger
}

// NewStreamController creates a new StreamController
func NewStreamController(hub *websocket.Hub, challengeService services.ChallengeService, verifier *auth.Verifier, logger zerolog.Logger) *StreamController {
	return &StreamController{
		hub:              hub,
		challengeService: challengeService,
		verifier:         verifier,
		logger:           logger,
	}
}

// StreamChallenge handles the websocket upgrade for a challenge's live
// stream. The stream is read-only, so authentication is optional: browsers
// cannot set headers on websocket requests, hence the token query parameter.
func (c *StreamController) StreamChallenge(ctx *gin.Context) {
	slug := ctx.Param("slug")
	if !validation.IsSlug(slug) {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid challenge slug"),
		))
		return
	}

	userID := ""
	if token := ctx.Query("token"); token != "" {
		if identity, err := c.verifier.Verify(token); err == nil {
			userID = identity.UserID
		}
	} else if identity, ok := middleware.IdentityFromContext(ctx); ok {
		userID = identity.UserID
	}

	challenge, err := c.challengeService.GetChallengeBySlug(ctx, slug, nil)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := websocket.ServeWS(c.hub, ctx.Writer, ctx.Request, challenge.ID, userID, c.logger); err != nil {
		// Upgrade failures already wrote a response.
		return
	}
}
