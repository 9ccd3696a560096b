package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/controllers"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	challengeController *controllers.ChallengeController,
	membershipController *controllers.MembershipController,
	checkinController *controllers.CheckinController,
	viewController *controllers.ViewController,
	commentController *controllers.CommentController,
	streamController *controllers.StreamController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Challenge routes ---
	challenges := v1.Group("/challenges")
	{
		// Public reads. OptionalIdentity personalizes the detail view with
		// the caller's membership when a token is present.
		challenges.GET("", challengeController.ListChallenges)
		challenges.GET("/:slug", authMiddleware.OptionalIdentity(), challengeController.GetChallenge)
		challenges.GET("/:slug/leaderboard", viewController.GetLeaderboard)
		challenges.GET("/:slug/feed", viewController.GetFeed)
		challenges.GET("/:slug/comments", commentController.ListComments)

		// Writes require a verified identity.
		challengesProtected := challenges.Group("")
		challengesProtected.Use(authMiddleware.RequireIdentity())
		{
			challengesProtected.POST("", challengeController.CreateChallenge)
			challengesProtected.POST("/:slug/members", membershipController.JoinChallenge)
			challengesProtected.DELETE("/:slug/members", membershipController.LeaveChallenge)
			challengesProtected.POST("/:slug/checkins", checkinController.SubmitCheckin)
			challengesProtected.POST("/:slug/comments", commentController.PostComment)
			challengesProtected.DELETE("/:slug/comments/:commentId", commentController.DeleteComment)
		}
	}

	// The caller's enrolled challenges
	me := v1.Group("/me")
	me.Use(authMiddleware.RequireIdentity())
	{
		me.GET("/challenges", challengeController.ListMyChallenges)
	}

	// Live snapshot streams (read-only, token optional via query parameter)
	v1.GET("/ws/challenges/:slug", streamController.StreamChallenge)

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewSuccessResponse(gin.H{"status": "ok"}, ""))
	})
}
