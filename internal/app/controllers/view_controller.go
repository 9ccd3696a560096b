package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/services"
	"github.com/huddleapp/huddle/internal/middleware"
)

// ViewController serves the derived read views: leaderboard and feed
type ViewController struct {
	leaderboardService services.LeaderboardService
	feedService        services.FeedService
}

// NewViewController creates a new ViewController
func NewViewController(leaderboardService services.LeaderboardService, feedService services.FeedService) *ViewController {
	return &ViewController{
		leaderboardService: leaderboardService,
		feedService:        feedService,
	}
}

// GetLeaderboard handles retrieving a challenge's ranking snapshot
func (c *ViewController) GetLeaderboard(ctx *gin.Context) {
	leaderboard, err := c.leaderboardService.GetLeaderboard(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(leaderboard, ""))
}

// GetFeed handles retrieving a challenge's recent activity
func (c *ViewController) GetFeed(ctx *gin.Context) {
	feed, err := c.feedService.GetFeed(ctx, ctx.Param("slug"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(feed, ""))
}
