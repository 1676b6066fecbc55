// Package leaderboardapi serves the public stage ranking.
package leaderboardapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/beka-birhanu/torchmaze/service/i"
	"github.com/gin-gonic/gin"
)

// LeaderboardController serves the stage ranking.
type LeaderboardController struct {
	leaderboard i.Leaderboard
	logger      i.Logger
}

func NewLeaderboardController(lb i.Leaderboard, logger i.Logger) *LeaderboardController {
	return &LeaderboardController{
		leaderboard: lb,
		logger:      logger,
	}
}

// RegisterPublic registers public routes.
func (lc *LeaderboardController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/leaderboard", lc.top)
}

// RegisterProtected registers protected routes.
func (lc *LeaderboardController) RegisterProtected(route *gin.RouterGroup) {}

func (lc *LeaderboardController) top(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	entries, err := lc.leaderboard.Top(ctx, limit)
	if err != nil {
		lc.logger.Error(fmt.Sprintf("reading leaderboard: %s", err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while reading leaderboard"})
		return
	}
	ctx.JSON(http.StatusOK, entries)
}
