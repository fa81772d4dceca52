package api

import (
	"errors"
	"net/http"

	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type leaderboardRoutes struct {
	ls service.LeaderboardServiceI
}

func NewLeaderboardRoutes(handler *gin.RouterGroup, ls service.LeaderboardServiceI, a *auth.JWTAuth) {
	r := &leaderboardRoutes{ls: ls}

	h := handler.Group("/leaderboard")
	h.Use(a.AuthMiddleware())

	h.GET("", r.GetLeaderboard)
}

type LeaderboardEntryResponse struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Earnings string `json:"earnings"`
}

func newLeaderboardResponse(entries []model.LeaderboardEntry) []LeaderboardEntryResponse {
	out := make([]LeaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntryResponse{
			Rank:     e.Rank,
			Name:     e.Name,
			Earnings: e.Earnings.StringFixed(2),
		})
	}
	return out
}

func (r *leaderboardRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	board, err := r.ls.Board(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Error("failed to build leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leaderboard": newLeaderboardResponse(board)})
}
