package api

import (
	"errors"
	"net/http"

	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type miningRoutes struct {
	ms   service.MiningServiceI
	feed *BalanceFeed
}

func NewMiningRoutes(handler *gin.RouterGroup, ms service.MiningServiceI, feed *BalanceFeed, a *auth.JWTAuth) {
	r := &miningRoutes{ms: ms, feed: feed}

	h := handler.Group("/mine")
	h.Use(a.AuthMiddleware())

	h.POST("", r.Mine)
}

type MineResponse struct {
	Earning         string `json:"earning"`
	Balance         string `json:"balance"`
	ClicksRemaining int    `json:"clicks_remaining"`
}

func (r *miningRoutes) Mine(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	res, err := r.ms.Mine(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExhausted):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "daily click quota exhausted"})
		case errors.Is(err, service.ErrTooFast):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "clicking too fast"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			log.Error("failed to process mining click", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	if r.feed != nil {
		r.feed.PushBalance(userID, res.Balance, res.Earning, res.ClicksRemaining)
	}

	c.JSON(http.StatusOK, MineResponse{
		Earning:         res.Earning.StringFixed(2),
		Balance:         res.Balance.StringFixed(2),
		ClicksRemaining: res.ClicksRemaining,
	})
}
