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

type skinRoutes struct {
	ss service.SkinServiceI
}

func NewSkinRoutes(handler *gin.RouterGroup, ss service.SkinServiceI, a *auth.JWTAuth) {
	r := &skinRoutes{ss: ss}

	handler.GET("/skins", r.ListSkins)

	h := handler.Group("/me/skins")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.ListOwnedSkins)
		h.POST("", r.PurchaseSkin)
		h.POST("/select", r.SelectSkin)
	}
}

type SkinResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Rarity      string  `json:"rarity"`
	MiningBonus string  `json:"mining_bonus"`
	ClickBonus  int     `json:"click_bonus"`
	PremiumOnly bool    `json:"premium_only"`
	Price       *string `json:"price,omitempty"`
}

type PurchaseSkinRequest struct {
	SkinID string `json:"skin_id"`
}

type SelectSkinRequest struct {
	SkinID string `json:"skin_id"`
}

func newSkinResponse(s *model.Skin) SkinResponse {
	out := SkinResponse{
		ID:          s.SkinID,
		Name:        s.Name,
		Description: s.Description,
		Rarity:      string(s.Rarity),
		MiningBonus: s.MiningBonus.String(),
		ClickBonus:  s.ClickBonus,
		PremiumOnly: s.PremiumOnly,
	}
	if s.Price != nil {
		p := s.Price.StringFixed(2)
		out.Price = &p
	}
	return out
}

func newSkinListResponse(skins []*model.Skin) []SkinResponse {
	out := make([]SkinResponse, 0, len(skins))
	for _, s := range skins {
		out = append(out, newSkinResponse(s))
	}
	return out
}

func (r *skinRoutes) ListSkins(c *gin.Context) {
	log := logger.Logger()

	skins, err := r.ss.List(c.Request.Context())
	if err != nil {
		log.Error("failed to list skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skins": newSkinListResponse(skins)})
}

func (r *skinRoutes) ListOwnedSkins(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	skins, err := r.ss.ListOwned(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list owned skins", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"skins": newSkinListResponse(skins)})
}

func (r *skinRoutes) PurchaseSkin(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req PurchaseSkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.ss.Purchase(c.Request.Context(), userID, req.SkinID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkinNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "skin not found"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrPremiumRequired):
			c.JSON(http.StatusForbidden, gin.H{"error": "premium subscription required"})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient funds"})
		default:
			log.Error("failed to purchase skin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (r *skinRoutes) SelectSkin(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req SelectSkinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.ss.Select(c.Request.Context(), userID, req.SkinID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSkinNotOwned):
			c.JSON(http.StatusForbidden, gin.H{"error": "skin not owned"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			log.Error("failed to select skin", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}
