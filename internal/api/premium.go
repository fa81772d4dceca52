package api

import (
	"errors"
	"net/http"
	"time"

	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type premiumRoutes struct {
	ps service.PremiumServiceI
}

func NewPremiumRoutes(handler *gin.RouterGroup, ps service.PremiumServiceI, a *auth.JWTAuth) {
	r := &premiumRoutes{ps: ps}

	h := handler.Group("/premium")
	h.GET("/plans", r.GetPlans)

	authed := h.Group("")
	authed.Use(a.AuthMiddleware())
	authed.POST("/activate", r.Activate)

	me := handler.Group("/me")
	me.Use(a.AuthMiddleware())
	me.GET("/payments", r.ListPayments)
}

type PlanResponse struct {
	Months int    `json:"months"`
	Price  string `json:"price"`
}

type ActivatePremiumRequest struct {
	Months        int    `json:"months"`
	PaymentMethod string `json:"payment_method"`
}

type PaymentResponse struct {
	ID            int64   `json:"id"`
	Amount        string  `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	TransactionID *string `json:"transaction_id,omitempty"`
	CreatedAt     string  `json:"created_at"`
	CompletedAt   *string `json:"completed_at,omitempty"`
}

func (r *premiumRoutes) GetPlans(c *gin.Context) {
	plans := r.ps.Plans()

	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{Months: p.Months, Price: p.Price.StringFixed(2)})
	}

	c.JSON(http.StatusOK, gin.H{"plans": out})
}

func (r *premiumRoutes) Activate(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	var req ActivatePremiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.ps.Activate(c.Request.Context(), userID, req.Months, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan or payment method"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			log.Error("failed to activate premium", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (r *premiumRoutes) ListPayments(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	payments, err := r.ps.Payments(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list payments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		pr := PaymentResponse{
			ID:            p.ID,
			Amount:        p.Amount.StringFixed(2),
			Method:        p.Method,
			Status:        string(p.Status),
			TransactionID: p.TransactionID,
			CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		}
		if p.CompletedAt != nil {
			s := p.CompletedAt.UTC().Format(time.RFC3339)
			pr.CompletedAt = &s
		}
		out = append(out, pr)
	}

	c.JSON(http.StatusOK, gin.H{"payments": out})
}
