package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"

	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type adminRoutes struct {
	ls       service.LedgerServiceI
	ps       service.PremiumServiceI
	adminKey string
}

func NewAdminRoutes(handler *gin.RouterGroup, ls service.LedgerServiceI, ps service.PremiumServiceI, adminKey string) {
	r := &adminRoutes{ls: ls, ps: ps, adminKey: adminKey}

	h := handler.Group("/admin")
	h.Use(r.adminKeyMiddleware())

	h.GET("/ledger", r.GetLedger)
	h.POST("/payments/:payment_id/confirm", r.ConfirmPayment)
}

// adminKeyMiddleware gates admin routes on a pre-shared key header.
func (r *adminRoutes) adminKeyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Admin-Key")
		if r.adminKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(r.adminKey)) != 1 {
			logger.Logger().Info("rejected admin request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

type LedgerResponse struct {
	Total        string `json:"total"`
	PremiumTotal string `json:"premium_total"`
}

func (r *adminRoutes) GetLedger(c *gin.Context) {
	log := logger.Logger()

	ledger, err := r.ls.Ledger(c.Request.Context())
	if err != nil {
		log.Error("failed to load admin ledger", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, LedgerResponse{
		Total:        ledger.Total.StringFixed(2),
		PremiumTotal: ledger.PremiumTotal.StringFixed(2),
	})
}

type ConfirmPaymentRequest struct {
	TransactionID string `json:"transaction_id"`
}

func (r *adminRoutes) ConfirmPayment(c *gin.Context) {
	log := logger.Logger()

	paymentID, err := strconv.ParseInt(c.Param("payment_id"), 10, 64)
	if err != nil {
		log.Error("failed to parse payment_id", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_id"})
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err = r.ps.ConfirmPayment(c.Request.Context(), paymentID, req.TransactionID)
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found or already settled"})
			return
		}
		log.Error("failed to confirm payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}
