package api

import (
	"errors"
	"net/http"
	"time"

	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type userRoutes struct {
	us service.UserServiceI
	ss service.SkinServiceI
	a  *auth.JWTAuth
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, ss service.SkinServiceI, a *auth.JWTAuth) {
	r := &userRoutes{us: us, ss: ss, a: a}

	h := handler.Group("/auth")
	{
		h.POST("/register", r.Register)
		h.POST("/login", r.Login)
	}

	me := handler.Group("/me")
	me.Use(a.AuthMiddleware())
	{
		me.GET("", r.GetProfile)
	}
}

type RegisterRequest struct {
	Username     string  `json:"username"`
	Phone        string  `json:"phone"`
	Password     string  `json:"password"`
	Email        *string `json:"email,omitempty"`
	Language     string  `json:"language,omitempty"`
	ReferralCode string  `json:"referral_code,omitempty"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID               int64    `json:"id"`
	Username         string   `json:"username"`
	Phone            string   `json:"phone"`
	Email            *string  `json:"email,omitempty"`
	Balance          string   `json:"balance"`
	ClicksUsedToday  int      `json:"clicks_used_today"`
	DailyClickQuota  int      `json:"daily_click_quota"`
	ClicksRemaining  int      `json:"clicks_remaining"`
	ReferralCode     string   `json:"referral_code"`
	Referrals        int      `json:"referrals"`
	IsPremium        bool     `json:"is_premium"`
	PremiumExpiry    *string  `json:"premium_expiry,omitempty"`
	MiningMultiplier string   `json:"mining_multiplier"`
	SelectedSkinID   string   `json:"selected_skin_id"`
	OwnedSkinIDs     []string `json:"owned_skin_ids,omitempty"`
	Theme            string   `json:"theme"`
	Language         string   `json:"language"`
}

func newUserResponse(u *model.UserAccount) UserResponse {
	out := UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Phone:            u.Phone,
		Email:            u.Email,
		Balance:          u.Balance.StringFixed(2),
		ClicksUsedToday:  u.ClicksUsedToday,
		DailyClickQuota:  u.DailyClickQuota,
		ClicksRemaining:  u.DailyClickQuota - u.ClicksUsedToday,
		ReferralCode:     u.ReferralCode,
		Referrals:        u.Referrals,
		IsPremium:        u.IsPremium,
		MiningMultiplier: u.MiningMultiplier.String(),
		SelectedSkinID:   u.SelectedSkinID,
		Theme:            u.Theme,
		Language:         u.Language,
	}
	if u.PremiumExpiry != nil {
		s := u.PremiumExpiry.UTC().Format(time.RFC3339)
		out.PremiumExpiry = &s
	}
	return out
}

func (r *userRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.Register(c.Request.Context(), service.RegisterInput{
		Username:     req.Username,
		Phone:        req.Phone,
		Password:     req.Password,
		Email:        req.Email,
		Language:     req.Language,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration data"})
		case errors.Is(err, service.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "username or phone already registered"})
		default:
			log.Error("failed to register user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		}
		return
	}

	token, err := r.a.IssueToken(user.ID, time.Now())
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{Token: token, User: newUserResponse(user)})
}

func (r *userRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.Authenticate(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or password"})
		default:
			log.Error("failed to authenticate user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	token, err := r.a.IssueToken(user.ID, time.Now())
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Token: token, User: newUserResponse(user)})
}

func (r *userRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user, err := r.us.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Error("failed to load profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	out := newUserResponse(user)

	ownedIDs, err := r.ss.ListOwnedIDs(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to list owned skin ids", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	out.OwnedSkinIDs = ownedIDs

	c.JSON(http.StatusOK, out)
}
