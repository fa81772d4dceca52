package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

type JWTAuth struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTAuth(secret string, tokenTTL time.Duration) *JWTAuth {
	return &JWTAuth{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// IssueToken signs an HS256 session token carrying the user id as subject.
func (a *JWTAuth) IssueToken(userID int64, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(a.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ParseToken verifies the signature and expiry and returns the user id.
func (a *JWTAuth) ParseToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("subject claim missing")
	}

	return int64(sub), nil
}

func (a *JWTAuth) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header is required"})
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Info("invalid authorization header format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}

		userID, err := a.ParseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Info("invalid session token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID reads the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
