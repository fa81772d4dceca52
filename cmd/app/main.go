package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"crypto_miner_webapp/internal/api"
	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/internal/service"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const premiumSweepInterval = time.Hour

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	err = logger.Initialize(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zapLogger := logger.Logger()

	repo, err := repository.New(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to initialize repository", zap.Error(err))
	}
	defer repo.Close()

	clock := game.NewClock()
	rng := game.NewRand()

	userService := service.NewUserService(repo, clock)
	miningService := service.NewMiningService(repo, clock, rng)
	premiumService := service.NewPremiumService(repo, repo, clock)
	skinService := service.NewSkinService(repo, repo, clock)
	leaderboardService := service.NewLeaderboardService(repo, rng)
	ledgerService := service.NewLedgerService(repo)

	jwtAuth := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	feed := api.NewBalanceFeed()
	leaderboardService.OnRefresh(feed.BroadcastLeaderboard)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go premiumService.RunExpirySweeper(ctx, premiumSweepInterval)
	go leaderboardService.Run(ctx, service.LeaderboardRefreshInterval)

	router := gin.New()
	router.Use(gin.Recovery())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{
		http.MethodHead,
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
	}
	config.AllowHeaders = []string{"*"}
	config.AllowCredentials = true
	config.MaxAge = 12 * time.Hour

	router.Use(cors.New(config))

	a := router.Group("/api/v1")
	api.NewUserRoutes(a, userService, skinService, jwtAuth)
	api.NewMiningRoutes(a, miningService, feed, jwtAuth)
	api.NewLeaderboardRoutes(a, leaderboardService, jwtAuth)
	api.NewPremiumRoutes(a, premiumService, jwtAuth)
	api.NewSkinRoutes(a, skinService, jwtAuth)
	api.NewAdminRoutes(a, ledgerService, premiumService, cfg.Auth.AdminKey)
	api.NewFeedRoutes(a, feed, jwtAuth)

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Starting server", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}
