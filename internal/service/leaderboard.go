package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/pkg/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// LeaderboardRefreshInterval is how often the synthetic board regenerates.
const LeaderboardRefreshInterval = 2 * time.Minute

// LeaderboardService keeps the current synthetic filler board and blends
// the requesting user into it per view. The board is per-viewer, not
// globally consistent.
type LeaderboardService struct {
	users UserRepository
	rng   game.Rand

	mu        sync.RWMutex
	fillers   []model.LeaderboardEntry
	onRefresh func([]model.LeaderboardEntry)
}

func NewLeaderboardService(users UserRepository, rng game.Rand) *LeaderboardService {
	s := &LeaderboardService{
		users: users,
		rng:   rng,
	}
	s.Refresh()
	return s
}

// OnRefresh registers a hook invoked with each new filler board, used to
// push refreshes out over the live feed.
func (s *LeaderboardService) OnRefresh(fn func([]model.LeaderboardEntry)) {
	s.mu.Lock()
	s.onRefresh = fn
	s.mu.Unlock()
}

func (s *LeaderboardService) Refresh() []model.LeaderboardEntry {
	fillers := game.GenerateFillers(s.rng)

	s.mu.Lock()
	s.fillers = fillers
	hook := s.onRefresh
	s.mu.Unlock()

	if hook != nil {
		hook(fillers)
	}

	return fillers
}

func (s *LeaderboardService) Fillers() []model.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fillers
}

// Board returns the ten-row leaderboard as seen by viewerID. A zero
// viewerID yields the plain filler board.
func (s *LeaderboardService) Board(ctx context.Context, viewerID int64) ([]model.LeaderboardEntry, error) {
	fillers := s.Fillers()

	if viewerID == 0 {
		return game.BuildLeaderboard(fillers, "", decimal.Zero), nil
	}

	user, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load viewer: %w", err)
	}

	return game.BuildLeaderboard(fillers, user.Username, user.Balance), nil
}

// Run refreshes the filler board on a fixed interval until ctx is done.
// Reads stay lock-cheap and never block mining transactions.
func (s *LeaderboardService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Refresh()
			logger.Logger().Debug("leaderboard fillers refreshed")
		case <-ctx.Done():
			return
		}
	}
}
