package service

import (
	"context"
	"fmt"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"

	"github.com/pkg/errors"
)

// MinClickInterval is enforced server-side so a client cannot bypass the
// UI cooldown.
const MinClickInterval = time.Second

type MiningService struct {
	repo  UserRepository
	clock game.Clock
	rng   game.Rand
}

func NewMiningService(repo UserRepository, clock game.Clock, rng game.Rand) *MiningService {
	return &MiningService{
		repo:  repo,
		clock: clock,
		rng:   rng,
	}
}

// Mine converts one click into balance. The whole read-modify-write runs
// under the user's row lock: day rollover, premium lapse, quota and
// cooldown checks, then the balance, click counter and house cut commit
// together or not at all.
func (s *MiningService) Mine(ctx context.Context, userID int64) (*MineResult, error) {
	var result MineResult

	_, err := s.repo.MutateUser(ctx, userID, func(u *model.UserAccount, skin *model.Skin) (*model.UserMutation, error) {
		now := s.clock.Now()

		game.Lapse(u, now)
		game.ApplyDailyReset(u, game.DayKey(now), skin)

		if u.ClicksUsedToday >= u.DailyClickQuota {
			return nil, ErrQuotaExhausted
		}
		if u.LastMinedAt != nil && now.Sub(*u.LastMinedAt) < MinClickInterval {
			return nil, ErrTooFast
		}

		earning := game.ComputeEarning(u, skin, s.rng)

		u.ClicksUsedToday++
		u.Balance = u.Balance.Add(earning.Amount).Round(2)
		minedAt := now
		u.LastMinedAt = &minedAt

		result = MineResult{
			Earning:         earning.Amount,
			AdminCut:        earning.AdminCut,
			Balance:         u.Balance,
			ClicksRemaining: u.DailyClickQuota - u.ClicksUsedToday,
		}

		return &model.UserMutation{
			Ledger: &model.LedgerCredit{Amount: earning.AdminCut},
		}, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, ErrQuotaExhausted) || errors.Is(err, ErrTooFast) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to apply mining click: %w", err)
	}

	return &result, nil
}
