package service

import (
	"context"
	"fmt"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/pkg/logger"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type PremiumService struct {
	repo     UserRepository
	payments PaymentRepository
	clock    game.Clock
}

func NewPremiumService(repo UserRepository, payments PaymentRepository, clock game.Clock) *PremiumService {
	return &PremiumService{
		repo:     repo,
		payments: payments,
		clock:    clock,
	}
}

func (s *PremiumService) Plans() []game.Plan {
	return game.Plans()
}

// Activate promotes the user to premium for a published plan. Renewing
// before expiry stacks onto remaining time. The payment record and both
// ledger totals commit with the user row.
func (s *PremiumService) Activate(ctx context.Context, userID int64, months int, paymentMethod string) (*model.UserAccount, error) {
	if paymentMethod == "" {
		return nil, ErrValidation
	}
	plan, ok := game.PlanForMonths(months)
	if !ok {
		return nil, ErrValidation
	}

	user, err := s.repo.MutateUser(ctx, userID, func(u *model.UserAccount, _ *model.Skin) (*model.UserMutation, error) {
		now := s.clock.Now()

		game.Activate(u, now, plan.Months)

		price := plan.Price
		method := paymentMethod
		u.LastPaymentAmount = &price
		u.PaymentMethod = &method

		transactionID := uuid.NewString()
		completedAt := now

		return &model.UserMutation{
			Ledger: &model.LedgerCredit{Amount: plan.Price, Premium: true},
			Payment: &model.Payment{
				UserID:        u.ID,
				Amount:        plan.Price,
				Method:        paymentMethod,
				Status:        model.PaymentCompleted,
				TransactionID: &transactionID,
				CreatedAt:     now,
				CompletedAt:   &completedAt,
			},
		}, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to activate premium: %w", err)
	}

	return user, nil
}

func (s *PremiumService) Payments(ctx context.Context, userID int64) ([]*model.Payment, error) {
	return s.payments.ListUserPayments(ctx, userID)
}

// ConfirmPayment marks a pending payment completed once the bank transfer
// is verified out of band. Already-settled payments are not retouched.
func (s *PremiumService) ConfirmPayment(ctx context.Context, paymentID int64, transactionID string) error {
	var txID *string
	if transactionID != "" {
		txID = &transactionID
	}

	err := s.payments.UpdatePaymentStatus(ctx, paymentID, model.PaymentCompleted, txID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPaymentNotFound
		}
		return fmt.Errorf("failed to confirm payment: %w", err)
	}

	return nil
}

// SweepExpired demotes every user whose premium has lapsed. Idempotent,
// safe to run redundantly alongside the lazy per-user lapse in mining and
// profile loads.
func (s *PremiumService) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.SweepExpiredPremium(ctx, s.clock.Now())
}

// RunExpirySweeper periodically sweeps until ctx is done.
func (s *PremiumService) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			swept, err := s.SweepExpired(ctx)
			if err != nil {
				logger.Logger().Error("premium expiry sweep failed", zap.Error(err))
				continue
			}
			if swept > 0 {
				logger.Logger().Info("premium expiry sweep", zap.Int64("demoted", swept))
			}
		case <-ctx.Done():
			return
		}
	}
}
