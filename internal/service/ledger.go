package service

import (
	"context"
	"fmt"

	"crypto_miner_webapp/internal/model"
)

type LedgerService struct {
	repo LedgerRepository
}

func NewLedgerService(repo LedgerRepository) *LedgerService {
	return &LedgerService{repo: repo}
}

func (s *LedgerService) Ledger(ctx context.Context) (*model.AdminLedger, error) {
	ledger, err := s.repo.GetLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin ledger: %w", err)
	}
	return ledger, nil
}
