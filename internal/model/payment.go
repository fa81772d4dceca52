package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type Payment struct {
	ID            int64
	UserID        int64
	Amount        decimal.Decimal
	Method        string
	Status        PaymentStatus
	TransactionID *string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

// AdminLedger is the house-revenue aggregate. Both totals only ever grow.
type AdminLedger struct {
	Total        decimal.Decimal
	PremiumTotal decimal.Decimal
}

// LeaderboardEntry is derived per refresh, never persisted.
type LeaderboardEntry struct {
	Rank     int
	Name     string
	Earnings decimal.Decimal
}
