package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSkinID is owned by every account from registration on.
const DefaultSkinID = "default"

type UserAccount struct {
	ID           int64
	Username     string
	Phone        string
	PasswordHash string
	Email        *string

	Balance         decimal.Decimal
	ClicksUsedToday int
	DailyClickQuota int
	LastResetDate   string
	LastMinedAt     *time.Time

	ReferralCode string
	Referrals    int

	IsPremium         bool
	PremiumExpiry     *time.Time
	MiningMultiplier  decimal.Decimal
	LastPaymentAmount *decimal.Decimal
	PaymentMethod     *string

	SelectedSkinID string

	// OwnedSkinIDs is loaded alongside the row when the user is read under
	// a row lock. Not persisted through the user row itself.
	OwnedSkinIDs []string

	Theme    string
	Language string

	CreatedAt time.Time
}

func (u *UserAccount) OwnsSkin(skinID string) bool {
	for _, id := range u.OwnedSkinIDs {
		if id == skinID {
			return true
		}
	}
	return false
}

// UserMutation carries the side effects a locked user update must commit
// in the same transaction as the user row itself.
type UserMutation struct {
	Ledger  *LedgerCredit
	Payment *Payment
	OwnSkin *UserSkin
}

type LedgerCredit struct {
	Amount  decimal.Decimal
	Premium bool
}
