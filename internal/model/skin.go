package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

type Skin struct {
	SkinID      string
	Name        string
	Description string
	Rarity      Rarity

	// MiningBonus is a fraction added to 1.0 to form the skin's earning
	// factor; ClickBonus is added on top of the tier's daily quota.
	MiningBonus decimal.Decimal
	ClickBonus  int

	PremiumOnly bool
	Price       *decimal.Decimal
}

// UserSkin is an append-only ownership edge.
type UserSkin struct {
	UserID     int64
	SkinID     string
	AcquiredAt time.Time
}
