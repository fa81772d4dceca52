package game

import (
	"math/rand"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
)

// Rand is the randomness source for earning draws and leaderboard fillers.
// Tests inject fixed draws through it.
type Rand interface {
	Float64() float64
}

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }

func NewRand() Rand { return systemRand{} }

const (
	// BaseEarningCap bounds the uniform base draw per click.
	BaseEarningCap = 0.60

	// AdminCutRate is the flat house take on every earning event.
	AdminCutRate = 0.40

	ReferralRateStandard = 0.05
	ReferralRatePremium  = 0.10
)

var (
	adminCutRate        = decimal.NewFromFloat(AdminCutRate)
	referralRateStd     = decimal.NewFromFloat(ReferralRateStandard)
	referralRatePremium = decimal.NewFromFloat(ReferralRatePremium)
)

type Earning struct {
	Base     decimal.Decimal
	Amount   decimal.Decimal
	AdminCut decimal.Decimal
}

// ComputeEarning converts one click into an earning and the house cut.
// Pure over its inputs; the caller has already lapsed an expired premium
// and verified remaining quota. skin may be nil.
func ComputeEarning(u *model.UserAccount, skin *model.Skin, rng Rand) Earning {
	base := decimal.NewFromFloat(rng.Float64() * BaseEarningCap).Round(2)

	rate := referralRateStd
	if u.IsPremium {
		rate = referralRatePremium
	}
	referralMult := decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(u.Referrals)).Mul(rate))

	premiumMult := u.MiningMultiplier
	if premiumMult.IsZero() {
		premiumMult = decimal.NewFromInt(1)
	}

	skinMult := decimal.NewFromInt(1)
	if skin != nil {
		skinMult = skinMult.Add(skin.MiningBonus)
	}

	amount := base.Mul(referralMult).Mul(premiumMult).Mul(skinMult).Round(2)

	return Earning{
		Base:     base,
		Amount:   amount,
		AdminCut: amount.Mul(adminCutRate).Round(2),
	}
}
