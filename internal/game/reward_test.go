package game

import (
	"testing"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// stubRand replays a fixed sequence of draws.
type stubRand struct {
	draws []float64
	i     int
}

func (s *stubRand) Float64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

// base draw = rng.Float64() * BaseEarningCap, so inject base/cap.
func randForBase(base float64) *stubRand {
	return &stubRand{draws: []float64{base / BaseEarningCap}}
}

func TestComputeEarning(t *testing.T) {
	tests := []struct {
		name             string
		user             *model.UserAccount
		skin             *model.Skin
		base             float64
		expectedEarning  string
		expectedAdminCut string
	}{
		{
			name: "fresh standard user mines the base draw",
			user: &model.UserAccount{
				MiningMultiplier: decimal.NewFromInt(1),
			},
			base:             0.50,
			expectedEarning:  "0.50",
			expectedAdminCut: "0.20",
		},
		{
			name: "premium user with referrals compounds multiplicatively",
			user: &model.UserAccount{
				IsPremium:        true,
				Referrals:        4,
				MiningMultiplier: decimal.RequireFromString("1.5"),
			},
			base:             0.40,
			expectedEarning:  "0.84",
			expectedAdminCut: "0.34",
		},
		{
			name: "standard referrals use the 5% rate",
			user: &model.UserAccount{
				Referrals:        4,
				MiningMultiplier: decimal.NewFromInt(1),
			},
			base:             0.40,
			expectedEarning:  "0.48",
			expectedAdminCut: "0.19",
		},
		{
			name: "skin bonus is additive on 1.0 and its own factor",
			user: &model.UserAccount{
				MiningMultiplier: decimal.NewFromInt(1),
			},
			skin: &model.Skin{
				SkinID:      "golden-pickaxe",
				MiningBonus: decimal.RequireFromString("0.25"),
			},
			base:             0.40,
			expectedEarning:  "0.50",
			expectedAdminCut: "0.20",
		},
		{
			name: "zero multiplier falls back to 1.0",
			user: &model.UserAccount{},
			base: 0.30,

			expectedEarning:  "0.30",
			expectedAdminCut: "0.12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ComputeEarning(tt.user, tt.skin, randForBase(tt.base))

			assert.Equal(t, tt.expectedEarning, e.Amount.StringFixed(2))
			assert.Equal(t, tt.expectedAdminCut, e.AdminCut.StringFixed(2))
		})
	}
}

func TestComputeEarning_AdminCutIsAlways40Percent(t *testing.T) {
	user := &model.UserAccount{MiningMultiplier: decimal.NewFromInt(1)}

	for _, base := range []float64{0.01, 0.07, 0.13, 0.25, 0.33, 0.59} {
		e := ComputeEarning(user, nil, randForBase(base))
		expected := e.Amount.Mul(decimal.NewFromFloat(AdminCutRate)).Round(2)
		assert.True(t, e.AdminCut.Equal(expected), "base %v: cut %s want %s", base, e.AdminCut, expected)
	}
}

func TestComputeEarning_BaseRoundedAtDrawTime(t *testing.T) {
	user := &model.UserAccount{MiningMultiplier: decimal.NewFromInt(1)}

	// 0.333... * 0.60 = 0.19999..., rounded to 0.20 before multipliers apply.
	e := ComputeEarning(user, nil, &stubRand{draws: []float64{0.33333}})
	assert.Equal(t, "0.20", e.Base.StringFixed(2))
	assert.Equal(t, "0.20", e.Amount.StringFixed(2))
}
