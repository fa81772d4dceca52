package game

import (
	"testing"
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtendExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	t.Run("first activation starts from now", func(t *testing.T) {
		expiry := ExtendExpiry(nil, now, 1)
		assert.Equal(t, now.AddDate(0, 1, 0), expiry)
	})

	t.Run("renewal before expiry stacks onto remaining time", func(t *testing.T) {
		first := ExtendExpiry(nil, now, 1)
		second := ExtendExpiry(&first, now.Add(24*time.Hour), 1)
		assert.Equal(t, now.AddDate(0, 2, 0), second)
	})

	t.Run("lapsed expiry restarts from now", func(t *testing.T) {
		past := now.AddDate(0, -1, 0)
		expiry := ExtendExpiry(&past, now, 3)
		assert.Equal(t, now.AddDate(0, 3, 0), expiry)
	})
}

func TestPremiumActive(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		user *model.UserAccount
		want bool
	}{
		{"flag set and expiry ahead", &model.UserAccount{IsPremium: true, PremiumExpiry: &future}, true},
		{"stale flag with lapsed expiry", &model.UserAccount{IsPremium: true, PremiumExpiry: &past}, false},
		{"flag set but expiry missing", &model.UserAccount{IsPremium: true}, false},
		{"standard user", &model.UserAccount{PremiumExpiry: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PremiumActive(tt.user, now))
		})
	}
}

func TestLapse(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	u := &model.UserAccount{
		IsPremium:        true,
		PremiumExpiry:    &past,
		MiningMultiplier: PremiumMiningMultiplier,
		DailyClickQuota:  PremiumDailyQuota,
	}

	assert.True(t, Lapse(u, now))
	assert.False(t, u.IsPremium)
	assert.True(t, u.MiningMultiplier.Equal(StandardMiningMultiplier))
	assert.Equal(t, StandardDailyQuota, u.DailyClickQuota)

	// Safe to call again.
	assert.False(t, Lapse(u, now))

	active := now.Add(time.Hour)
	u2 := &model.UserAccount{IsPremium: true, PremiumExpiry: &active}
	assert.False(t, Lapse(u2, now))
	assert.True(t, u2.IsPremium)
}

func TestLapseClampsClicksUsed(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)

	// A lapse mid-day can land after more clicks than the standard quota
	// allows. Used must never exceed the quota afterwards.
	u := &model.UserAccount{
		IsPremium:        true,
		PremiumExpiry:    &past,
		MiningMultiplier: PremiumMiningMultiplier,
		DailyClickQuota:  PremiumDailyQuota,
		ClicksUsedToday:  150,
	}

	assert.True(t, Lapse(u, now))
	assert.Equal(t, StandardDailyQuota, u.DailyClickQuota)
	assert.Equal(t, StandardDailyQuota, u.ClicksUsedToday)

	// Below the standard quota nothing is clamped.
	u2 := &model.UserAccount{
		IsPremium:       true,
		PremiumExpiry:   &past,
		DailyClickQuota: PremiumDailyQuota,
		ClicksUsedToday: 40,
	}
	assert.True(t, Lapse(u2, now))
	assert.Equal(t, 40, u2.ClicksUsedToday)
}

func TestActivate(t *testing.T) {
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	u := &model.UserAccount{
		MiningMultiplier: StandardMiningMultiplier,
		DailyClickQuota:  StandardDailyQuota,
	}

	expiry := Activate(u, now, 3)

	assert.True(t, u.IsPremium)
	assert.Equal(t, now.AddDate(0, 3, 0), expiry)
	assert.Equal(t, &expiry, u.PremiumExpiry)
	assert.True(t, u.MiningMultiplier.Equal(PremiumMiningMultiplier))
	assert.Equal(t, PremiumDailyQuota, u.DailyClickQuota)
}

func TestPlanForMonths(t *testing.T) {
	monthly, ok := PlanForMonths(1)
	assert.True(t, ok)
	assert.Equal(t, "2500", monthly.Price.String())

	quarterly, ok := PlanForMonths(3)
	assert.True(t, ok)
	assert.Equal(t, "7000", quarterly.Price.String())
	// Discounted bundle, cheaper than three monthlies.
	assert.True(t, quarterly.Price.LessThan(monthly.Price.Mul(decimal.NewFromInt(3))))

	yearly, ok := PlanForMonths(12)
	assert.True(t, ok)
	assert.Equal(t, "25000", yearly.Price.String())

	_, ok = PlanForMonths(6)
	assert.False(t, ok)
}
