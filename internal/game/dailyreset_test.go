package game

import (
	"testing"
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestApplyDailyReset(t *testing.T) {
	today := "2025-06-02"

	tests := []struct {
		name          string
		user          *model.UserAccount
		skin          *model.Skin
		wantChanged   bool
		wantClicks    int
		wantQuota     int
		wantResetDate string
	}{
		{
			name: "same day is a no-op",
			user: &model.UserAccount{
				ClicksUsedToday: 42,
				DailyClickQuota: 100,
				LastResetDate:   today,
			},
			wantChanged:   false,
			wantClicks:    42,
			wantQuota:     100,
			wantResetDate: today,
		},
		{
			name: "new day zeroes the counter",
			user: &model.UserAccount{
				ClicksUsedToday: 87,
				DailyClickQuota: 100,
				LastResetDate:   "2025-06-01",
			},
			wantChanged:   true,
			wantClicks:    0,
			wantQuota:     StandardDailyQuota,
			wantResetDate: today,
		},
		{
			name: "premium tier refreshes to 200",
			user: &model.UserAccount{
				ClicksUsedToday: 150,
				DailyClickQuota: 200,
				LastResetDate:   "2025-06-01",
				IsPremium:       true,
			},
			wantChanged:   true,
			wantClicks:    0,
			wantQuota:     PremiumDailyQuota,
			wantResetDate: today,
		},
		{
			name: "skin click bonus stacks on the tier quota",
			user: &model.UserAccount{
				LastResetDate: "2025-05-29",
				IsPremium:     true,
			},
			skin:          &model.Skin{SkinID: "turbo-rig", ClickBonus: 25},
			wantChanged:   true,
			wantClicks:    0,
			wantQuota:     225,
			wantResetDate: today,
		},
		{
			name: "missing reset date forces a reset",
			user: &model.UserAccount{
				ClicksUsedToday: 3,
			},
			wantChanged:   true,
			wantClicks:    0,
			wantQuota:     StandardDailyQuota,
			wantResetDate: today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := ApplyDailyReset(tt.user, today, tt.skin)

			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantClicks, tt.user.ClicksUsedToday)
			assert.Equal(t, tt.wantQuota, tt.user.DailyClickQuota)
			assert.Equal(t, tt.wantResetDate, tt.user.LastResetDate)
		})
	}
}

func TestDayKey(t *testing.T) {
	ts := time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, "2025-06-02", DayKey(ts))
	assert.Equal(t, "2025-06-03", DayKey(ts.Add(time.Second)))
}
