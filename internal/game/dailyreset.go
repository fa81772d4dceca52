package game

import (
	"time"

	"crypto_miner_webapp/internal/model"
)

// DayLayout keys calendar days for quota resets.
const DayLayout = "2006-01-02"

const (
	StandardDailyQuota = 100
	PremiumDailyQuota  = 200
)

// Clock abstracts "now" so tests can roll the day boundary.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewClock() Clock { return realClock{} }

func DayKey(t time.Time) string { return t.Format(DayLayout) }

func TierQuota(premium bool) int {
	if premium {
		return PremiumDailyQuota
	}
	return StandardDailyQuota
}

// ApplyDailyReset rolls the click counter over when today differs from the
// user's stored day. An empty LastResetDate counts as "never reset" and
// forces a rollover. Returns whether the user changed. skin may be nil.
func ApplyDailyReset(u *model.UserAccount, today string, skin *model.Skin) bool {
	if u.LastResetDate == today {
		return false
	}

	u.ClicksUsedToday = 0
	u.LastResetDate = today

	quota := TierQuota(u.IsPremium)
	if skin != nil {
		quota += skin.ClickBonus
	}
	u.DailyClickQuota = quota

	return true
}
