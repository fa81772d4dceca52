package game

import (
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
)

var (
	StandardMiningMultiplier = decimal.NewFromInt(1)
	PremiumMiningMultiplier  = decimal.RequireFromString("1.5")
)

type Plan struct {
	Months int
	Price  decimal.Decimal
}

// Published price points. Quarterly and yearly are discounted flat bundles,
// not monthly * months.
var plans = map[int]Plan{
	1:  {Months: 1, Price: decimal.NewFromInt(2500)},
	3:  {Months: 3, Price: decimal.NewFromInt(7000)},
	12: {Months: 12, Price: decimal.NewFromInt(25000)},
}

func PlanForMonths(months int) (Plan, bool) {
	p, ok := plans[months]
	return p, ok
}

func Plans() []Plan {
	return []Plan{plans[1], plans[3], plans[12]}
}

// ExtendExpiry stacks the purchased months onto remaining time: a renewal
// before expiry keeps the unused remainder.
func ExtendExpiry(current *time.Time, now time.Time, months int) time.Time {
	start := now
	if current != nil && current.After(now) {
		start = *current
	}
	return start.AddDate(0, months, 0)
}

// PremiumActive is the single source of truth for premium gating. The
// stored flag alone is never trusted, since expiry may have lapsed since
// the last sweep.
func PremiumActive(u *model.UserAccount, now time.Time) bool {
	return u.IsPremium && u.PremiumExpiry != nil && u.PremiumExpiry.After(now)
}

// Lapse drops an expired premium back to the standard tier in place.
// Idempotent. Returns whether the user changed.
func Lapse(u *model.UserAccount, now time.Time) bool {
	if !u.IsPremium || PremiumActive(u, now) {
		return false
	}

	u.IsPremium = false
	u.MiningMultiplier = StandardMiningMultiplier
	u.DailyClickQuota = StandardDailyQuota
	// A mid-day lapse shrinks the quota below clicks already spent at the
	// premium rate; clamp so used never exceeds the quota.
	if u.ClicksUsedToday > u.DailyClickQuota {
		u.ClicksUsedToday = u.DailyClickQuota
	}
	return true
}

// Activate promotes the user in place and returns the stacked expiry.
func Activate(u *model.UserAccount, now time.Time, months int) time.Time {
	expiry := ExtendExpiry(u.PremiumExpiry, now, months)

	u.IsPremium = true
	u.PremiumExpiry = &expiry
	u.MiningMultiplier = PremiumMiningMultiplier
	u.DailyClickQuota = PremiumDailyQuota

	return expiry
}
