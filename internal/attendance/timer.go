package attendance

import "time"

// Check-in scoring anchors on 10:00, check-out on 18:00 local time.
const (
	checkinAnchorHour  = 10
	checkoutAnchorHour = 18

	earlyCheckinBonus  = 200
	onTimeCheckinBonus = 100
	latePenaltyPerMin  = 50
	checkoutPerHour    = 200
)

// CheckinDelta scores a check-in instant. Before 10:00 earns the full bonus,
// 10:00 on the dot earns the reduced one, and every minute past 10:00 costs
// 50 points, measured as (h-10)*60+m.
func CheckinDelta(t time.Time) int {
	h, m := t.Hour(), t.Minute()

	switch {
	case h < checkinAnchorHour:
		return earlyCheckinBonus
	case h == checkinAnchorHour && m == 0:
		return onTimeCheckinBonus
	default:
		elapsedMin := (h-checkinAnchorHour)*60 + m
		return -latePenaltyPerMin * elapsedMin
	}
}

// CheckoutDelta scores a check-out instant: 200 points per hour relative to
// 18:00, negative before and positive after. Hour granularity only.
func CheckoutDelta(t time.Time) int {
	return checkoutPerHour * (t.Hour() - checkoutAnchorHour)
}
