package types

import (
	"fmt"
	"time"
)

// NextBillingDate returns start advanced by unit billing periods. Month and year
// arithmetic clamps to the last valid day of the target month so a period
// anchored on the 31st lands on the 30th (or 28th/29th) instead of overflowing.
func NextBillingDate(start time.Time, unit int, period BillingPeriod) (time.Time, error) {
	if unit <= 0 {
		return start, fmt.Errorf("billing period unit must be a positive integer, got %d", unit)
	}

	switch period {
	case BILLING_PERIOD_DAILY:
		return start.AddDate(0, 0, unit), nil
	case BILLING_PERIOD_WEEKLY:
		return start.AddDate(0, 0, 7*unit), nil
	case BILLING_PERIOD_BIWEEKLY:
		return start.AddDate(0, 0, 14*unit), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, unit), nil
	case BILLING_PERIOD_QUARTERLY:
		return AddClampedDate(start, 0, 3*unit), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, unit, 0), nil
	default:
		return start, fmt.Errorf("invalid billing period type: %s", period)
	}
}

// AddClampedDate adds years and months to t, keeping the clock and location and
// clamping the day of month to the last day of the resulting month.
func AddClampedDate(t time.Time, years, months int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	total := int(m) - 1 + months
	newY := y + years + floorDiv(total, 12)
	newM := time.Month(total - floorDiv(total, 12)*12 + 1)

	if last := DaysInMonth(newY, newM); d > last {
		d = last
	}

	return time.Date(newY, newM, d, h, min, sec, t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days of the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayOfMonthIn returns the day of month of t once converted to loc.
// A nil loc means UTC.
func DayOfMonthIn(t time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
