package account

import (
	"time"

	"github.com/flexprice/junction/internal/types"
)

// Account is the billing account that owns bundles
type Account struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Currency string `db:"currency" json:"currency"`

	// TimeZone is an IANA zone name, empty means UTC
	TimeZone string `db:"time_zone" json:"time_zone"`

	// BillCycleDayLocal is 0 until a bill cycle day has been discovered
	BillCycleDayLocal int `db:"bill_cycle_day_local" json:"bill_cycle_day_local"`

	types.BaseModel
}

// Location returns the account time zone, UTC when unset or unknown
func (a *Account) Location() *time.Location {
	if a == nil || a.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasBillCycleDay reports whether the account already carries a bill cycle day
func (a *Account) HasBillCycleDay() bool {
	return a.BillCycleDayLocal != 0
}
