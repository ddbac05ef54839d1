package types

import (
	"time"

	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/samber/lo"
)

// TimeUnit is the unit of a plan phase duration
type TimeUnit string

const (
	TimeUnitDays      TimeUnit = "DAYS"
	TimeUnitWeeks     TimeUnit = "WEEKS"
	TimeUnitMonths    TimeUnit = "MONTHS"
	TimeUnitYears     TimeUnit = "YEARS"
	TimeUnitUnlimited TimeUnit = "UNLIMITED"
)

func (u TimeUnit) String() string {
	return string(u)
}

func (u TimeUnit) Validate() error {
	allowed := []TimeUnit{
		TimeUnitDays,
		TimeUnitWeeks,
		TimeUnitMonths,
		TimeUnitYears,
		TimeUnitUnlimited,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid time unit").
			WithHint("Invalid duration time unit").
			WithReportableDetails(map[string]any{
				"unit":           u,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Duration is the length of a plan phase
type Duration struct {
	Unit   TimeUnit `json:"unit" mapstructure:"unit" validate:"required"`
	Number int      `json:"number" mapstructure:"number" validate:"gte=0"`
}

// IsUnlimited reports whether the duration never ends
func (d Duration) IsUnlimited() bool {
	return d.Unit == TimeUnitUnlimited
}

// AddTo returns t advanced by the duration. The second return value is false
// for unlimited durations, which have no end date.
func (d Duration) AddTo(t time.Time) (time.Time, bool) {
	switch d.Unit {
	case TimeUnitDays:
		return t.AddDate(0, 0, d.Number), true
	case TimeUnitWeeks:
		return t.AddDate(0, 0, 7*d.Number), true
	case TimeUnitMonths:
		return AddClampedDate(t, 0, d.Number), true
	case TimeUnitYears:
		return AddClampedDate(t, d.Number, 0), true
	default:
		return t, false
	}
}

func (d Duration) Validate() error {
	if err := d.Unit.Validate(); err != nil {
		return err
	}
	if d.Number < 0 {
		return ierr.NewError("duration number must be non-negative").
			WithHint("Duration number must be zero or positive").
			WithReportableDetails(map[string]any{
				"number": d.Number,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
