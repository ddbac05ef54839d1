package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ist = time.FixedZone("IST", 5*60*60+30*60)
	pst = time.FixedZone("PST", -8*60*60)
)

func TestAddClampedDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		years  int
		months int
		want   time.Time
	}{
		{
			name:   "simple month",
			start:  time.Date(2012, time.May, 31, 0, 0, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2012, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "leap february",
			start:  time.Date(2024, time.January, 31, 10, 30, 0, 0, time.UTC),
			months: 1,
			want:   time.Date(2024, time.February, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:   "cross year",
			start:  time.Date(2024, time.November, 30, 0, 0, 0, 0, time.UTC),
			months: 3,
			want:   time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative months",
			start:  time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
			months: -1,
			want:   time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "negative months across year",
			start:  time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			months: -2,
			want:   time.Date(2023, time.November, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "leap day plus one year",
			start: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			years: 1,
			want:  time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:   "keeps location",
			start:  time.Date(2024, time.August, 31, 23, 0, 0, 0, pst),
			months: 1,
			want:   time.Date(2024, time.September, 30, 23, 0, 0, 0, pst),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddClampedDate(tt.start, tt.years, tt.months)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
			assert.Equal(t, tt.want.Location(), got.Location())
		})
	}
}

func TestNextBillingDate(t *testing.T) {
	start := time.Date(2012, time.January, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		unit    int
		period  BillingPeriod
		want    time.Time
		wantErr bool
	}{
		{name: "daily", unit: 10, period: BILLING_PERIOD_DAILY, want: time.Date(2012, time.February, 10, 0, 0, 0, 0, time.UTC)},
		{name: "weekly", unit: 1, period: BILLING_PERIOD_WEEKLY, want: time.Date(2012, time.February, 7, 0, 0, 0, 0, time.UTC)},
		{name: "biweekly", unit: 1, period: BILLING_PERIOD_BIWEEKLY, want: time.Date(2012, time.February, 14, 0, 0, 0, 0, time.UTC)},
		{name: "monthly clamps", unit: 1, period: BILLING_PERIOD_MONTHLY, want: time.Date(2012, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{name: "quarterly", unit: 1, period: BILLING_PERIOD_QUARTERLY, want: time.Date(2012, time.April, 30, 0, 0, 0, 0, time.UTC)},
		{name: "annual", unit: 1, period: BILLING_PERIOD_ANNUAL, want: time.Date(2013, time.January, 31, 0, 0, 0, 0, time.UTC)},
		{name: "zero unit", unit: 0, period: BILLING_PERIOD_MONTHLY, wantErr: true},
		{name: "no billing period", unit: 1, period: BILLING_PERIOD_NONE, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(start, tt.unit, tt.period)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestDayOfMonthIn(t *testing.T) {
	instant := time.Date(2012, time.May, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, 31, DayOfMonthIn(instant, nil))
	assert.Equal(t, 31, DayOfMonthIn(instant, pst))
	assert.Equal(t, 1, DayOfMonthIn(instant, ist))
}

func TestDurationAddTo(t *testing.T) {
	start := time.Date(2012, time.May, 1, 0, 0, 0, 0, time.UTC)

	got, ok := Duration{Unit: TimeUnitDays, Number: 30}.AddTo(start)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2012, time.May, 31, 0, 0, 0, 0, time.UTC)))

	got, ok = Duration{Unit: TimeUnitMonths, Number: 1}.AddTo(time.Date(2012, time.May, 31, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2012, time.June, 30, 0, 0, 0, 0, time.UTC)))

	_, ok = Duration{Unit: TimeUnitUnlimited}.AddTo(start)
	assert.False(t, ok)

	assert.Error(t, Duration{Unit: "FORTNIGHTS", Number: 1}.Validate())
	assert.Error(t, Duration{Unit: TimeUnitDays, Number: -1}.Validate())
	assert.NoError(t, Duration{Unit: TimeUnitUnlimited}.Validate())
}
