package catalog

import (
	"testing"
	"time"

	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testPlan() *Plan {
	return &Plan{
		Name:    "basic-monthly",
		Product: Product{Name: "basic", Category: types.SubscriptionCategoryBase},
		Phases: []*PlanPhase{
			{
				Name:      "basic-monthly-trial",
				PhaseType: types.PhaseTypeTrial,
				Duration:  types.Duration{Unit: types.TimeUnitDays, Number: 30},
				Fixed:     &Fixed{Price: Price{"USD": decimal.Zero}},
			},
			{
				Name:      "basic-monthly-discount",
				PhaseType: types.PhaseTypeDiscount,
				Duration:  types.Duration{Unit: types.TimeUnitMonths, Number: 1},
				Recurring: &Recurring{
					BillingPeriod: types.BILLING_PERIOD_MONTHLY,
					Price:         Price{"USD": decimal.Zero, "EUR": decimal.Zero},
				},
			},
			{
				Name:      "basic-monthly-evergreen",
				PhaseType: types.PhaseTypeEvergreen,
				Duration:  types.Duration{Unit: types.TimeUnitUnlimited},
				Recurring: &Recurring{
					BillingPeriod: types.BILLING_PERIOD_MONTHLY,
					Price:         Price{"USD": decimal.RequireFromString("249.95")},
				},
			},
		},
	}
}

func TestDateOfFirstRecurringNonZeroCharge(t *testing.T) {
	plan := testPlan()
	start := time.Date(2012, time.May, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		initial *types.PhaseType
		want    time.Time
	}{
		{
			name: "from first phase",
			want: time.Date(2012, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "from trial",
			initial: lo.ToPtr(types.PhaseTypeTrial),
			want:    time.Date(2012, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "from discount",
			initial: lo.ToPtr(types.PhaseTypeDiscount),
			want:    time.Date(2012, time.June, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "from evergreen",
			initial: lo.ToPtr(types.PhaseTypeEvergreen),
			want:    start,
		},
		{
			name:    "unknown initial phase type",
			initial: lo.ToPtr(types.PhaseTypeFixedTerm),
			want:    start,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := plan.DateOfFirstRecurringNonZeroCharge(start, tt.initial)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestPhasePrices(t *testing.T) {
	plan := testPlan()
	trial := plan.FindPhase("basic-monthly-trial")
	evergreen := plan.FindPhase("basic-monthly-evergreen")

	assert.NotNil(t, trial.FixedPrice("USD"))
	assert.True(t, trial.FixedPrice("USD").IsZero())
	assert.Nil(t, trial.RecurringPrice("USD"))
	assert.Equal(t, types.BILLING_PERIOD_NONE, trial.BillingPeriod())

	assert.Nil(t, evergreen.FixedPrice("USD"))
	assert.True(t, evergreen.RecurringPrice("USD").Equal(decimal.RequireFromString("249.95")))
	assert.Nil(t, evergreen.RecurringPrice("GBP"))
	assert.Equal(t, types.BILLING_PERIOD_MONTHLY, evergreen.BillingPeriod())

	assert.Nil(t, plan.FindPhase("missing"))
	assert.Equal(t, types.BillingModeInAdvance, plan.Mode())
}

func TestNewPlanPhaseSpecifier(t *testing.T) {
	plan := testPlan()
	spec := NewPlanPhaseSpecifier(plan, plan.FindPhase("basic-monthly-evergreen"), "DEFAULT")

	assert.Equal(t, PlanPhaseSpecifier{
		ProductName:   "basic",
		Category:      types.SubscriptionCategoryBase,
		BillingPeriod: types.BILLING_PERIOD_MONTHLY,
		PhaseType:     types.PhaseTypeEvergreen,
		PriceListName: "DEFAULT",
	}, spec)
}
