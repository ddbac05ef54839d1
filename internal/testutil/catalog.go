package testutil

import (
	"time"

	"github.com/flexprice/junction/internal/catalog"
	domainCatalog "github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/types"
	"github.com/shopspring/decimal"
)

// Plan and phase names of the test catalog
const (
	PlanBasicMonthly   = "basic-monthly"
	PlanBasicAnnual    = "basic-annual"
	PlanPremiumMonthly = "premium-monthly"
	PlanStorageMonthly = "storage-monthly"

	PhaseBasicMonthlyTrial       = "basic-monthly-trial"
	PhaseBasicMonthlyEvergreen   = "basic-monthly-evergreen"
	PhaseBasicAnnualTrial        = "basic-annual-trial"
	PhaseBasicAnnualEvergreen    = "basic-annual-evergreen"
	PhasePremiumMonthlyEvergreen = "premium-monthly-evergreen"
	PhaseStorageMonthlyEvergreen = "storage-monthly-evergreen"

	PriceListDefault = "DEFAULT"
)

func usd(amount string) domainCatalog.Price {
	return domainCatalog.Price{"USD": decimal.RequireFromString(amount)}
}

func trialPhase(name string, days int) *domainCatalog.PlanPhase {
	return &domainCatalog.PlanPhase{
		Name:      name,
		PhaseType: types.PhaseTypeTrial,
		Duration:  types.Duration{Unit: types.TimeUnitDays, Number: days},
		Fixed:     &domainCatalog.Fixed{Price: usd("0")},
	}
}

func evergreenPhase(name string, period types.BillingPeriod, amount string) *domainCatalog.PlanPhase {
	return &domainCatalog.PlanPhase{
		Name:      name,
		PhaseType: types.PhaseTypeEvergreen,
		Duration:  types.Duration{Unit: types.TimeUnitUnlimited},
		Recurring: &domainCatalog.Recurring{BillingPeriod: period, Price: usd(amount)},
	}
}

// NewTestCatalog returns a single version catalog, effective 2011-01-01,
// where add-ons align on their bundle, annual phases on their subscription
// and everything else on the account.
func NewTestCatalog() *catalog.StaticCatalog {
	basic := domainCatalog.Product{Name: "basic", Category: types.SubscriptionCategoryBase}
	premium := domainCatalog.Product{Name: "premium", Category: types.SubscriptionCategoryBase}
	storage := domainCatalog.Product{Name: "storage", Category: types.SubscriptionCategoryAddOn}

	version, err := catalog.NewVersion(
		time.Date(2011, 1, 1, 0, 0, 0, 0, time.UTC),
		types.BillingAlignmentAccount,
		[]catalog.AlignmentRule{
			{Category: types.SubscriptionCategoryAddOn, Alignment: types.BillingAlignmentBundle},
			{BillingPeriod: types.BILLING_PERIOD_ANNUAL, Alignment: types.BillingAlignmentSubscription},
		},
		&domainCatalog.Plan{
			Name:        PlanBasicMonthly,
			Product:     basic,
			BillingMode: types.BillingModeInAdvance,
			Phases: []*domainCatalog.PlanPhase{
				trialPhase(PhaseBasicMonthlyTrial, 30),
				evergreenPhase(PhaseBasicMonthlyEvergreen, types.BILLING_PERIOD_MONTHLY, "249.95"),
			},
		},
		&domainCatalog.Plan{
			Name:    PlanBasicAnnual,
			Product: basic,
			Phases: []*domainCatalog.PlanPhase{
				trialPhase(PhaseBasicAnnualTrial, 30),
				evergreenPhase(PhaseBasicAnnualEvergreen, types.BILLING_PERIOD_ANNUAL, "2399.95"),
			},
		},
		&domainCatalog.Plan{
			Name:    PlanPremiumMonthly,
			Product: premium,
			Phases: []*domainCatalog.PlanPhase{
				evergreenPhase(PhasePremiumMonthlyEvergreen, types.BILLING_PERIOD_MONTHLY, "1000"),
			},
		},
		&domainCatalog.Plan{
			Name:    PlanStorageMonthly,
			Product: storage,
			Phases: []*domainCatalog.PlanPhase{
				evergreenPhase(PhaseStorageMonthlyEvergreen, types.BILLING_PERIOD_MONTHLY, "9.95"),
			},
		},
	)
	if err != nil {
		panic(err)
	}

	c, err := catalog.NewStaticCatalog(version)
	if err != nil {
		panic(err)
	}
	return c
}
