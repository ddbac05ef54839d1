package billingevent

import (
	"time"

	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/types"
	"github.com/shopspring/decimal"
)

// BillingEvent is one dated fact describing what a subscription is billed
// from EffectiveDate onward. Events are values: they are built once, then
// only copied with Clone, inserted into or removed from a Timeline.
type BillingEvent struct {
	AccountID      string
	BundleID       string
	SubscriptionID string
	EffectiveDate  time.Time

	Plan      *catalog.Plan
	PlanPhase *catalog.PlanPhase

	// FixedPrice and RecurringPrice are nil when the phase does not charge them
	FixedPrice     *decimal.Decimal
	RecurringPrice *decimal.Decimal
	Currency       string
	BillingPeriod  types.BillingPeriod

	BillCycleDayLocal int
	BillingMode       types.BillingMode
	Description       string
	TransitionType    types.TransitionType
	TotalOrdering     int64
	TimeZone          *time.Location
}

// Option overrides a field when cloning an event
type Option func(*BillingEvent)

func WithEffectiveDate(t time.Time) Option {
	return func(e *BillingEvent) { e.EffectiveDate = t }
}

func WithTransitionType(t types.TransitionType) Option {
	return func(e *BillingEvent) {
		e.TransitionType = t
	}
}

func WithTotalOrdering(o int64) Option {
	return func(e *BillingEvent) { e.TotalOrdering = o }
}

func WithDescription(d string) Option {
	return func(e *BillingEvent) { e.Description = d }
}

// WithoutCharges clears both prices and sets NO_BILLING_PERIOD so invoicing
// disregards the event
func WithoutCharges() Option {
	return func(e *BillingEvent) {
		e.FixedPrice = nil
		e.RecurringPrice = nil
		e.BillingPeriod = types.BILLING_PERIOD_NONE
	}
}

// Clone returns a copy of e with opts applied
func (e BillingEvent) Clone(opts ...Option) BillingEvent {
	c := e
	if e.FixedPrice != nil {
		fixed := *e.FixedPrice
		c.FixedPrice = &fixed
	}
	if e.RecurringPrice != nil {
		recurring := *e.RecurringPrice
		c.RecurringPrice = &recurring
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// IsBillingDisabledBoundary is true for the synthetic events of a disabled period
func (e BillingEvent) IsBillingDisabledBoundary() bool {
	return e.TransitionType.IsBillingDisabledBoundary()
}

// PlanName returns the plan name or an empty string
func (e BillingEvent) PlanName() string {
	if e.Plan == nil {
		return ""
	}
	return e.Plan.Name
}

// PhaseName returns the phase name or an empty string
func (e BillingEvent) PhaseName() string {
	if e.PlanPhase == nil {
		return ""
	}
	return e.PlanPhase.Name
}
