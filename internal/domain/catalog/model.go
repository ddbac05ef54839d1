package catalog

import (
	"time"

	"github.com/flexprice/junction/internal/types"
	"github.com/shopspring/decimal"
)

// Product is the catalog product a plan sells
type Product struct {
	Name     string                     `json:"name"`
	Category types.SubscriptionCategory `json:"category"`
}

// Price maps a currency code to an amount
type Price map[string]decimal.Decimal

// IsZero reports whether every currency amount is zero. An empty price is zero.
func (p Price) IsZero() bool {
	for _, amount := range p {
		if !amount.IsZero() {
			return false
		}
	}
	return true
}

// For returns the amount for currency, or nil when the price does not define it
func (p Price) For(currency string) *decimal.Decimal {
	amount, ok := p[currency]
	if !ok {
		return nil
	}
	return &amount
}

// Fixed is the one-off charge of a phase
type Fixed struct {
	Price Price `json:"price"`
}

// Recurring is the periodic charge of a phase
type Recurring struct {
	BillingPeriod types.BillingPeriod `json:"billing_period"`
	Price         Price               `json:"price"`
}

// PlanPhase is one step of a plan ex basic-monthly-trial
type PlanPhase struct {
	Name      string          `json:"name"`
	PhaseType types.PhaseType `json:"phase_type"`
	Duration  types.Duration  `json:"duration"`
	Fixed     *Fixed          `json:"fixed,omitempty"`
	Recurring *Recurring      `json:"recurring,omitempty"`
}

// FixedPrice returns the fixed amount for currency, nil when the phase has no fixed section
func (p *PlanPhase) FixedPrice(currency string) *decimal.Decimal {
	if p == nil || p.Fixed == nil {
		return nil
	}
	return p.Fixed.Price.For(currency)
}

// RecurringPrice returns the recurring amount for currency, nil when the phase has no recurring section
func (p *PlanPhase) RecurringPrice(currency string) *decimal.Decimal {
	if p == nil || p.Recurring == nil {
		return nil
	}
	return p.Recurring.Price.For(currency)
}

// BillingPeriod returns the recurring billing period or NO_BILLING_PERIOD
func (p *PlanPhase) BillingPeriod() types.BillingPeriod {
	if p == nil || p.Recurring == nil || p.Recurring.BillingPeriod == "" {
		return types.BILLING_PERIOD_NONE
	}
	return p.Recurring.BillingPeriod
}

func (p *PlanPhase) hasNonZeroRecurring() bool {
	return p.Recurring != nil && len(p.Recurring.Price) > 0 && !p.Recurring.Price.IsZero()
}

// Plan is a product offering made of ordered phases
type Plan struct {
	Name        string            `json:"name"`
	Product     Product           `json:"product"`
	BillingMode types.BillingMode `json:"billing_mode"`
	Phases      []*PlanPhase      `json:"phases"`
}

// FindPhase returns the phase with the given name, or nil
func (p *Plan) FindPhase(name string) *PlanPhase {
	for _, phase := range p.Phases {
		if phase.Name == name {
			return phase
		}
	}
	return nil
}

// Mode returns the plan billing mode, in advance when unset
func (p *Plan) Mode() types.BillingMode {
	if p == nil || p.BillingMode == "" {
		return types.BillingModeInAdvance
	}
	return p.BillingMode
}

// DateOfFirstRecurringNonZeroCharge walks the phases starting at the one of
// initialPhaseType (the first phase when nil) and returns the date the first
// phase with a non-zero recurring price starts. Unlimited phases stop the walk.
func (p *Plan) DateOfFirstRecurringNonZeroCharge(subscriptionStart time.Time, initialPhaseType *types.PhaseType) time.Time {
	result := subscriptionStart
	skip := initialPhaseType != nil

	for _, phase := range p.Phases {
		if skip {
			if phase.PhaseType != *initialPhaseType {
				continue
			}
			skip = false
		}

		if phase.Duration.IsUnlimited() || phase.hasNonZeroRecurring() {
			break
		}

		next, ok := phase.Duration.AddTo(result)
		if !ok {
			break
		}
		result = next
	}

	return result
}

// PlanPhaseSpecifier identifies the catalog coordinates a billing alignment rule matches on
type PlanPhaseSpecifier struct {
	ProductName   string                     `json:"product_name"`
	Category      types.SubscriptionCategory `json:"category"`
	BillingPeriod types.BillingPeriod        `json:"billing_period"`
	PhaseType     types.PhaseType            `json:"phase_type"`
	PriceListName string                     `json:"price_list_name"`
}

// NewPlanPhaseSpecifier builds the specifier of phase within plan
func NewPlanPhaseSpecifier(plan *Plan, phase *PlanPhase, priceList string) PlanPhaseSpecifier {
	spec := PlanPhaseSpecifier{PriceListName: priceList}
	if plan != nil {
		spec.ProductName = plan.Product.Name
		spec.Category = plan.Product.Category
	}
	if phase != nil {
		spec.BillingPeriod = phase.BillingPeriod()
		spec.PhaseType = phase.PhaseType
	}
	return spec
}
