package subscription

import (
	"time"

	"github.com/flexprice/junction/internal/types"
)

// Bundle groups one base subscription with its add-ons. Bundles share
// lifecycle and blocking state.
type Bundle struct {
	ID          string `db:"id" json:"id"`
	AccountID   string `db:"account_id" json:"account_id"`
	ExternalKey string `db:"external_key" json:"external_key"`

	types.BaseModel
}

// Subscription is a subscription to one catalog product inside a bundle
type Subscription struct {
	ID        string                     `db:"id" json:"id"`
	BundleID  string                     `db:"bundle_id" json:"bundle_id"`
	Category  types.SubscriptionCategory `db:"category" json:"category"`
	State     types.SubscriptionState    `db:"state" json:"state"`
	StartDate time.Time                  `db:"start_date" json:"start_date"`

	// BillCycleDayLocal overrides any alignment policy when set
	BillCycleDayLocal *int `db:"bill_cycle_day_local" json:"bill_cycle_day_local,omitempty"`

	types.BaseModel
}

// IsBase reports whether the subscription anchors its bundle
func (s *Subscription) IsBase() bool {
	return s.Category == types.SubscriptionCategoryBase
}

// Transition is one persisted lifecycle change of a subscription. Plan, phase
// and price list names are empty when absent, ex Prev* on CREATE and Next* on CANCEL.
type Transition struct {
	ID                    string               `db:"id" json:"id"`
	SubscriptionID        string               `db:"subscription_id" json:"subscription_id"`
	Type                  types.TransitionType `db:"transition_type" json:"transition_type"`
	EffectiveDate         time.Time            `db:"effective_date" json:"effective_date"`
	SubscriptionStartDate time.Time            `db:"subscription_start_date" json:"subscription_start_date"`

	PrevPlan      string `db:"prev_plan" json:"prev_plan,omitempty"`
	PrevPhase     string `db:"prev_phase" json:"prev_phase,omitempty"`
	PrevPriceList string `db:"prev_price_list" json:"prev_price_list,omitempty"`
	NextPlan      string `db:"next_plan" json:"next_plan,omitempty"`
	NextPhase     string `db:"next_phase" json:"next_phase,omitempty"`
	NextPriceList string `db:"next_price_list" json:"next_price_list,omitempty"`

	// BillCycleDayLocal is the new bill cycle day carried by BCD_CHANGE transitions
	BillCycleDayLocal *int `db:"bill_cycle_day_local" json:"bill_cycle_day_local,omitempty"`

	types.BaseModel
}

// IsActive is false for cancellations, whose billing is described by the
// plan the subscription is leaving
func (t *Transition) IsActive() bool {
	return t.Type != types.TransitionTypeCancel
}

// EffectivePlan returns the plan describing billing from this transition on
func (t *Transition) EffectivePlan() string {
	if t.IsActive() {
		return t.NextPlan
	}
	return t.PrevPlan
}

// EffectivePhase returns the phase describing billing from this transition on
func (t *Transition) EffectivePhase() string {
	if t.IsActive() {
		return t.NextPhase
	}
	return t.PrevPhase
}

// EffectivePriceList returns the price list describing billing from this transition on
func (t *Transition) EffectivePriceList() string {
	if t.IsActive() {
		return t.NextPriceList
	}
	return t.PrevPriceList
}

// BaseSubscription returns the base subscription of a bundle, or nil
func BaseSubscription(subs []*Subscription) *Subscription {
	for _, s := range subs {
		if s.IsBase() {
			return s
		}
	}
	return nil
}

// LastActivePlan returns the last plan the transitions moved to. For a
// cancelled subscription this is the plan it was on before the cancellation.
func LastActivePlan(transitions []*Transition) string {
	for i := len(transitions) - 1; i >= 0; i-- {
		if transitions[i].NextPlan != "" {
			return transitions[i].NextPlan
		}
	}
	return ""
}
