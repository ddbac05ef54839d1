package service

import (
	"context"

	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/types"
)

// BillingEventRequest is one transition to turn into a billing event
type BillingEventRequest struct {
	Account           *account.Account
	Bundle            *subscription.Bundle
	Subscription      *subscription.Subscription
	Transition        *subscription.Transition
	BillCycleDayLocal int
}

// NewBillingEvent derives the billing event of a transition. Billing follows
// the plan and phase the subscription moves to, or the ones it leaves on
// CANCEL. Prices always come from the next phase so a cancellation carries
// none, and BCD_CHANGE re-anchors the cycle without charging the fixed fee.
func NewBillingEvent(ctx context.Context, cat catalog.Catalog, ordering billingevent.OrderingService, req BillingEventRequest) (billingevent.BillingEvent, error) {
	t := req.Transition
	start := req.Subscription.StartDate

	plan, err := cat.FindPlan(ctx, t.EffectivePlan(), t.EffectiveDate, start)
	if err != nil {
		return billingevent.BillingEvent{}, err
	}
	phase, err := cat.FindPhase(ctx, t.EffectivePhase(), t.EffectiveDate, start)
	if err != nil {
		return billingevent.BillingEvent{}, err
	}

	var nextPhase *catalog.PlanPhase
	if t.NextPhase != "" {
		if nextPhase, err = cat.FindPhase(ctx, t.NextPhase, t.EffectiveDate, start); err != nil {
			return billingevent.BillingEvent{}, err
		}
	}

	currency := req.Account.Currency
	event := billingevent.BillingEvent{
		AccountID:         req.Account.ID,
		BundleID:          req.Bundle.ID,
		SubscriptionID:    req.Subscription.ID,
		EffectiveDate:     t.EffectiveDate,
		Plan:              plan,
		PlanPhase:         phase,
		RecurringPrice:    nextPhase.RecurringPrice(currency),
		Currency:          currency,
		BillingPeriod:     phase.BillingPeriod(),
		BillCycleDayLocal: req.BillCycleDayLocal,
		BillingMode:       plan.Mode(),
		Description:       string(t.Type),
		TransitionType:    t.Type,
		TotalOrdering:     ordering.Next(),
		TimeZone:          req.Account.Location(),
	}
	if t.Type != types.TransitionTypeBCDChange {
		event.FixedPrice = nextPhase.FixedPrice(currency)
	}

	return event, nil
}
