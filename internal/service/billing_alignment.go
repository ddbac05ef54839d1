package service

import (
	"context"
	"time"

	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/domain/subscription"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
)

// BillCycleDay is the resolved anchor day of a transition
type BillCycleDay struct {
	// UTC is the day of month of the anchor instant in UTC
	UTC int
	// Local is the same instant seen from the account time zone
	Local     int
	Alignment types.BillingAlignment

	// AccountFallback is set when ACCOUNT alignment found no stored account
	// bill cycle day and computed one from the subscription. Callers persist
	// Local on the account in that case.
	AccountFallback bool
}

// BillCycleDayRequest carries everything the resolver reads. Transitions
// are the ones of Subscription, BaseTransitions the ones of BaseSubscription.
type BillCycleDayRequest struct {
	Transition       *subscription.Transition
	Account          *account.Account
	Subscription     *subscription.Subscription
	Transitions      []*subscription.Transition
	BaseSubscription *subscription.Subscription
	BaseTransitions  []*subscription.Transition
}

type BillingAlignmentResolver interface {
	ResolveBillCycleDay(ctx context.Context, req BillCycleDayRequest) (*BillCycleDay, error)
}

type billingAlignmentResolver struct {
	ServiceParams
}

func NewBillingAlignmentResolver(params ServiceParams) BillingAlignmentResolver {
	return &billingAlignmentResolver{ServiceParams: params}
}

func (r *billingAlignmentResolver) ResolveBillCycleDay(ctx context.Context, req BillCycleDayRequest) (*BillCycleDay, error) {
	t := req.Transition
	sub := req.Subscription

	plan, err := r.Catalog.FindPlan(ctx, t.EffectivePlan(), t.EffectiveDate, sub.StartDate)
	if err != nil {
		return nil, err
	}
	phase, err := r.Catalog.FindPhase(ctx, t.EffectivePhase(), t.EffectiveDate, sub.StartDate)
	if err != nil {
		return nil, err
	}

	spec := catalog.NewPlanPhaseSpecifier(plan, phase, t.EffectivePriceList())
	alignment, err := r.Catalog.BillingAlignment(ctx, spec, t.EffectiveDate)
	if err != nil {
		return nil, err
	}

	loc := req.Account.Location()
	result := &BillCycleDay{Alignment: alignment}

	switch alignment {
	case types.BillingAlignmentAccount:
		if req.Account.HasBillCycleDay() {
			result.Local = req.Account.BillCycleDayLocal
			result.UTC = req.Account.BillCycleDayLocal
			break
		}
		result.UTC, result.Local = r.fromSubscription(ctx, sub, req.Transitions, plan, loc)
		result.AccountFallback = true

	case types.BillingAlignmentBundle:
		// a bundle without base subscription aligns on the subscription itself
		base := req.BaseSubscription
		if base == nil {
			result.UTC, result.Local = r.fromSubscription(ctx, sub, req.Transitions, plan, loc)
			break
		}
		basePlan, err := r.Catalog.FindPlan(ctx, subscription.LastActivePlan(req.BaseTransitions), t.EffectiveDate, base.StartDate)
		if err != nil {
			return nil, err
		}
		result.UTC, result.Local = r.fromSubscription(ctx, base, req.BaseTransitions, basePlan, loc)

	case types.BillingAlignmentSubscription:
		result.UTC, result.Local = r.fromSubscription(ctx, sub, req.Transitions, plan, loc)
	}

	if result.Local == 0 {
		return nil, ierr.NewError("no valid billing alignment").
			WithHintf("Billing alignment %s did not resolve a bill cycle day", alignment).
			WithReportableDetails(map[string]interface{}{
				"alignment":       alignment,
				"subscription_id": sub.ID,
				"transition_id":   t.ID,
			}).
			Mark(ierr.ErrBillingAlignment)
	}

	return result, nil
}

// fromSubscription anchors the bill cycle day on the first non-zero
// recurring charge of plan for sub
func (r *billingAlignmentResolver) fromSubscription(
	ctx context.Context,
	sub *subscription.Subscription,
	transitions []*subscription.Transition,
	plan *catalog.Plan,
	loc *time.Location,
) (int, int) {
	date := plan.DateOfFirstRecurringNonZeroCharge(sub.StartDate, r.initialPhaseType(ctx, sub, transitions))
	return date.UTC().Day(), types.DayOfMonthIn(date, loc)
}

// initialPhaseType is the phase type the earliest transition moved to, nil
// when there is none or it cannot be found in the catalog
func (r *billingAlignmentResolver) initialPhaseType(ctx context.Context, sub *subscription.Subscription, transitions []*subscription.Transition) *types.PhaseType {
	if len(transitions) == 0 {
		return nil
	}
	first := lo.MinBy(transitions, func(a, b *subscription.Transition) bool {
		return a.EffectiveDate.Before(b.EffectiveDate)
	})
	if first.NextPhase == "" {
		return nil
	}
	phase, err := r.Catalog.FindPhase(ctx, first.NextPhase, first.EffectiveDate, sub.StartDate)
	if err != nil || phase == nil {
		return nil
	}
	return lo.ToPtr(phase.PhaseType)
}
