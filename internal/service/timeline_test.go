package service

import (
	"context"
	"testing"
	"time"

	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/domain/subscription"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/testutil"
	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TimelineServiceSuite struct {
	testutil.BaseServiceTestSuite
}

func TestTimelineService(t *testing.T) {
	suite.Run(t, new(TimelineServiceSuite))
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s *TimelineServiceSuite) params() ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetCatalog(),
		stores.AccountRepo,
		stores.SubscriptionRepo,
		stores.BlockingRepo,
		stores.TagRepo,
		s.GetOrdering(),
		s.GetLocker(),
	)
}

func (s *TimelineServiceSuite) service() TimelineService {
	return NewTimelineService(s.params())
}

// createBasicSubscription creates a basic-monthly base subscription in its
// own bundle, phased from trial to evergreen 30 days after start
func (s *TimelineServiceSuite) createBasicSubscription(accountID string, start time.Time) (*subscription.Bundle, *subscription.Subscription) {
	bundle := s.CreateBundle(accountID)
	sub := s.CreateSubscription(bundle.ID, types.SubscriptionCategoryBase, start)
	s.CreateTransition(sub, types.TransitionTypeCreate, start,
		"", "", testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyTrial)
	s.CreateTransition(sub, types.TransitionTypePhase, start.AddDate(0, 0, 30),
		testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyTrial, testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyEvergreen)
	return bundle, sub
}

// invoiceItem is a simplified invoice line used to check what a timeline bills
type invoiceItem struct {
	start  time.Time
	end    *time.Time
	amount decimal.Decimal
	plan   string
}

// nextBillCycleDate is the first bill cycle day strictly after t
func nextBillCycleDate(t time.Time, bcd int) time.Time {
	y, m, _ := t.Date()
	for i := 0; ; i++ {
		month := time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, time.UTC)
		day := min(bcd, types.DaysInMonth(month.Year(), month.Month()))
		candidate := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, time.UTC)
		if candidate.After(t) {
			return candidate
		}
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// invoiceItems bills monthly in-advance events at day granularity up to
// target. Each event bills until the next event of its subscription.
func invoiceItems(events []billingevent.BillingEvent, target time.Time) []invoiceItem {
	var items []invoiceItem
	for i, e := range events {
		start := truncateDay(e.EffectiveDate)
		var until *time.Time
		if i+1 < len(events) && events[i+1].SubscriptionID == e.SubscriptionID {
			until = lo.ToPtr(truncateDay(events[i+1].EffectiveDate))
		}

		if e.FixedPrice != nil && !start.After(target) {
			items = append(items, invoiceItem{start: start, amount: *e.FixedPrice, plan: e.PlanName()})
		}
		if e.RecurringPrice == nil || e.BillingPeriod != types.BILLING_PERIOD_MONTHLY {
			continue
		}
		for !start.After(target) {
			end := nextBillCycleDate(start, e.BillCycleDayLocal)
			if until != nil && end.After(*until) {
				end = *until
			}
			if !end.After(start) {
				break
			}
			items = append(items, invoiceItem{start: start, end: lo.ToPtr(end), amount: *e.RecurringPrice, plan: e.PlanName()})
			start = end
			if until != nil && !start.Before(*until) {
				break
			}
		}
	}
	return items
}

func (s *TimelineServiceSuite) TestBlockedThenUpgradedInvoicesFourItems() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_blocked_upgrade")
	bundle, sub := s.createBasicSubscription(acc.ID, date(2012, 5, 1))

	s.CreateBlockingState(types.ObjectTypeBundle, bundle.ID, true, date(2012, 7, 15))
	s.CreateBlockingState(types.ObjectTypeBundle, bundle.ID, false, date(2012, 7, 25))
	s.CreateTransition(sub, types.TransitionTypeChange, date(2012, 7, 25).Add(4*time.Minute),
		testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyEvergreen, testutil.PlanPremiumMonthly, testutil.PhasePremiumMonthlyEvergreen)

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	events := timeline.Events()
	s.Require().Len(events, 5)
	s.Equal([]types.TransitionType{
		types.TransitionTypeCreate,
		types.TransitionTypePhase,
		types.TransitionTypeStartBillingDisabled,
		types.TransitionTypeEndBillingDisabled,
		types.TransitionTypeChange,
	}, lo.Map(events, func(e billingevent.BillingEvent, _ int) types.TransitionType { return e.TransitionType }))

	items := invoiceItems(events, date(2012, 7, 30))
	s.Require().Len(items, 4)

	s.Equal(date(2012, 5, 1), items[0].start)
	s.Nil(items[0].end)
	s.True(items[0].amount.IsZero())

	s.Equal(date(2012, 5, 31), items[1].start)
	s.Equal(date(2012, 6, 30), *items[1].end)
	s.True(items[1].amount.Equal(decimal.RequireFromString("249.95")))

	s.Equal(date(2012, 6, 30), items[2].start)
	s.Equal(date(2012, 7, 15), *items[2].end)

	s.Equal(date(2012, 7, 25), items[3].start)
	s.Equal(date(2012, 7, 31), *items[3].end)
	s.True(items[3].amount.Equal(decimal.NewFromInt(1000)))
	s.Equal(testutil.PlanPremiumMonthly, items[3].plan)

	for _, e := range events {
		s.Equal(31, e.BillCycleDayLocal)
	}
}

func (s *TimelineServiceSuite) TestBundleBillingOffSuspendsItsSubscriptions() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_bundle_off")
	_, active := s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	offBundle, offSub := s.createBasicSubscription(acc.ID, date(2012, 5, 3))
	addOn := s.CreateSubscription(offBundle.ID, types.SubscriptionCategoryAddOn, date(2012, 5, 10))
	s.CreateTransition(addOn, types.TransitionTypeCreate, date(2012, 5, 10),
		"", "", testutil.PlanStorageMonthly, testutil.PhaseStorageMonthlyEvergreen)
	s.Require().NoError(s.GetStores().TagRepo.AddControlTag(ctx, types.ObjectTypeBundle, offBundle.ID, types.ControlTagAutoInvoicingOff))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	s.False(timeline.AccountBillingSuspended)
	s.ElementsMatch([]string{offSub.ID, addOn.ID}, timeline.SuspendedSubscriptionIDs())
	s.True(timeline.IsSubscriptionSuspended(addOn.ID))
	s.False(timeline.IsSubscriptionSuspended(active.ID))

	s.Len(timeline.ForSubscription(active.ID), 2)
	for _, e := range timeline.Events() {
		s.NotEqual(offBundle.ID, e.BundleID)
	}
}

func (s *TimelineServiceSuite) TestAccountBillCycleDayIsPersistedOnce() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_bcd_discovery")
	s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	s.createBasicSubscription(acc.ID, date(2012, 5, 12))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)
	s.Equal(4, timeline.Len())

	s.Equal(1, s.GetStores().AccountRepo.BillCycleDayWrites())
	stored, err := s.GetStores().AccountRepo.Get(ctx, acc.ID)
	s.Require().NoError(err)
	s.Equal(31, stored.BillCycleDayLocal)

	for _, e := range timeline.Events() {
		s.Equal(31, e.BillCycleDayLocal)
	}

	_, err = s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)
	s.Equal(1, s.GetStores().AccountRepo.BillCycleDayWrites())
}

func (s *TimelineServiceSuite) TestAddOnCreatedWhileBlockedOnlyGetsReenabled() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_addon_blocked")
	bundle, base := s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	addOn := s.CreateSubscription(bundle.ID, types.SubscriptionCategoryAddOn, date(2012, 6, 15))
	s.CreateTransition(addOn, types.TransitionTypeCreate, date(2012, 6, 15),
		"", "", testutil.PlanStorageMonthly, testutil.PhaseStorageMonthlyEvergreen)

	s.CreateBlockingState(types.ObjectTypeBundle, bundle.ID, true, date(2012, 6, 1))
	s.CreateBlockingState(types.ObjectTypeBundle, bundle.ID, false, date(2012, 7, 1))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	addOnEvents := timeline.ForSubscription(addOn.ID)
	s.Require().Len(addOnEvents, 1)
	end := addOnEvents[0]
	s.Equal(types.TransitionTypeEndBillingDisabled, end.TransitionType)
	s.Equal(date(2012, 7, 1), end.EffectiveDate)
	s.Equal(testutil.PlanStorageMonthly, end.PlanName())
	s.Require().NotNil(end.RecurringPrice)
	s.True(end.RecurringPrice.Equal(decimal.RequireFromString("9.95")))
	// add-ons align on the base subscription
	s.Equal(31, end.BillCycleDayLocal)

	baseTypes := lo.Map(timeline.ForSubscription(base.ID), func(e billingevent.BillingEvent, _ int) types.TransitionType {
		return e.TransitionType
	})
	s.Equal([]types.TransitionType{
		types.TransitionTypeCreate,
		types.TransitionTypePhase,
		types.TransitionTypeStartBillingDisabled,
		types.TransitionTypeEndBillingDisabled,
	}, baseTypes)
}

func (s *TimelineServiceSuite) TestAccountBlockingAppliesToEveryBundle() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_account_blocked")
	_, first := s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	_, second := s.createBasicSubscription(acc.ID, date(2012, 5, 5))

	s.CreateBlockingState(types.ObjectTypeAccount, acc.ID, true, date(2012, 8, 1))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	for _, sub := range []*subscription.Subscription{first, second} {
		events := timeline.ForSubscription(sub.ID)
		s.Require().Len(events, 3)
		last := events[2]
		s.Equal(types.TransitionTypeStartBillingDisabled, last.TransitionType)
		s.Equal(date(2012, 8, 1), last.EffectiveDate)
		s.Nil(last.RecurringPrice)
		s.Equal(types.BILLING_PERIOD_NONE, last.BillingPeriod)
	}
}

func (s *TimelineServiceSuite) TestAccountBillingOff() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_off")
	s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	s.Require().NoError(s.GetStores().TagRepo.AddControlTag(ctx, types.ObjectTypeAccount, acc.ID, types.ControlTagAutoInvoicingOff))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)
	s.True(timeline.AccountBillingSuspended)
	s.True(timeline.IsEmpty())
	s.Zero(s.GetStores().AccountRepo.BillCycleDayWrites())
}

func (s *TimelineServiceSuite) TestUnknownPlanSkipsOnlyThatTransition() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_unknown_plan")
	_, sub := s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	s.CreateTransition(sub, types.TransitionTypeChange, date(2012, 6, 10),
		testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyEvergreen, "ghost-monthly", "ghost-monthly-evergreen")

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	events := timeline.ForSubscription(sub.ID)
	s.Require().Len(events, 2)
	s.Equal(types.TransitionTypeCreate, events[0].TransitionType)
	s.Equal(types.TransitionTypePhase, events[1].TransitionType)
}

// alignmentOverride answers every billing alignment lookup with alignment
type alignmentOverride struct {
	catalog.Catalog
	alignment types.BillingAlignment
}

func (c alignmentOverride) BillingAlignment(context.Context, catalog.PlanPhaseSpecifier, time.Time) (types.BillingAlignment, error) {
	return c.alignment, nil
}

func (s *TimelineServiceSuite) TestUnresolvedAlignmentSkipsTransitions() {
	ctx := s.GetContext()
	s.SetCatalog(alignmentOverride{Catalog: s.GetCatalog(), alignment: "NONE"})
	acc := s.CreateAccount("acct_no_alignment")
	_, sub := s.createBasicSubscription(acc.ID, date(2012, 5, 1))

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)
	s.Empty(timeline.ForSubscription(sub.ID))
	s.Zero(s.GetStores().AccountRepo.BillCycleDayWrites())
}

func (s *TimelineServiceSuite) TestSubscriptionBillCycleDayOverridesAlignment() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_sub_bcd")
	bundle := s.CreateBundle(acc.ID)
	sub := &subscription.Subscription{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SUBSCRIPTION),
		BundleID:          bundle.ID,
		Category:          types.SubscriptionCategoryBase,
		State:             types.SubscriptionStateActive,
		StartDate:         date(2012, 5, 1),
		BillCycleDayLocal: lo.ToPtr(15),
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().SubscriptionRepo.CreateSubscription(ctx, sub))
	s.CreateTransition(sub, types.TransitionTypeCreate, date(2012, 5, 1),
		"", "", testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyTrial)

	bcdChange := &subscription.Transition{
		ID:                    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSITION),
		SubscriptionID:        sub.ID,
		Type:                  types.TransitionTypeBCDChange,
		EffectiveDate:         date(2012, 5, 20),
		SubscriptionStartDate: sub.StartDate,
		PrevPlan:              testutil.PlanBasicMonthly,
		PrevPhase:             testutil.PhaseBasicMonthlyTrial,
		NextPlan:              testutil.PlanBasicMonthly,
		NextPhase:             testutil.PhaseBasicMonthlyTrial,
		BillCycleDayLocal:     lo.ToPtr(10),
		BaseModel:             types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.GetStores().SubscriptionRepo.CreateTransition(ctx, bcdChange))
	s.CreateTransition(sub, types.TransitionTypePhase, date(2012, 5, 31),
		testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyTrial, testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyEvergreen)

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	events := timeline.ForSubscription(sub.ID)
	s.Require().Len(events, 3)
	s.Equal([]int{15, 10, 10}, lo.Map(events, func(e billingevent.BillingEvent, _ int) int { return e.BillCycleDayLocal }))
	s.NotNil(events[0].FixedPrice)
	s.Nil(events[1].FixedPrice)
	s.Zero(s.GetStores().AccountRepo.BillCycleDayWrites())
}

func (s *TimelineServiceSuite) TestCancelledSubscription() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_cancelled")
	_, sub := s.createBasicSubscription(acc.ID, date(2012, 5, 1))
	s.CreateTransition(sub, types.TransitionTypeCancel, date(2012, 7, 1),
		testutil.PlanBasicMonthly, testutil.PhaseBasicMonthlyEvergreen, "", "")

	timeline, err := s.service().BuildCorrectedTimeline(ctx, acc.ID)
	s.Require().NoError(err)

	events := timeline.ForSubscription(sub.ID)
	s.Require().Len(events, 3)
	cancel := events[2]
	s.Equal(types.TransitionTypeCancel, cancel.TransitionType)
	s.Equal(testutil.PlanBasicMonthly, cancel.PlanName())
	s.Equal(testutil.PhaseBasicMonthlyEvergreen, cancel.PhaseName())
	s.Nil(cancel.RecurringPrice)
	s.Nil(cancel.FixedPrice)
}

// failingSubscriptionRepo fails every transition fetch
type failingSubscriptionRepo struct {
	subscription.Repository
	err error
}

func (r failingSubscriptionRepo) ListTransitions(context.Context, string) ([]*subscription.Transition, error) {
	return nil, r.err
}

func (s *TimelineServiceSuite) TestUpstreamFailureAbortsBuild() {
	ctx := s.GetContext()
	acc := s.CreateAccount("acct_upstream")
	s.createBasicSubscription(acc.ID, date(2012, 5, 1))

	params := s.params()
	params.SubRepo = failingSubscriptionRepo{
		Repository: s.GetStores().SubscriptionRepo,
		err:        ierr.NewError("connection reset").Mark(ierr.ErrDatabase),
	}

	timeline, err := NewTimelineService(params).BuildCorrectedTimeline(ctx, acc.ID)
	s.Nil(timeline)
	s.Require().Error(err)
	s.True(ierr.IsUpstreamFailure(err))
	s.True(ierr.IsDatabase(err))
}

func (s *TimelineServiceSuite) TestUnknownAccount() {
	timeline, err := s.service().BuildCorrectedTimeline(s.GetContext(), "acct_missing")
	s.Nil(timeline)
	s.True(ierr.IsUpstreamFailure(err))
	s.True(ierr.IsNotFound(err))
}

func (s *TimelineServiceSuite) TestMissingTenant() {
	acc := s.CreateAccount("acct_no_tenant")
	_, err := s.service().BuildCorrectedTimeline(context.Background(), acc.ID)
	s.True(ierr.IsValidation(err))
}

func (s *TimelineServiceSuite) TestBuildCorrectedTimelines() {
	ctx := s.GetContext()
	first := s.CreateAccount("acct_batch_1")
	s.createBasicSubscription(first.ID, date(2012, 5, 1))
	second := s.CreateAccount("acct_batch_2")
	s.createBasicSubscription(second.ID, date(2012, 6, 1))
	s.createBasicSubscription(second.ID, date(2012, 6, 2))

	ids := []string{first.ID, "acct_batch_missing", second.ID}
	results := s.service().BuildCorrectedTimelines(ctx, ids)

	s.Require().Len(results, 3)
	s.Equal(ids, lo.Map(results, func(r *AccountTimelineResult, _ int) string { return r.AccountID }))

	s.NoError(results[0].Err)
	s.Equal(2, results[0].Timeline.Len())

	s.True(ierr.IsNotFound(results[1].Err))
	s.Nil(results[1].Timeline)

	s.NoError(results[2].Err)
	s.Equal(4, results[2].Timeline.Len())

	s.Equal(3, s.GetLocker().Calls())
}
