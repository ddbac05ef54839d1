package service

import (
	"context"
	"slices"

	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/domain/blocking"
	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/domain/tag"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/types"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// TimelineService builds the corrected billing event timeline invoicing consumes
type TimelineService interface {
	// BuildCorrectedTimeline assembles the events of every bundle of the
	// account and applies its disabled intervals. Collaborator failures abort
	// the build and are marked ierr.ErrUpstream. Transitions whose catalog
	// lookup or billing alignment fails are logged and left out.
	BuildCorrectedTimeline(ctx context.Context, accountID string) (*billingevent.Timeline, error)

	// BuildCorrectedTimelines builds several accounts concurrently, each under
	// its account lock. Results follow the order of accountIDs.
	BuildCorrectedTimelines(ctx context.Context, accountIDs []string) []*AccountTimelineResult
}

// AccountTimelineResult is the outcome of one account of a batch
type AccountTimelineResult struct {
	AccountID string
	Timeline  *billingevent.Timeline
	Err       error
}

type timelineService struct {
	ServiceParams
	resolver BillingAlignmentResolver
}

func NewTimelineService(params ServiceParams) TimelineService {
	return &timelineService{
		ServiceParams: params,
		resolver:      NewBillingAlignmentResolver(params),
	}
}

// bundleHistory is what the build fetched for one bundle
type bundleHistory struct {
	bundle      *subscription.Bundle
	subs        []*subscription.Subscription
	transitions map[string][]*subscription.Transition
	base        *subscription.Subscription
}

func (s *timelineService) BuildCorrectedTimeline(ctx context.Context, accountID string) (*billingevent.Timeline, error) {
	if err := types.ValidateTenantContext(ctx); err != nil {
		return nil, err
	}
	log := s.Logger.WithContext(ctx).With("account_id", accountID)

	acc, err := s.AccountRepo.Get(ctx, accountID)
	if err != nil {
		return nil, upstream(err, "Failed to fetch account %s", accountID)
	}

	bundles, err := s.SubRepo.ListBundles(ctx, accountID)
	if err != nil {
		return nil, upstream(err, "Failed to fetch bundles of account %s", accountID)
	}

	accountOff, err := tag.IsBillingOff(ctx, s.TagRepo, types.ObjectTypeAccount, accountID)
	if err != nil {
		return nil, upstream(err, "Failed to fetch tags of account %s", accountID)
	}
	if accountOff {
		log.Infow("billing is off for account, returning suspended timeline", "bundles", len(bundles))
		timeline := billingevent.NewTimeline()
		timeline.AccountBillingSuspended = true
		return timeline, nil
	}

	accountStates, err := s.BlockingRepo.ListByBlockable(ctx, types.ObjectTypeAccount, accountID)
	if err != nil {
		return nil, upstream(err, "Failed to fetch blocking states of account %s", accountID)
	}

	raw := billingevent.NewTimeline()
	intervals := make(map[string][]blocking.DisabledInterval)

	for _, bundle := range bundles {
		history, err := s.fetchBundle(ctx, bundle)
		if err != nil {
			return nil, err
		}

		bundleOff, err := tag.IsBillingOff(ctx, s.TagRepo, types.ObjectTypeBundle, bundle.ID)
		if err != nil {
			return nil, upstream(err, "Failed to fetch tags of bundle %s", bundle.ID)
		}
		if bundleOff {
			for _, sub := range history.subs {
				raw.SuspendSubscription(sub.ID)
			}
			log.Infow("billing is off for bundle, suspending its subscriptions",
				"bundle_id", bundle.ID,
				"subscriptions", len(history.subs))
			continue
		}

		for _, sub := range history.subs {
			s.addSubscriptionEvents(ctx, log, raw, acc, history, sub)
		}

		bundleStates, err := s.BlockingRepo.ListByBlockable(ctx, types.ObjectTypeBundle, bundle.ID)
		if err != nil {
			return nil, upstream(err, "Failed to fetch blocking states of bundle %s", bundle.ID)
		}
		if disabled := blocking.ExtractDisabledIntervals(append(slices.Clone(accountStates), bundleStates...)); len(disabled) > 0 {
			intervals[bundle.ID] = disabled
		}
	}

	corrected := blocking.NewCorrector(s.Ordering).Correct(raw, intervals)

	log.Infow("built billing event timeline",
		"events", corrected.Len(),
		"raw_events", raw.Len(),
		"disabled_bundles", len(intervals),
		"suspended_subscriptions", len(corrected.SuspendedSubscriptionIDs()))

	return corrected, nil
}

func (s *timelineService) fetchBundle(ctx context.Context, bundle *subscription.Bundle) (*bundleHistory, error) {
	subs, err := s.SubRepo.ListSubscriptions(ctx, bundle.ID)
	if err != nil {
		return nil, upstream(err, "Failed to fetch subscriptions of bundle %s", bundle.ID)
	}

	history := &bundleHistory{
		bundle:      bundle,
		subs:        subs,
		transitions: make(map[string][]*subscription.Transition, len(subs)),
		base:        subscription.BaseSubscription(subs),
	}
	for _, sub := range subs {
		transitions, err := s.SubRepo.ListTransitions(ctx, sub.ID)
		if err != nil {
			return nil, upstream(err, "Failed to fetch transitions of subscription %s", sub.ID)
		}
		slices.SortStableFunc(transitions, func(a, b *subscription.Transition) int {
			return a.EffectiveDate.Compare(b.EffectiveDate)
		})
		history.transitions[sub.ID] = transitions
	}
	return history, nil
}

// addSubscriptionEvents adds one event per transition of sub. A BCD_CHANGE
// carrying a bill cycle day pins it for the rest of the subscription, then a
// subscription level bill cycle day wins over the alignment policy.
func (s *timelineService) addSubscriptionEvents(
	ctx context.Context,
	log *zap.SugaredLogger,
	timeline *billingevent.Timeline,
	acc *account.Account,
	history *bundleHistory,
	sub *subscription.Subscription,
) {
	transitions := history.transitions[sub.ID]
	var pinned *int

	for _, t := range transitions {
		if t.Type == types.TransitionTypeBCDChange && t.BillCycleDayLocal != nil {
			pinned = t.BillCycleDayLocal
		}

		var bcd int
		switch {
		case pinned != nil:
			bcd = *pinned
		case sub.BillCycleDayLocal != nil:
			bcd = *sub.BillCycleDayLocal
		default:
			var baseTransitions []*subscription.Transition
			if history.base != nil {
				baseTransitions = history.transitions[history.base.ID]
			}
			resolved, err := s.resolver.ResolveBillCycleDay(ctx, BillCycleDayRequest{
				Transition:       t,
				Account:          acc,
				Subscription:     sub,
				Transitions:      transitions,
				BaseSubscription: history.base,
				BaseTransitions:  baseTransitions,
			})
			if err != nil {
				s.skip(log, err, sub, t)
				continue
			}
			bcd = resolved.Local
			if resolved.AccountFallback {
				s.persistAccountBillCycleDay(ctx, log, acc, bcd)
			}
		}

		event, err := NewBillingEvent(ctx, s.Catalog, s.Ordering, BillingEventRequest{
			Account:           acc,
			Bundle:            history.bundle,
			Subscription:      sub,
			Transition:        t,
			BillCycleDayLocal: bcd,
		})
		if err != nil {
			s.skip(log, err, sub, t)
			continue
		}
		timeline.Add(event)
	}
}

func (s *timelineService) skip(log *zap.SugaredLogger, err error, sub *subscription.Subscription, t *subscription.Transition) {
	log.Warnw("skipping transition",
		"subscription_id", sub.ID,
		"bundle_id", sub.BundleID,
		"transition_id", t.ID,
		"transition_type", t.Type,
		"policy_error", ierr.IsPolicyError(err),
		"lookup_failure", ierr.IsLookupFailure(err),
		"error", err)
}

// persistAccountBillCycleDay stores a discovered bill cycle day once. The
// write is best effort and a failure only gets logged.
func (s *timelineService) persistAccountBillCycleDay(ctx context.Context, log *zap.SugaredLogger, acc *account.Account, bcd int) {
	if acc.HasBillCycleDay() {
		return
	}
	updated, err := s.AccountRepo.SetBillCycleDayIfUnset(ctx, acc.ID, bcd)
	if err != nil {
		log.Errorw("failed to persist account bill cycle day", "bcd", bcd, "error", err)
		return
	}
	acc.BillCycleDayLocal = bcd
	log.Infow("discovered account bill cycle day", "bcd", bcd, "updated", updated)
}

func (s *timelineService) BuildCorrectedTimelines(ctx context.Context, accountIDs []string) []*AccountTimelineResult {
	type indexed struct {
		index int
		*AccountTimelineResult
	}

	maxGoroutines := 1
	if s.Config != nil && s.Config.Timeline.MaxConcurrency > 1 {
		maxGoroutines = s.Config.Timeline.MaxConcurrency
	}

	p := pool.NewWithResults[indexed]().WithMaxGoroutines(maxGoroutines)
	for i, accountID := range accountIDs {
		i, accountID := i, accountID
		p.Go(func() indexed {
			result := &AccountTimelineResult{AccountID: accountID}
			build := func(ctx context.Context) error {
				timeline, err := s.BuildCorrectedTimeline(ctx, accountID)
				result.Timeline = timeline
				return err
			}
			if s.Locker != nil {
				result.Err = s.Locker.WithAccountLock(ctx, accountID, build)
			} else {
				result.Err = build(ctx)
			}
			if result.Err != nil {
				result.Timeline = nil
				s.Logger.WithContext(ctx).Errorw("failed to build billing event timeline",
					"account_id", accountID,
					"error", result.Err)
			}
			return indexed{index: i, AccountTimelineResult: result}
		})
	}

	collected := p.Wait()
	slices.SortFunc(collected, func(a, b indexed) int { return a.index - b.index })

	results := make([]*AccountTimelineResult, len(collected))
	for i, r := range collected {
		results[i] = r.AccountTimelineResult
	}
	return results
}

func upstream(err error, format string, args ...interface{}) error {
	return ierr.WithError(err).
		WithHintf(format, args...).
		Mark(ierr.ErrUpstream)
}
