package blocking

import (
	"fmt"
	"slices"
	"time"

	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
)

// Corrector splices disabled intervals into a billing event timeline
type Corrector struct {
	ordering billingevent.OrderingService
}

func NewCorrector(ordering billingevent.OrderingService) *Corrector {
	return &Corrector{ordering: ordering}
}

// Correct returns a new timeline where, for every subscription of a bundle
// with disabled intervals, each interval is bounded by synthetic
// START_BILLING_DISABLED / END_BILLING_DISABLED events and the subscription
// events strictly inside it are dropped. Boundary events are anchored on the
// source timeline only, so the result does not depend on the order intervals
// or subscriptions are visited in. The input timeline is left untouched.
//
// Correct panics if an interval ends before it starts.
func (c *Corrector) Correct(timeline *billingevent.Timeline, intervalsByBundle map[string][]DisabledInterval) *billingevent.Timeline {
	for bundleID, intervals := range intervalsByBundle {
		for _, interval := range intervals {
			if interval.End != nil && interval.End.Before(interval.Start) {
				panic(fmt.Sprintf("blocking: disabled interval %s of bundle %s ends before it starts", interval, bundleID))
			}
		}
	}

	result := timeline.Clone()
	if timeline.IsEmpty() || len(intervalsByBundle) == 0 {
		return result
	}

	var toAdd, toRemove []billingevent.BillingEvent

	subsByBundle := timeline.SubscriptionsByBundle()
	bundleIDs := lo.Keys(subsByBundle)
	slices.Sort(bundleIDs)

	for _, bundleID := range bundleIDs {
		intervals := intervalsByBundle[bundleID]
		if len(intervals) == 0 {
			continue
		}
		for _, subscriptionID := range subsByBundle[bundleID] {
			events := lo.Filter(timeline.ForSubscription(subscriptionID), func(e billingevent.BillingEvent, _ int) bool {
				return !e.IsBillingDisabledBoundary()
			})
			toAdd = append(toAdd, c.boundaryEvents(intervals, events)...)
			toRemove = append(toRemove, eventsInside(intervals, events)...)
		}
	}

	for _, e := range toAdd {
		result.Add(e)
	}
	for _, e := range toRemove {
		result.Remove(e)
	}

	return result
}

func (c *Corrector) boundaryEvents(intervals []DisabledInterval, events []billingevent.BillingEvent) []billingevent.BillingEvent {
	var result []billingevent.BillingEvent

	for _, interval := range intervals {
		atStart := precedingEvent(events, &interval.Start)
		atEnd := precedingEvent(events, interval.End)

		switch {
		case atStart != nil:
			result = append(result, c.disableEvent(interval.Start, *atStart))
			if interval.End != nil {
				result = append(result, c.reenableEvent(*interval.End, *atEnd))
			}
		case atEnd != nil:
			// the subscription did not exist yet when billing was disabled
			result = append(result, c.reenableEvent(*interval.End, *atEnd))
		}
	}

	return result
}

func (c *Corrector) disableEvent(at time.Time, previous billingevent.BillingEvent) billingevent.BillingEvent {
	return previous.Clone(
		billingevent.WithEffectiveDate(at),
		billingevent.WithTransitionType(types.TransitionTypeStartBillingDisabled),
		billingevent.WithDescription(""),
		billingevent.WithoutCharges(),
		billingevent.WithTotalOrdering(c.ordering.Next()),
	)
}

// reenableEvent resumes billing with the full state in effect before the interval ended
func (c *Corrector) reenableEvent(at time.Time, previous billingevent.BillingEvent) billingevent.BillingEvent {
	return previous.Clone(
		billingevent.WithEffectiveDate(at),
		billingevent.WithTransitionType(types.TransitionTypeEndBillingDisabled),
		billingevent.WithDescription(""),
		billingevent.WithTotalOrdering(c.ordering.Next()),
	)
}

// precedingEvent returns the latest event at or before t. It returns nil for
// a nil t or when t is before every event.
func precedingEvent(events []billingevent.BillingEvent, t *time.Time) *billingevent.BillingEvent {
	if t == nil {
		return nil
	}
	var result *billingevent.BillingEvent
	for i := range events {
		if events[i].EffectiveDate.After(*t) {
			break
		}
		result = &events[i]
	}
	return result
}

func eventsInside(intervals []DisabledInterval, events []billingevent.BillingEvent) []billingevent.BillingEvent {
	var result []billingevent.BillingEvent
	for _, e := range events {
		if lo.SomeBy(intervals, func(interval DisabledInterval) bool {
			return interval.StrictlyContains(e.EffectiveDate)
		}) {
			result = append(result, e)
		}
	}
	return result
}
