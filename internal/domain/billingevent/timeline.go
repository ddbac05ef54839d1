package billingevent

import (
	"slices"
)

// Timeline is the ordered, duplicate free set of billing events for one
// account, plus the suspension flags read by invoicing.
type Timeline struct {
	events []BillingEvent

	// AccountBillingSuspended is set when invoicing is off for the whole
	// account. Such a timeline never carries events.
	AccountBillingSuspended bool

	suspendedSubscriptions map[string]struct{}
}

func NewTimeline() *Timeline {
	return &Timeline{suspendedSubscriptions: map[string]struct{}{}}
}

// Add inserts e at its ordered position. It returns false when an event
// comparing equal is already present.
func (t *Timeline) Add(e BillingEvent) bool {
	i, found := slices.BinarySearchFunc(t.events, e, Compare)
	if found {
		return false
	}
	t.events = slices.Insert(t.events, i, e)
	return true
}

// Remove deletes the event comparing equal to e and reports whether it was present
func (t *Timeline) Remove(e BillingEvent) bool {
	i, found := slices.BinarySearchFunc(t.events, e, Compare)
	if !found {
		return false
	}
	t.events = slices.Delete(t.events, i, i+1)
	return true
}

// Contains reports whether an event comparing equal to e is present
func (t *Timeline) Contains(e BillingEvent) bool {
	_, found := slices.BinarySearchFunc(t.events, e, Compare)
	return found
}

// Events returns a copy of the ordered events
func (t *Timeline) Events() []BillingEvent {
	return slices.Clone(t.events)
}

func (t *Timeline) Len() int {
	return len(t.events)
}

func (t *Timeline) IsEmpty() bool {
	return len(t.events) == 0
}

// First returns the first event, false when the timeline is empty
func (t *Timeline) First() (BillingEvent, bool) {
	if len(t.events) == 0 {
		return BillingEvent{}, false
	}
	return t.events[0], true
}

// ForSubscription returns the ordered events of one subscription
func (t *Timeline) ForSubscription(subscriptionID string) []BillingEvent {
	var result []BillingEvent
	for _, e := range t.events {
		if e.SubscriptionID == subscriptionID {
			result = append(result, e)
		}
	}
	return result
}

// SubscriptionsByBundle maps every bundle with events to the ids of its
// subscriptions, each list in timeline order
func (t *Timeline) SubscriptionsByBundle() map[string][]string {
	result := make(map[string][]string)
	for _, e := range t.events {
		subs := result[e.BundleID]
		if len(subs) == 0 || subs[len(subs)-1] != e.SubscriptionID {
			result[e.BundleID] = append(subs, e.SubscriptionID)
		}
	}
	return result
}

// SuspendSubscription records a subscription whose billing is switched off
func (t *Timeline) SuspendSubscription(subscriptionID string) {
	t.suspendedSubscriptions[subscriptionID] = struct{}{}
}

func (t *Timeline) IsSubscriptionSuspended(subscriptionID string) bool {
	_, ok := t.suspendedSubscriptions[subscriptionID]
	return ok
}

// SuspendedSubscriptionIDs returns the suspended subscription ids in ascending order
func (t *Timeline) SuspendedSubscriptionIDs() []string {
	ids := make([]string, 0, len(t.suspendedSubscriptions))
	for id := range t.suspendedSubscriptions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clone returns an independent copy of the timeline and its flags
func (t *Timeline) Clone() *Timeline {
	c := NewTimeline()
	c.events = slices.Clone(t.events)
	c.AccountBillingSuspended = t.AccountBillingSuspended
	for id := range t.suspendedSubscriptions {
		c.suspendedSubscriptions[id] = struct{}{}
	}
	return c
}
