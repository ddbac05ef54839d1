package testutil

import (
	"context"

	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
)

// InMemorySubscriptionStore implements subscription.Repository
type InMemorySubscriptionStore struct {
	bundles       *InMemoryStore[*subscription.Bundle]
	subscriptions *InMemoryStore[*subscription.Subscription]
	transitions   *InMemoryStore[*subscription.Transition]
}

func NewInMemorySubscriptionStore() *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		bundles:       NewInMemoryStore[*subscription.Bundle](),
		subscriptions: NewInMemoryStore[*subscription.Subscription](),
		transitions:   NewInMemoryStore[*subscription.Transition](),
	}
}

func copySubscription(s *subscription.Subscription) *subscription.Subscription {
	c := *s
	if s.BillCycleDayLocal != nil {
		c.BillCycleDayLocal = lo.ToPtr(*s.BillCycleDayLocal)
	}
	return &c
}

func copyTransition(t *subscription.Transition) *subscription.Transition {
	c := *t
	if t.BillCycleDayLocal != nil {
		c.BillCycleDayLocal = lo.ToPtr(*t.BillCycleDayLocal)
	}
	return &c
}

func (s *InMemorySubscriptionStore) CreateBundle(ctx context.Context, b *subscription.Bundle) error {
	if b.TenantID == "" {
		b.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	c := *b
	return s.bundles.Create(ctx, b.ID, &c)
}

func (s *InMemorySubscriptionStore) CreateSubscription(ctx context.Context, sub *subscription.Subscription) error {
	if sub.TenantID == "" {
		sub.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	return s.subscriptions.Create(ctx, sub.ID, copySubscription(sub))
}

func (s *InMemorySubscriptionStore) CreateTransition(ctx context.Context, t *subscription.Transition) error {
	if t.TenantID == "" {
		t.BaseModel = types.GetDefaultBaseModel(ctx)
	}
	return s.transitions.Create(ctx, t.ID, copyTransition(t))
}

func (s *InMemorySubscriptionStore) ListBundles(ctx context.Context, accountID string) ([]*subscription.Bundle, error) {
	bundles := s.bundles.List(ctx, func(ctx context.Context, b *subscription.Bundle) bool {
		return b.AccountID == accountID && CheckTenantFilter(ctx, b.TenantID)
	}, func(a, b *subscription.Bundle) bool {
		return a.ID < b.ID
	})
	return lo.Map(bundles, func(b *subscription.Bundle, _ int) *subscription.Bundle {
		c := *b
		return &c
	}), nil
}

func (s *InMemorySubscriptionStore) ListSubscriptions(ctx context.Context, bundleID string) ([]*subscription.Subscription, error) {
	subs := s.subscriptions.List(ctx, func(ctx context.Context, sub *subscription.Subscription) bool {
		return sub.BundleID == bundleID && CheckTenantFilter(ctx, sub.TenantID)
	}, func(a, b *subscription.Subscription) bool {
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	return lo.Map(subs, func(sub *subscription.Subscription, _ int) *subscription.Subscription {
		return copySubscription(sub)
	}), nil
}

func (s *InMemorySubscriptionStore) ListTransitions(ctx context.Context, subscriptionID string) ([]*subscription.Transition, error) {
	transitions := s.transitions.List(ctx, func(ctx context.Context, t *subscription.Transition) bool {
		return t.SubscriptionID == subscriptionID && CheckTenantFilter(ctx, t.TenantID)
	}, func(a, b *subscription.Transition) bool {
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.Before(b.EffectiveDate)
		}
		return a.ID < b.ID
	})
	return lo.Map(transitions, func(t *subscription.Transition, _ int) *subscription.Transition {
		return copyTransition(t)
	}), nil
}

func (s *InMemorySubscriptionStore) Clear() {
	s.bundles.Clear()
	s.subscriptions.Clear()
	s.transitions.Clear()
}
