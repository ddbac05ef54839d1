package subscription

import "context"

// Repository reads the subscription hierarchy of an account. Transitions are
// returned in ascending effective date order.
type Repository interface {
	ListBundles(ctx context.Context, accountID string) ([]*Bundle, error)
	ListSubscriptions(ctx context.Context, bundleID string) ([]*Subscription, error)
	ListTransitions(ctx context.Context, subscriptionID string) ([]*Transition, error)
}
