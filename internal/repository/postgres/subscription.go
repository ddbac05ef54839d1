package postgres

import (
	"context"

	"github.com/flexprice/junction/internal/domain/subscription"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	"github.com/flexprice/junction/internal/types"
)

type subscriptionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return &subscriptionRepository{db: db, logger: logger}
}

func (r *subscriptionRepository) ListBundles(ctx context.Context, accountID string) ([]*subscription.Bundle, error) {
	query := `
		SELECT id, account_id, external_key, tenant_id, created_at, updated_at
		FROM bundles
		WHERE account_id = $1 AND tenant_id = $2
		ORDER BY created_at, id`

	var bundles []*subscription.Bundle
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &bundles, query, accountID, types.GetTenantID(ctx)); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to list bundles for account %s", accountID).
			Mark(ierr.ErrDatabase)
	}
	return bundles, nil
}

func (r *subscriptionRepository) ListSubscriptions(ctx context.Context, bundleID string) ([]*subscription.Subscription, error) {
	query := `
		SELECT id, bundle_id, category, state, start_date, bill_cycle_day_local,
			tenant_id, created_at, updated_at
		FROM subscriptions
		WHERE bundle_id = $1 AND tenant_id = $2
		ORDER BY start_date, id`

	var subs []*subscription.Subscription
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &subs, query, bundleID, types.GetTenantID(ctx)); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to list subscriptions for bundle %s", bundleID).
			Mark(ierr.ErrDatabase)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListTransitions(ctx context.Context, subscriptionID string) ([]*subscription.Transition, error) {
	query := `
		SELECT id, subscription_id, transition_type, effective_date, subscription_start_date,
			COALESCE(prev_plan, '') AS prev_plan,
			COALESCE(prev_phase, '') AS prev_phase,
			COALESCE(prev_price_list, '') AS prev_price_list,
			COALESCE(next_plan, '') AS next_plan,
			COALESCE(next_phase, '') AS next_phase,
			COALESCE(next_price_list, '') AS next_price_list,
			bill_cycle_day_local,
			tenant_id, created_at, updated_at
		FROM subscription_transitions
		WHERE subscription_id = $1 AND tenant_id = $2
		ORDER BY effective_date, created_at, id`

	var transitions []*subscription.Transition
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &transitions, query, subscriptionID, types.GetTenantID(ctx)); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to list transitions for subscription %s", subscriptionID).
			Mark(ierr.ErrDatabase)
	}
	return transitions, nil
}
