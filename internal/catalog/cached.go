package catalog

import (
	"context"
	"time"

	"github.com/flexprice/junction/internal/cache"
	domainCatalog "github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/types"
	goCache "github.com/patrickmn/go-cache"
)

// CachedCatalog memoizes successful lookups of another catalog
type CachedCatalog struct {
	next  domainCatalog.Catalog
	cache cache.Cache
}

var _ domainCatalog.Catalog = (*CachedCatalog)(nil)

func NewCachedCatalog(next domainCatalog.Catalog, c cache.Cache) *CachedCatalog {
	return &CachedCatalog{next: next, cache: c}
}

func (c *CachedCatalog) FindPlan(ctx context.Context, name string, asOf, subscriptionStart time.Time) (*domainCatalog.Plan, error) {
	key := cache.GenerateKey(cache.PrefixPlan, name, asOf.UnixNano(), subscriptionStart.UnixNano())
	if v, ok := c.cache.Get(ctx, key); ok {
		if plan, ok := v.(*domainCatalog.Plan); ok {
			return plan, nil
		}
	}

	plan, err := c.next.FindPlan(ctx, name, asOf, subscriptionStart)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, plan, goCache.DefaultExpiration)
	return plan, nil
}

func (c *CachedCatalog) FindPhase(ctx context.Context, name string, asOf, subscriptionStart time.Time) (*domainCatalog.PlanPhase, error) {
	key := cache.GenerateKey(cache.PrefixPlanPhase, name, asOf.UnixNano(), subscriptionStart.UnixNano())
	if v, ok := c.cache.Get(ctx, key); ok {
		if phase, ok := v.(*domainCatalog.PlanPhase); ok {
			return phase, nil
		}
	}

	phase, err := c.next.FindPhase(ctx, name, asOf, subscriptionStart)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, phase, goCache.DefaultExpiration)
	return phase, nil
}

func (c *CachedCatalog) BillingAlignment(ctx context.Context, spec domainCatalog.PlanPhaseSpecifier, asOf time.Time) (types.BillingAlignment, error) {
	key := cache.GenerateKey(cache.PrefixBillingAlignment,
		spec.ProductName, spec.Category, spec.BillingPeriod, spec.PhaseType, spec.PriceListName, asOf.UnixNano())
	if v, ok := c.cache.Get(ctx, key); ok {
		if alignment, ok := v.(types.BillingAlignment); ok {
			return alignment, nil
		}
	}

	alignment, err := c.next.BillingAlignment(ctx, spec, asOf)
	if err != nil {
		return "", err
	}
	c.cache.Set(ctx, key, alignment, goCache.DefaultExpiration)
	return alignment, nil
}
