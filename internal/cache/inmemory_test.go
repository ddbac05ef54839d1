package cache

import (
	"context"
	"testing"

	"github.com/flexprice/junction/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(config.GetDefaultConfig())

	c.Set(ctx, GenerateKey(PrefixPlan, "basic", 1), "plan", 0)
	c.Set(ctx, GenerateKey(PrefixPlanPhase, "basic-trial"), "phase", 0)

	got, ok := c.Get(ctx, "catalog:plan:v1::basic:1")
	assert.True(t, ok)
	assert.Equal(t, "plan", got)

	c.DeleteByPrefix(ctx, PrefixPlan)
	_, ok = c.Get(ctx, GenerateKey(PrefixPlan, "basic", 1))
	assert.False(t, ok)

	_, ok = c.Get(ctx, GenerateKey(PrefixPlanPhase, "basic-trial"))
	assert.True(t, ok)

	c.Flush(ctx)
	_, ok = c.Get(ctx, GenerateKey(PrefixPlanPhase, "basic-trial"))
	assert.False(t, ok)
}

func TestDisabledCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	cfg := config.GetDefaultConfig()
	cfg.Catalog.CacheEnabled = false
	c := NewInMemoryCache(cfg)

	c.Set(ctx, "k", "v", 0)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}
