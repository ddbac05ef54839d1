package billingevent

import (
	"sync"
	"testing"
	"time"

	"github.com/flexprice/junction/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineKeepsOrderAndDedupes(t *testing.T) {
	tl := NewTimeline()

	c := event("sub_b", day, types.TransitionTypeCreate, 3)
	a := event("sub_a", day.Add(time.Hour), types.TransitionTypePhase, 2)
	b := event("sub_a", day, types.TransitionTypeCreate, 1)

	assert.True(t, tl.Add(c))
	assert.True(t, tl.Add(a))
	assert.True(t, tl.Add(b))
	assert.False(t, tl.Add(b), "duplicate key is ignored")

	require.Equal(t, []BillingEvent{b, a, c}, tl.Events())
	assert.Equal(t, []BillingEvent{b, a}, tl.ForSubscription("sub_a"))

	first, ok := tl.First()
	assert.True(t, ok)
	assert.Equal(t, b, first)

	assert.True(t, tl.Remove(a))
	assert.False(t, tl.Remove(a))
	assert.False(t, tl.Contains(a))
	assert.Equal(t, 2, tl.Len())
}

func TestTimelineEventsIsACopy(t *testing.T) {
	tl := NewTimeline()
	tl.Add(event("sub_a", day, types.TransitionTypeCreate, 1))

	events := tl.Events()
	events[0].SubscriptionID = "changed"

	assert.Equal(t, "sub_a", tl.Events()[0].SubscriptionID)
}

func TestTimelineSuspensionFlags(t *testing.T) {
	tl := NewTimeline()
	tl.SuspendSubscription("sub_b")
	tl.SuspendSubscription("sub_a")
	tl.SuspendSubscription("sub_b")

	assert.Equal(t, []string{"sub_a", "sub_b"}, tl.SuspendedSubscriptionIDs())
	assert.True(t, tl.IsSubscriptionSuspended("sub_a"))
	assert.False(t, tl.IsSubscriptionSuspended("sub_c"))

	clone := tl.Clone()
	clone.SuspendSubscription("sub_c")
	assert.False(t, tl.IsSubscriptionSuspended("sub_c"))
}

func TestSubscriptionsByBundle(t *testing.T) {
	tl := NewTimeline()
	e1 := event("sub_a", day, types.TransitionTypeCreate, 1)
	e2 := event("sub_a", day.Add(time.Hour), types.TransitionTypePhase, 2)
	e3 := event("sub_b", day, types.TransitionTypeCreate, 3)
	e4 := event("sub_c", day, types.TransitionTypeCreate, 4)
	e4.BundleID = "bndl_2"
	for _, e := range []BillingEvent{e1, e2, e3, e4} {
		tl.Add(e)
	}

	assert.Equal(t, map[string][]string{
		"bndl_1": {"sub_a", "sub_b"},
		"bndl_2": {"sub_c"},
	}, tl.SubscriptionsByBundle())
}

func TestCloneWithOptions(t *testing.T) {
	price := decimal.RequireFromString("249.95")
	original := BillingEvent{
		SubscriptionID: "sub_a",
		EffectiveDate:  day,
		RecurringPrice: &price,
		FixedPrice:     lo.ToPtr(decimal.Zero),
		BillingPeriod:  types.BILLING_PERIOD_MONTHLY,
		TransitionType: types.TransitionTypePhase,
		TotalOrdering:  1,
	}

	disabled := original.Clone(
		WithEffectiveDate(day.AddDate(0, 0, 1)),
		WithTransitionType(types.TransitionTypeStartBillingDisabled),
		WithTotalOrdering(7),
		WithoutCharges(),
	)

	assert.Nil(t, disabled.FixedPrice)
	assert.Nil(t, disabled.RecurringPrice)
	assert.Equal(t, types.BILLING_PERIOD_NONE, disabled.BillingPeriod)
	assert.Equal(t, int64(7), disabled.TotalOrdering)
	assert.True(t, disabled.IsBillingDisabledBoundary())

	assert.NotNil(t, original.RecurringPrice)
	assert.Equal(t, types.BILLING_PERIOD_MONTHLY, original.BillingPeriod)
	assert.Equal(t, day, original.EffectiveDate)

	copied := original.Clone()
	assert.NotSame(t, original.RecurringPrice, copied.RecurringPrice)
	assert.True(t, original.RecurringPrice.Equal(*copied.RecurringPrice))
}

func TestOrderingServiceIsUniqueUnderConcurrency(t *testing.T) {
	ordering := NewOrderingService(10)
	assert.Equal(t, int64(10), ordering.Next())

	var mu sync.Mutex
	seen := map[int64]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v := ordering.Next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 800)
	assert.Equal(t, int64(811), ordering.Next())
}
