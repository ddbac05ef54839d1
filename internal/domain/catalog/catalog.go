package catalog

import (
	"context"
	"time"

	"github.com/flexprice/junction/internal/types"
)

// Catalog resolves plans, phases and billing alignment policies.
// asOf is the effective date of the lookup and subscriptionStart lets
// versioned implementations grandfather existing subscriptions.
// Lookup misses are returned marked with ierr.ErrCatalogLookup.
type Catalog interface {
	FindPlan(ctx context.Context, name string, asOf, subscriptionStart time.Time) (*Plan, error)
	FindPhase(ctx context.Context, name string, asOf, subscriptionStart time.Time) (*PlanPhase, error)
	BillingAlignment(ctx context.Context, spec PlanPhaseSpecifier, asOf time.Time) (types.BillingAlignment, error)
}
