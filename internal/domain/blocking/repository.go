package blocking

import (
	"context"

	"github.com/flexprice/junction/internal/types"
)

// Repository reads blocking history. States are returned in ascending
// effective date order.
type Repository interface {
	ListByBlockable(ctx context.Context, blockableType types.ObjectType, blockableID string) ([]*BlockingState, error)
}
