package tag

import (
	"context"

	"github.com/flexprice/junction/internal/types"
)

type Repository interface {
	HasControlTag(ctx context.Context, objectType types.ObjectType, objectID string, tagType types.ControlTagType) (bool, error)
}

// IsBillingOff reports whether invoicing is switched off for the object
func IsBillingOff(ctx context.Context, repo Repository, objectType types.ObjectType, objectID string) (bool, error) {
	return repo.HasControlTag(ctx, objectType, objectID, types.ControlTagAutoInvoicingOff)
}
