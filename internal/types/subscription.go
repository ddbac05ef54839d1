package types

import (
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/samber/lo"
)

// SubscriptionCategory is the product category of a subscription inside its bundle
type SubscriptionCategory string

const (
	// SubscriptionCategoryBase is the anchor subscription of a bundle
	SubscriptionCategoryBase       SubscriptionCategory = "BASE"
	SubscriptionCategoryAddOn      SubscriptionCategory = "ADD_ON"
	SubscriptionCategoryStandalone SubscriptionCategory = "STANDALONE"
)

func (c SubscriptionCategory) String() string {
	return string(c)
}

func (c SubscriptionCategory) Validate() error {
	allowed := []SubscriptionCategory{
		SubscriptionCategoryBase,
		SubscriptionCategoryAddOn,
		SubscriptionCategoryStandalone,
	}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid subscription category").
			WithHint("Invalid subscription category").
			WithReportableDetails(map[string]any{
				"category":       c,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// SubscriptionState is the lifecycle state of a subscription
type SubscriptionState string

const (
	SubscriptionStateActive    SubscriptionState = "ACTIVE"
	SubscriptionStateCancelled SubscriptionState = "CANCELLED"
)

func (s SubscriptionState) String() string {
	return string(s)
}
