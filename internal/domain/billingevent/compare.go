package billingevent

import (
	"cmp"
	"strings"

	"github.com/flexprice/junction/internal/types"
)

// Compare orders events by subscription id, then effective date. Events of
// one subscription at the same instant are ordered subscription events first,
// then START_BILLING_DISABLED, then END_BILLING_DISABLED, so a START always
// precedes an END. Remaining ties fall back to TotalOrdering.
// It returns 0 only for events that share every key, which a Timeline
// treats as duplicates.
func Compare(a, b BillingEvent) int {
	if c := strings.Compare(a.SubscriptionID, b.SubscriptionID); c != 0 {
		return c
	}
	if c := a.EffectiveDate.Compare(b.EffectiveDate); c != 0 {
		return c
	}
	if c := cmp.Compare(tieRank(a.TransitionType), tieRank(b.TransitionType)); c != 0 {
		return c
	}
	return cmp.Compare(a.TotalOrdering, b.TotalOrdering)
}

func tieRank(t types.TransitionType) int {
	switch t {
	case types.TransitionTypeStartBillingDisabled:
		return 1
	case types.TransitionTypeEndBillingDisabled:
		return 2
	default:
		return 0
	}
}
