package types

import (
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/samber/lo"
)

// TransitionType is the kind of subscription lifecycle change a billing event describes
type TransitionType string

const (
	TransitionTypeCreate    TransitionType = "CREATE"
	TransitionTypeTransfer  TransitionType = "TRANSFER"
	TransitionTypeReCreate  TransitionType = "RE_CREATE"
	TransitionTypeChange    TransitionType = "CHANGE"
	TransitionTypeCancel    TransitionType = "CANCEL"
	TransitionTypeUncancel  TransitionType = "UNCANCEL"
	TransitionTypePhase     TransitionType = "PHASE"
	TransitionTypeBCDChange TransitionType = "BCD_CHANGE"

	// Synthesized by the blocking corrector, never persisted
	TransitionTypeStartBillingDisabled TransitionType = "START_BILLING_DISABLED"
	TransitionTypeEndBillingDisabled   TransitionType = "END_BILLING_DISABLED"
)

func (t TransitionType) String() string {
	return string(t)
}

// IsBillingDisabledBoundary reports whether the type is one of the two synthetic
// disabled-period boundaries
func (t TransitionType) IsBillingDisabledBoundary() bool {
	return t == TransitionTypeStartBillingDisabled || t == TransitionTypeEndBillingDisabled
}

// Validate accepts only types a persisted subscription transition may carry
func (t TransitionType) Validate() error {
	allowed := []TransitionType{
		TransitionTypeCreate,
		TransitionTypeTransfer,
		TransitionTypeReCreate,
		TransitionTypeChange,
		TransitionTypeCancel,
		TransitionTypeUncancel,
		TransitionTypePhase,
		TransitionTypeBCDChange,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid transition type").
			WithHint("Invalid subscription transition type").
			WithReportableDetails(map[string]any{
				"transition_type": t,
				"allowed_values":  allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
