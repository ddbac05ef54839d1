package types

import (
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the recurring billing period of a plan phase ex MONTHLY, ANNUAL
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY     BillingPeriod = "DAILY"
	BILLING_PERIOD_WEEKLY    BillingPeriod = "WEEKLY"
	BILLING_PERIOD_BIWEEKLY  BillingPeriod = "BIWEEKLY"
	BILLING_PERIOD_MONTHLY   BillingPeriod = "MONTHLY"
	BILLING_PERIOD_QUARTERLY BillingPeriod = "QUARTERLY"
	BILLING_PERIOD_ANNUAL    BillingPeriod = "ANNUAL"

	// BILLING_PERIOD_NONE marks an event the invoice generator must not bill
	// recurring charges for (phases without a recurring section, disabled periods)
	BILLING_PERIOD_NONE BillingPeriod = "NO_BILLING_PERIOD"
)

func (p BillingPeriod) String() string {
	return string(p)
}

// IsNone reports whether the period is the "ignore for invoicing" sentinel
func (p BillingPeriod) IsNone() bool {
	return p == "" || p == BILLING_PERIOD_NONE
}

func (p BillingPeriod) Validate() error {
	allowed := []BillingPeriod{
		BILLING_PERIOD_DAILY,
		BILLING_PERIOD_WEEKLY,
		BILLING_PERIOD_BIWEEKLY,
		BILLING_PERIOD_MONTHLY,
		BILLING_PERIOD_QUARTERLY,
		BILLING_PERIOD_ANNUAL,
		BILLING_PERIOD_NONE,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid billing period").
			WithHint("Invalid billing period").
			WithReportableDetails(map[string]any{
				"billing_period": p,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingMode tells the invoice generator whether recurring charges are billed
// at the start or at the end of each period
type BillingMode string

const (
	BillingModeInAdvance BillingMode = "IN_ADVANCE"
	BillingModeInArrear  BillingMode = "IN_ARREAR"
)

func (m BillingMode) String() string {
	return string(m)
}

func (m BillingMode) Validate() error {
	allowed := []BillingMode{
		BillingModeInAdvance,
		BillingModeInArrear,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid billing mode").
			WithHint("Invalid billing mode").
			WithReportableDetails(map[string]any{
				"billing_mode":   m,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// BillingAlignment names the entity whose bill cycle day governs a subscription
type BillingAlignment string

const (
	BillingAlignmentAccount      BillingAlignment = "ACCOUNT"
	BillingAlignmentBundle       BillingAlignment = "BUNDLE"
	BillingAlignmentSubscription BillingAlignment = "SUBSCRIPTION"
)

func (a BillingAlignment) String() string {
	return string(a)
}

func (a BillingAlignment) Validate() error {
	allowed := []BillingAlignment{
		BillingAlignmentAccount,
		BillingAlignmentBundle,
		BillingAlignmentSubscription,
	}
	if !lo.Contains(allowed, a) {
		return ierr.NewError("invalid billing alignment").
			WithHint("Invalid billing alignment").
			WithReportableDetails(map[string]any{
				"billing_alignment": a,
				"allowed_values":    allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PhaseType is the type of a plan phase ex TRIAL, EVERGREEN
type PhaseType string

const (
	PhaseTypeTrial     PhaseType = "TRIAL"
	PhaseTypeDiscount  PhaseType = "DISCOUNT"
	PhaseTypeFixedTerm PhaseType = "FIXEDTERM"
	PhaseTypeEvergreen PhaseType = "EVERGREEN"
)

func (p PhaseType) String() string {
	return string(p)
}

func (p PhaseType) Validate() error {
	allowed := []PhaseType{
		PhaseTypeTrial,
		PhaseTypeDiscount,
		PhaseTypeFixedTerm,
		PhaseTypeEvergreen,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid phase type").
			WithHint("Invalid phase type").
			WithReportableDetails(map[string]any{
				"phase_type":     p,
				"allowed_values": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
