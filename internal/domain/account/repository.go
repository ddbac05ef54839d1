package account

import "context"

type Repository interface {
	Get(ctx context.Context, id string) (*Account, error)

	// SetBillCycleDayIfUnset stores bcd only when the account has none yet.
	// It reports whether a row was updated, so a lost race returns false.
	SetBillCycleDayIfUnset(ctx context.Context, id string, bcd int) (bool, error)
}
