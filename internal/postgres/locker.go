package postgres

import (
	"context"

	ierr "github.com/flexprice/junction/internal/errors"
)

// AdvisoryLocker serializes work per account with transaction scoped
// advisory locks. The lock is released when the surrounding transaction ends.
type AdvisoryLocker struct {
	db *DB
}

func NewAdvisoryLocker(db *DB) *AdvisoryLocker {
	return &AdvisoryLocker{db: db}
}

// WithAccountLock runs fn while holding the lock for accountID
func (l *AdvisoryLocker) WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context) error) error {
	return l.db.WithTx(ctx, func(ctx context.Context) error {
		if _, err := l.db.GetQuerier(ctx).ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", accountID); err != nil {
			return ierr.WithError(err).
				WithHintf("Failed to lock account %s", accountID).
				WithReportableDetails(map[string]interface{}{"account_id": accountID}).
				Mark(ierr.ErrDatabase)
		}
		return fn(ctx)
	})
}
