package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flexprice/junction/internal/domain/account"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	"github.com/flexprice/junction/internal/types"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, name, currency, time_zone, bill_cycle_day_local,
			tenant_id, created_at, updated_at
		FROM accounts
		WHERE id = $1 AND tenant_id = $2`

	var acc account.Account
	err := r.db.GetQuerier(ctx).GetContext(ctx, &acc, query, id, types.GetTenantID(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ierr.WithError(err).
			WithHintf("Account %s not found", id).
			WithReportableDetails(map[string]interface{}{"account_id": id}).
			Mark(ierr.ErrNotFound)
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get account").
			Mark(ierr.ErrDatabase)
	}
	return &acc, nil
}

func (r *accountRepository) SetBillCycleDayIfUnset(ctx context.Context, id string, bcd int) (bool, error) {
	query := `
		UPDATE accounts
		SET bill_cycle_day_local = $1, updated_at = NOW()
		WHERE id = $2 AND tenant_id = $3 AND bill_cycle_day_local = 0`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, bcd, id, types.GetTenantID(ctx))
	if err != nil {
		return false, ierr.WithError(err).
			WithHintf("Failed to set bill cycle day for account %s", id).
			Mark(ierr.ErrDatabase)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to read affected rows").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("set account bill cycle day", "account_id", id, "bcd", bcd, "updated", rows > 0)
	return rows > 0, nil
}
