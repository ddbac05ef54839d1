package postgres

import (
	"context"

	"github.com/flexprice/junction/internal/domain/blocking"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	"github.com/flexprice/junction/internal/types"
)

type blockingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewBlockingRepository(db *postgres.DB, logger *logger.Logger) blocking.Repository {
	return &blockingRepository{db: db, logger: logger}
}

func (r *blockingRepository) ListByBlockable(ctx context.Context, blockableType types.ObjectType, blockableID string) ([]*blocking.BlockingState, error) {
	query := `
		SELECT id, blockable_id, blockable_type, service, state_name, block_billing,
			effective_date, tenant_id, created_at, updated_at
		FROM blocking_states
		WHERE blockable_type = $1 AND blockable_id = $2 AND tenant_id = $3
		ORDER BY effective_date, created_at, id`

	var states []*blocking.BlockingState
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &states, query, blockableType, blockableID, types.GetTenantID(ctx))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to list blocking states for %s %s", blockableType, blockableID).
			Mark(ierr.ErrDatabase)
	}
	return states, nil
}
