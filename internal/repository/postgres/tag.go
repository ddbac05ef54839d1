package postgres

import (
	"context"

	"github.com/flexprice/junction/internal/domain/tag"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	"github.com/flexprice/junction/internal/types"
)

type tagRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTagRepository(db *postgres.DB, logger *logger.Logger) tag.Repository {
	return &tagRepository{db: db, logger: logger}
}

func (r *tagRepository) HasControlTag(ctx context.Context, objectType types.ObjectType, objectID string, tagType types.ControlTagType) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tags
			WHERE object_type = $1 AND object_id = $2 AND tag_type = $3 AND tenant_id = $4
		)`

	var exists bool
	err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, objectType, objectID, tagType, types.GetTenantID(ctx))
	if err != nil {
		return false, ierr.WithError(err).
			WithHintf("Failed to check %s tag on %s %s", tagType, objectType, objectID).
			Mark(ierr.ErrDatabase)
	}
	return exists, nil
}
