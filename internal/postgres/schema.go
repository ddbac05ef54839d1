package postgres

import (
	"context"
	_ "embed"

	ierr "github.com/flexprice/junction/internal/errors"
)

//go:embed schema.sql
var Schema string

// Migrate creates the collaborator tables when they do not exist
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to apply database schema").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
