package catalog

import (
	"github.com/flexprice/junction/internal/cache"
	"github.com/flexprice/junction/internal/config"
	domainCatalog "github.com/flexprice/junction/internal/domain/catalog"
	ierr "github.com/flexprice/junction/internal/errors"
	"github.com/flexprice/junction/internal/logger"
)

// NewCatalog loads the configured catalog file, wrapping it with the cache
// when catalog caching is enabled
func NewCatalog(cfg *config.Configuration, c cache.Cache, log *logger.Logger) (domainCatalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return nil, ierr.NewError("catalog path is not configured").
			WithHint("Set catalog.path to a yaml catalog definition").
			Mark(ierr.ErrValidation)
	}

	static, err := LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, err
	}
	log.Infow("catalog loaded", "path", cfg.Catalog.Path, "versions", len(static.versions))

	if !cfg.Catalog.CacheEnabled {
		return static, nil
	}
	return NewCachedCatalog(static, c), nil
}
