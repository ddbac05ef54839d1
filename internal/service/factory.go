package service

import (
	"context"

	"github.com/flexprice/junction/internal/config"
	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/domain/blocking"
	"github.com/flexprice/junction/internal/domain/catalog"
	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/domain/tag"
	"github.com/flexprice/junction/internal/logger"
)

// AccountLocker serializes timeline builds of one account
type AccountLocker interface {
	WithAccountLock(ctx context.Context, accountID string, fn func(ctx context.Context) error) error
}

type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	Catalog catalog.Catalog

	AccountRepo  account.Repository
	SubRepo      subscription.Repository
	BlockingRepo blocking.Repository
	TagRepo      tag.Repository

	Ordering billingevent.OrderingService
	Locker   AccountLocker
}

func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	catalog catalog.Catalog,
	accountRepo account.Repository,
	subRepo subscription.Repository,
	blockingRepo blocking.Repository,
	tagRepo tag.Repository,
	ordering billingevent.OrderingService,
	locker AccountLocker,
) ServiceParams {
	return ServiceParams{
		Logger:       logger,
		Config:       config,
		Catalog:      catalog,
		AccountRepo:  accountRepo,
		SubRepo:      subRepo,
		BlockingRepo: blockingRepo,
		TagRepo:      tagRepo,
		Ordering:     ordering,
		Locker:       locker,
	}
}
