package repository

import (
	"github.com/flexprice/junction/internal/domain/account"
	"github.com/flexprice/junction/internal/domain/blocking"
	"github.com/flexprice/junction/internal/domain/subscription"
	"github.com/flexprice/junction/internal/domain/tag"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	postgresRepo "github.com/flexprice/junction/internal/repository/postgres"
)

func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return postgresRepo.NewAccountRepository(db, logger)
}

func NewSubscriptionRepository(db *postgres.DB, logger *logger.Logger) subscription.Repository {
	return postgresRepo.NewSubscriptionRepository(db, logger)
}

func NewBlockingRepository(db *postgres.DB, logger *logger.Logger) blocking.Repository {
	return postgresRepo.NewBlockingRepository(db, logger)
}

func NewTagRepository(db *postgres.DB, logger *logger.Logger) tag.Repository {
	return postgresRepo.NewTagRepository(db, logger)
}
