package main

import (
	"context"
	"time"

	"github.com/flexprice/junction/internal/cache"
	"github.com/flexprice/junction/internal/catalog"
	"github.com/flexprice/junction/internal/config"
	"github.com/flexprice/junction/internal/domain/billingevent"
	"github.com/flexprice/junction/internal/logger"
	"github.com/flexprice/junction/internal/postgres"
	"github.com/flexprice/junction/internal/repository"
	"github.com/flexprice/junction/internal/service"
	"github.com/flexprice/junction/internal/types"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			fx.Annotate(cache.NewInMemoryCache, fx.As(new(cache.Cache))),

			// Catalog
			catalog.NewCatalog,

			// Postgres
			postgres.NewDB,
			provideLocker,

			// Repositories
			repository.NewAccountRepository,
			repository.NewSubscriptionRepository,
			repository.NewBlockingRepository,
			repository.NewTagRepository,

			provideOrdering,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewTimelineService,
		),
		fx.Invoke(startTimelineBuilder),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideOrdering(cfg *config.Configuration) billingevent.OrderingService {
	return billingevent.NewOrderingService(cfg.Timeline.OrderingStart)
}

func provideLocker(db *postgres.DB) service.AccountLocker {
	return postgres.NewAdvisoryLocker(db)
}

func startTimelineBuilder(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Configuration,
	db *postgres.DB,
	timelineService service.TimelineService,
	log *logger.Logger,
) {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = types.SetTenantID(ctx, cfg.Timeline.TenantID)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("starting timeline builder",
				"mode", cfg.Deployment.Mode,
				"accounts", len(cfg.Timeline.AccountIDs))

			switch cfg.Deployment.Mode {
			case types.ModeWorker:
				go runWorker(ctx, cfg, timelineService, log)
			default:
				go func() {
					failed := buildAll(ctx, cfg, timelineService, log)
					exitCode := 0
					if failed > 0 {
						exitCode = 1
					}
					if err := shutdowner.Shutdown(fx.ExitCode(exitCode)); err != nil {
						log.Errorw("failed to shut down", "error", err)
					}
				}()
			}
			return nil
		},
		OnStop: func(context.Context) error {
			log.Info("Shutting down timeline builder...")
			cancel()
			return db.Close()
		},
	})
}

func runWorker(ctx context.Context, cfg *config.Configuration, timelineService service.TimelineService, log *logger.Logger) {
	ticker := time.NewTicker(cfg.Timeline.Interval())
	defer ticker.Stop()

	for {
		buildAll(ctx, cfg, timelineService, log)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// buildAll builds every configured account and returns how many failed
func buildAll(ctx context.Context, cfg *config.Configuration, timelineService service.TimelineService, log *logger.Logger) int {
	start := time.Now()
	failed := 0
	for _, result := range timelineService.BuildCorrectedTimelines(ctx, cfg.Timeline.AccountIDs) {
		if result.Err != nil {
			failed++
			continue
		}
		log.Infow("account timeline ready",
			"account_id", result.AccountID,
			"events", result.Timeline.Len(),
			"account_billing_suspended", result.Timeline.AccountBillingSuspended,
			"suspended_subscriptions", result.Timeline.SuspendedSubscriptionIDs())
	}
	log.Infow("timeline batch finished",
		"accounts", len(cfg.Timeline.AccountIDs),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds())
	return failed
}
