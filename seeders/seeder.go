package seeders

import (
	"context"
	"log"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"inspection-system/internal/repositories"
	"inspection-system/internal/services"
	"inspection-system/pkg/config"
)

type Options struct {
	Checklist bool
	Admin     bool
}

// Run executes the selected seeders against db. redisClient may be nil; when
// set, the cached checklist definition is invalidated after seeding.
func Run(ctx context.Context, db *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger, opts Options) error {
	if opts.Checklist {
		var cache repositories.CacheRepositoryInterface
		if redisClient != nil {
			cache = repositories.NewRedisCacheRepository(redisClient)
		}
		checklistSvc := services.NewChecklistService(
			repositories.NewTxManager(db),
			repositories.NewChecklistRepository(db),
			cache,
			cfg.Redis.ChecklistTTL,
			logger,
		)
		if err := SeedDefaultChecklist(ctx, checklistSvc); err != nil {
			return err
		}
		log.Println("======================================================")
	}

	if opts.Admin {
		authSvc := services.NewAuthService(repositories.NewUserRepository(db), logger)
		if err := SeedMasterAdmin(ctx, authSvc, cfg.Seed); err != nil {
			return err
		}
		log.Println("======================================================")
	}
	return nil
}
