package cli

import (
	"context"
	"fmt"

	"greenCommuteAPI/internal/config"
	"greenCommuteAPI/internal/database"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/repository/memory"
	"greenCommuteAPI/internal/repository/postgres"
)

// openStore connects the configured storage driver. With migrate set the
// embedded migrations are applied before the store is returned.
func openStore(ctx context.Context, rt *runtime, migrate bool) (repository.Store, error) {
	if rt.cfg.StorageDriver == config.DriverMemory {
		rt.log.Warn("using in-memory storage, data is lost on exit")
		return memory.New(), nil
	}

	pool, err := database.Connect(ctx, rt.cfg, rt.log)
	if err != nil {
		return nil, err
	}
	if migrate {
		if _, err := database.Migrate(ctx, pool, rt.log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return postgres.New(pool), nil
}
