package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"greenCommuteAPI/internal/config"
	"greenCommuteAPI/internal/database"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if rt.cfg.StorageDriver != config.DriverPostgres {
				return errors.New("migrate needs STORAGE_DRIVER=postgres")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			pool, err := database.Connect(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := database.Migrate(ctx, pool, rt.log)
			if err != nil {
				return err
			}
			cmd.Printf("applied %d migration(s)\n", applied)
			return nil
		},
	}
}
