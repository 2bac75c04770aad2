package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/services"
)

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default achievement and location catalogs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			store, err := openStore(ctx, rt, false)
			if err != nil {
				return err
			}
			defer store.Close()

			achievements := services.NewAchievementService(store, clock.System{}, nil, rt.log)
			if err := seedCatalog(ctx, rt, achievements, services.NewLocationService(store, rt.log)); err != nil {
				return err
			}
			cmd.Printf("seeded %d achievements and %d locations\n", len(achievement.DefaultCatalog), len(location.DefaultCatalog))
			return nil
		},
	}
}

func seedCatalog(ctx context.Context, rt *runtime, achievements *services.AchievementService, locations *services.LocationService) error {
	if err := achievements.Seed(ctx, achievement.DefaultCatalog); err != nil {
		return err
	}
	rt.log.WithField("count", len(achievement.DefaultCatalog)).Info("achievement catalog seeded")

	if err := locations.Seed(ctx, location.DefaultCatalog); err != nil {
		return err
	}
	rt.log.WithField("count", len(location.DefaultCatalog)).Info("location catalog seeded")
	return nil
}
