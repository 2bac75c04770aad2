// Package cli holds the greencommute command tree: serve runs the API,
// migrate applies the embedded schema, seed loads the achievement catalog.
package cli

import (
	"github.com/spf13/cobra"

	"greenCommuteAPI/internal/config"
	"greenCommuteAPI/internal/logger"
)

const serviceName = "greencommute-api"

// runtime is what every subcommand gets after the root pre-run.
type runtime struct {
	cfg *config.Config
	log *logger.Logger
}

func NewRootCmd(version string) *cobra.Command {
	rt := &runtime{}
	var envFile string

	cmd := &cobra.Command{
		Use:           "greencommute",
		Short:         "Green commute journey and battle API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			cfg, loadedDotenv, err := config.Load(files...)
			if err != nil {
				return err
			}
			rt.cfg = cfg
			rt.log = logger.New(serviceName, cfg.LogLevel)
			if !loadedDotenv {
				rt.log.Info("No .env file found")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load before reading the environment (default .env)")
	cmd.AddCommand(newServeCmd(rt), newMigrateCmd(rt), newSeedCmd(rt))

	return cmd
}
