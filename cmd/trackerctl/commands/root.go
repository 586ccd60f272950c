package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"altis.app/tracker/common/id"
	"altis.app/tracker/common/logger"
	"altis.app/tracker/core/config"
	"altis.app/tracker/core/db"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "trackerctl",
		Short:         "Operator tooling for the tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newSeedCommand())
	root.AddCommand(newOrgCommand())
	return root
}

// connect loads CLI config, sets up logging and opens the database.
func connect(ctx context.Context) (*db.DB, error) {
	cfg, err := config.Load(config.ServiceTypeCLI)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Setup(cfg)

	if err := id.Init(3); err != nil {
		return nil, fmt.Errorf("initializing id generator: %w", err)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return database, nil
}
