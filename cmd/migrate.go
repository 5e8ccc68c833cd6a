package cmd

import (
	"fmt"

	"subercraftex/database"
	"subercraftex/database/seeders"
	"subercraftex/logger"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.InitDB(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}

			if seed {
				if err := seeders.SeedCatalog(db); err != nil {
					return fmt.Errorf("failed to seed catalog: %w", err)
				}
			}
			logger.Success("Migrations executed successfully", "seeded", seed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Insert the demo service and material catalog")
	return cmd
}
