package cmd

import (
	"github.com/spf13/cobra"

	config "task-assignment.com/task-assignment/internal/configs"
	"task-assignment.com/task-assignment/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := config.NewDatabase(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		logging.Logger.WithField("dsn", cfg.DatabaseDSN).Info("database schema is up to date")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
