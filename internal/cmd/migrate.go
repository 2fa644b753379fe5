package cmd

import (
	"storefront/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(cfg.DB)
		if err != nil {
			return err
		}
		if sqlDB, err := gdb.DB(); err == nil {
			defer sqlDB.Close()
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		logrus.WithField("driver", cfg.DB.Driver).Info("Migration completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
