package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lab_backend/internal/app/di"
	infradb "lab_backend/internal/platform/db"
)

// migrateCmd はテーブルを作成・更新します。
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.DB.RunMigrations = false
		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := infradb.Migrate(db, di.Models()...); err != nil {
			return err
		}
		slog.Info("migrations applied", "driver", cfg.DB.Driver)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
