package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"lab_backend/internal/app/di"
	"lab_backend/internal/app/seed"
	infradb "lab_backend/internal/platform/db"
)

// seedCmd はサンプルのユーザー・記事・お気に入りを投入します。
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert sample users, articles and favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, closeDB, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		if err := infradb.Migrate(db, di.Models()...); err != nil {
			return err
		}
		users, err := di.NewUserRepository(cfg.Users, db)
		if err != nil {
			return err
		}
		sum, err := seed.Run(cmd.Context(), db, users)
		if err != nil {
			return err
		}
		slog.Info("seed finished", "users", sum.Users, "articles", sum.Articles,
			"favorites", sum.Favorites, "password", seed.SamplePassword)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
