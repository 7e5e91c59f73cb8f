package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"lab_backend/internal/app/di"
	"lab_backend/internal/app/router"
	"lab_backend/internal/platform/config"
	infradb "lab_backend/internal/platform/db"
	"lab_backend/internal/platform/logger"
	infraredis "lab_backend/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

// rootCmd はHTTPサーバーを起動します。
var rootCmd = &cobra.Command{
	Use:          "lab-backend",
	Short:        "Runs the lab backend API server",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

// loadConfig は設定を読み込み、ロガーを初期化してから検証します。
func loadConfig() (config.Config, error) {
	cfg := config.Load()
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func openDB(cfg config.Config) (*gorm.DB, func(), error) {
	db, err := infradb.OpenDB(cfg.DB, di.Models()...)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("failed to close database", "error", err)
			}
		}
	}
	return db, closeDB, nil
}

// openRedis はRedisが設定されていれば接続します。接続できない場合はキャッシュなしで続行します。
func openRedis(ctx context.Context, cfg config.RedisConfig) *redisv9.Client {
	if !cfg.Enabled() {
		return nil
	}
	rdb, err := infraredis.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Warn("redis unavailable, running without cache", "addr", cfg.Addr(), "error", err)
		return nil
	}
	return rdb
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, closeDB, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	rdb := openRedis(ctx, cfg.Redis)
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close redis client", "error", err)
			}
		}()
	}

	container, err := di.Build(ctx, cfg, db, rdb, di.Options{})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router.NewRouter(container, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", cfg.ServerAddr, "db_driver", cfg.DB.Driver,
			"user_store", cfg.Users.Store, "push_provider", cfg.Push.Provider, "redis", rdb != nil)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] graceful shutdown failed: %v", err)
		return err
	}
	return nil
}
