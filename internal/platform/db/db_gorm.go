// Package db opens the gorm connection for the configured SQL driver.
package db

import (
	"fmt"
	"log"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lab_backend/internal/platform/config"
)

const retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN. It is swapped out in tests.
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN returns the driver-specific connection string.
func BuildDSN(cfg config.DBConfig) string {
	switch cfg.Driver {
	case "postgres":
		u := &url.URL{
			Scheme: "postgres",
			Host:   fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			User:   url.UserPassword(cfg.User, cfg.Password),
			Path:   cfg.Name,
		}
		q := u.Query()
		sslmode := cfg.SSLMode
		if sslmode == "" {
			sslmode = "disable"
		}
		q.Set("sslmode", sslmode)
		u.RawQuery = q.Encode()
		return u.String()
	case "sqlite":
		return cfg.SQLitePath
	default:
		if cfg.InstanceName != "" {
			return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
				cfg.User, cfg.Password, cfg.InstanceName, cfg.Name)
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	}
}

// NewOpener returns an Opener for the configured driver.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func NewOpener(driver string) (Opener, error) {
	gcfg := &gorm.Config{TranslateError: true}
	switch driver {
	case "mysql":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(mysql.Open(dsn), gcfg) }, nil
	case "postgres":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(postgres.Open(dsn), gcfg) }, nil
	case "sqlite":
		return func(dsn string) (*gorm.DB, error) { return gorm.Open(sqlite.Open(dsn), gcfg) }, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// ConnectWithRetry keeps calling open until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects with a 60s retry window and optionally migrates the given models.
func OpenDB(cfg config.DBConfig, models ...any) (*gorm.DB, error) {
	open, err := NewOpener(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, open)
	if err != nil {
		return nil, err
	}
	if cfg.RunMigrations {
		if err := Migrate(db, models...); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates tables for models.
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
