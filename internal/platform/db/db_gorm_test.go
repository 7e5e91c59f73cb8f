package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lab_backend/internal/platform/config"
)

func TestBuildDSN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.DBConfig
		expected string
	}{
		{
			name: "mysql tcp",
			cfg: config.DBConfig{Driver: "mysql", User: "testuser", Password: "testpass",
				Name: "testdb", Host: "localhost", Port: "3306"},
			expected: "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "mysql cloud sql takes precedence over host",
			cfg: config.DBConfig{Driver: "mysql", User: "testuser", Password: "testpass",
				Name: "testdb", Host: "localhost", Port: "3306", InstanceName: "project:region:instance"},
			expected: "testuser:testpass@unix(/cloudsql/project:region:instance)/testdb?charset=utf8mb4&parseTime=true&loc=Local",
		},
		{
			name: "postgres",
			cfg: config.DBConfig{Driver: "postgres", User: "lab", Password: "p@ss",
				Name: "labdb", Host: "db", Port: "5432"},
			expected: "postgres://lab:p%40ss@db:5432/labdb?sslmode=disable",
		},
		{
			name: "postgres with ssl",
			cfg: config.DBConfig{Driver: "postgres", User: "lab", Password: "pw",
				Name: "labdb", Host: "db", Port: "5432", SSLMode: "require"},
			expected: "postgres://lab:pw@db:5432/labdb?sslmode=require",
		},
		{
			name:     "sqlite",
			cfg:      config.DBConfig{Driver: "sqlite", SQLitePath: "./lab.db"},
			expected: "./lab.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, BuildDSN(tt.cfg))
		})
	}
}

func TestNewOpener(t *testing.T) {
	t.Parallel()

	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		open, err := NewOpener(driver)
		require.NoError(t, err, driver)
		assert.NotNil(t, open, driver)
	}

	_, err := NewOpener("oracle")
	assert.Error(t, err)
}

func TestNewOpener_SQLiteMigrate(t *testing.T) {
	t.Parallel()

	type widget struct {
		ID   uint   `gorm:"primaryKey"`
		Code string `gorm:"uniqueIndex"`
	}

	open, err := NewOpener("sqlite")
	require.NoError(t, err)
	db, err := open(":memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Code: "a"}).Error)

	err = db.Create(&widget{Code: "a"}).Error
	assert.True(t, IsDuplicateKey(err), "expected duplicate key, got %v", err)
}

func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	opener := func(dsn string) (*gorm.DB, error) {
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
}

func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// Not parallel: sleeps between retries.
	mockDB := &gorm.DB{}
	attemptCount := 0

	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		if attemptCount < 3 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry("test-dsn", 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 3, attemptCount)
}

func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attemptCount := 0
	opener := func(dsn string) (*gorm.DB, error) {
		attemptCount++
		return nil, errors.New("connection refused")
	}

	_, err := ConnectWithRetry("test-dsn", 100*time.Millisecond, opener)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 1, attemptCount)
}

func TestIsDuplicateKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("create: %w", gorm.ErrDuplicatedKey), true},
		{"mysql 1062", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1045}, false},
		{"postgres 23505", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: users.email"), true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsDuplicateKey(tt.err))
		})
	}
}
