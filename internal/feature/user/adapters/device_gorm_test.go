package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lab_backend/internal/feature/user/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entity.DeviceToken{}))
	return db
}

func TestDeviceGorm_RegisterIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewDeviceGorm(db)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.Register(ctx, 1, "tok-a", "android"))

	second := first.Add(time.Hour)
	repo.now = func() time.Time { return second }
	require.NoError(t, repo.Register(ctx, 1, "tok-a", "ios"))

	var count int64
	require.NoError(t, db.Model(&entity.DeviceToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "re-registering must not duplicate the row")

	devices, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ios", devices[0].Platform)
	assert.True(t, second.Equal(devices[0].LastUsedAt.UTC()), "last_used_at must be refreshed")
}

func TestDeviceGorm_ListTokensAndRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewDeviceGorm(setupTestDB(t))

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, tok := range []string{"old", "new"} {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		require.NoError(t, repo.Register(ctx, 7, tok, ""))
	}
	require.NoError(t, repo.Register(ctx, 8, "other-user", "web"))

	tokens, err := repo.ListTokens(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, tokens)

	devices, err := repo.List(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultPlatform, devices[0].Platform)

	require.NoError(t, repo.Remove(ctx, 7, "old"))
	require.NoError(t, repo.Remove(ctx, 7, "never-registered"))
	tokens, err = repo.ListTokens(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, tokens)

	tokens, err = repo.ListTokens(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
