package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	articleentity "lab_backend/internal/feature/article/domain/entity"
	authadapters "lab_backend/internal/feature/auth/adapters"
	authentity "lab_backend/internal/feature/auth/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&authentity.User{}, &articleentity.Article{}, &articleentity.Favorite{}))
	return db
}

// TestRun_IsIdempotent は2回目の実行で何も追加しないことを検証します。
func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	users := authadapters.NewUserGorm(db)

	sum, err := Run(ctx, db, users)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 2, Articles: 8, Favorites: 4}, sum)

	sum, err = Run(ctx, db, users)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	var articles, favorites int64
	require.NoError(t, db.Model(&articleentity.Article{}).Count(&articles).Error)
	require.NoError(t, db.Model(&articleentity.Favorite{}).Count(&favorites).Error)
	assert.EqualValues(t, 8, articles)
	assert.EqualValues(t, 4, favorites)

	u, err := users.FindByEmail(ctx, "usuario1@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(SamplePassword)))
	assert.Equal(t, "usuario1", u.UsernameOrEmpty())
}
