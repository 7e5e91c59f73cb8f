package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/usecase"
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

	require.NoError(t, db.AutoMigrate(&entity.Article{}, &entity.Favorite{}))
	return db
}

func createArticle(t *testing.T, repo *articleGorm, name string) *entity.Article {
	t.Helper()
	a := &entity.Article{Name: name, Price: 10, Rating: 4.5, Seller: "shop"}
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestArticleGorm_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewArticleGorm(setupTestDB(t))

	first := createArticle(t, repo, "Phone")
	createArticle(t, repo, "Laptop")
	assert.NotZero(t, first.ID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Phone", list[0].Name)

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Rating)

	_, err = repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, usecase.ErrArticleNotFound)

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, usecase.ErrArticleNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), usecase.ErrArticleNotFound)
}

func TestArticleGorm_DeleteRemovesFavorites(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	articles := NewArticleGorm(db)
	favorites := NewFavoriteGorm(db)

	a := createArticle(t, articles, "Camera")
	keep := createArticle(t, articles, "Tripod")
	require.NoError(t, favorites.Create(ctx, &entity.Favorite{UserID: 1, ArticleID: a.ID}))
	require.NoError(t, favorites.Create(ctx, &entity.Favorite{UserID: 2, ArticleID: a.ID}))
	require.NoError(t, favorites.Create(ctx, &entity.Favorite{UserID: 1, ArticleID: keep.ID}))

	require.NoError(t, articles.Delete(ctx, a.ID))

	var count int64
	require.NoError(t, db.Model(&entity.Favorite{}).Where("article_id = ?", a.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&entity.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFavoriteGorm(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	articles := NewArticleGorm(db)
	repo := NewFavoriteGorm(db)

	a := createArticle(t, articles, "Watch")
	b := createArticle(t, articles, "Speaker")

	require.NoError(t, repo.Create(ctx, &entity.Favorite{UserID: 1, ArticleID: a.ID}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Favorite{UserID: 1, ArticleID: a.ID}), usecase.ErrFavoriteExists)
	fav := &entity.Favorite{UserID: 1, ArticleID: b.ID}
	require.NoError(t, repo.Create(ctx, fav))

	found, err := repo.Find(ctx, 1, b.ID)
	require.NoError(t, err)
	assert.Equal(t, fav.ID, found.ID)
	_, err = repo.Find(ctx, 2, b.ID)
	assert.ErrorIs(t, err, usecase.ErrFavoriteNotFound)

	list, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	names := []string{list[0].Name, list[1].Name}
	assert.ElementsMatch(t, []string{"Watch", "Speaker"}, names)
	for _, fa := range list {
		assert.NotZero(t, fa.FavoriteID)
		assert.NotZero(t, fa.ID)
	}

	empty, err := repo.ListByUser(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.Delete(ctx, 1, a.ID))
	assert.ErrorIs(t, repo.Delete(ctx, 1, a.ID), usecase.ErrFavoriteNotFound)
}
