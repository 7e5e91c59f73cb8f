package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/usecase"
	"lab_backend/internal/platform/db"
)

// favoriteGorm はFavoriteRepositoryインターフェースのGORM実装です。
type favoriteGorm struct {
	db *gorm.DB
}

var _ usecase.FavoriteRepository = (*favoriteGorm)(nil)

// NewFavoriteGorm は指定されたgorm.DB接続でfavoriteGormの新しいインスタンスを生成します。
func NewFavoriteGorm(db *gorm.DB) *favoriteGorm {
	return &favoriteGorm{db: db}
}

// ListByUser はユーザーのお気に入り記事を新しい順に返します。
func (r *favoriteGorm) ListByUser(ctx context.Context, userID uint) ([]entity.FavoriteArticle, error) {
	var out []entity.FavoriteArticle
	err := r.db.WithContext(ctx).
		Table("favorites").
		Select("articles.*, favorites.id AS favorite_id").
		Joins("JOIN articles ON articles.id = favorites.article_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC, favorites.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Find はユーザーと記事の組でお気に入りを取得します。
func (r *favoriteGorm) Find(ctx context.Context, userID, articleID uint) (*entity.Favorite, error) {
	var f entity.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrFavoriteNotFound
		}
		return nil, err
	}
	return &f, nil
}

// Create はお気に入りを保存します。
// (user_id, article_id) が重複する場合、usecase.ErrFavoriteExistsを返します。
func (r *favoriteGorm) Create(ctx context.Context, f *entity.Favorite) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return usecase.ErrFavoriteExists
		}
		return err
	}
	return nil
}

// Delete はお気に入りを削除します。
func (r *favoriteGorm) Delete(ctx context.Context, userID, articleID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&entity.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrFavoriteNotFound
	}
	return nil
}
