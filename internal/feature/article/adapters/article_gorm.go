// Package adapters はarticleフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/usecase"
)

// articleGorm はArticleRepositoryインターフェースのGORM実装です。
type articleGorm struct {
	db *gorm.DB
}

// articleGormがArticleRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.ArticleRepository = (*articleGorm)(nil)

// NewArticleGorm は指定されたgorm.DB接続でarticleGormの新しいインスタンスを生成します。
func NewArticleGorm(db *gorm.DB) *articleGorm {
	return &articleGorm{db: db}
}

// List は全記事をID順に返します。
func (r *articleGorm) List(ctx context.Context) ([]entity.Article, error) {
	var articles []entity.Article
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindByID はIDで記事を取得します。
// 該当する記事が存在しない場合、usecase.ErrArticleNotFoundを返します。
func (r *articleGorm) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	var a entity.Article
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create は記事を保存します。
func (r *articleGorm) Create(ctx context.Context, a *entity.Article) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// Delete は記事のお気に入りと記事本体を1トランザクションで削除します。
func (r *articleGorm) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&entity.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entity.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrArticleNotFound
		}
		return nil
	})
}
