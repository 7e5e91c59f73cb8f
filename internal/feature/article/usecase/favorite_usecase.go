package usecase

import (
	"context"
	"errors"
	"fmt"

	"lab_backend/internal/feature/article/domain/entity"
)

// FavoriteRepository はお気に入りの永続化層を抽象化します。
type FavoriteRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]entity.FavoriteArticle, error)
	// Find はお気に入りを返します。存在しない場合は ErrFavoriteNotFound を返します。
	Find(ctx context.Context, userID, articleID uint) (*entity.Favorite, error)
	// Create はお気に入りを作成します。一意制約違反の場合は ErrFavoriteExists を返します。
	Create(ctx context.Context, fav *entity.Favorite) error
	// Delete はお気に入りを削除します。存在しない場合は ErrFavoriteNotFound を返します。
	Delete(ctx context.Context, userID, articleID uint) error
}

// ArticleFinder はお気に入り追加時に記事の存在を確認します。
type ArticleFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.Article, error)
}

// favoriteUsecase はお気に入りのビジネスロジックを実装します。
type favoriteUsecase struct {
	favorites FavoriteRepository
	articles  ArticleFinder
}

// NewFavoriteUsecase はfavoriteUsecaseの新しいインスタンスを生成します。
func NewFavoriteUsecase(favorites FavoriteRepository, articles ArticleFinder) *favoriteUsecase {
	return &favoriteUsecase{favorites: favorites, articles: articles}
}

// List はユーザーのお気に入り記事を返します。
func (u *favoriteUsecase) List(ctx context.Context, userID uint) ([]entity.FavoriteArticle, error) {
	return u.favorites.ListByUser(ctx, userID)
}

// Add は記事をお気に入りに追加します。
// 既に追加済みの場合は既存のお気に入りと created=false を返し、エラーにはしません。
// 同時リクエストで一意制約に負けた場合も同様に既存行を返します。
func (u *favoriteUsecase) Add(ctx context.Context, userID, articleID uint) (*entity.Favorite, bool, error) {
	if _, err := u.articles.FindByID(ctx, articleID); err != nil {
		return nil, false, err
	}

	existing, err := u.favorites.Find(ctx, userID, articleID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrFavoriteNotFound) {
		return nil, false, err
	}

	fav := &entity.Favorite{UserID: userID, ArticleID: articleID}
	if err := u.favorites.Create(ctx, fav); err != nil {
		if !errors.Is(err, ErrFavoriteExists) {
			return nil, false, err
		}
		existing, findErr := u.favorites.Find(ctx, userID, articleID)
		if findErr != nil {
			return nil, false, fmt.Errorf("favorite created concurrently but not readable: %w", findErr)
		}
		return existing, false, nil
	}
	return fav, true, nil
}

// Remove はお気に入りを削除します。
func (u *favoriteUsecase) Remove(ctx context.Context, userID, articleID uint) error {
	return u.favorites.Delete(ctx, userID, articleID)
}
