package usecase

import (
	"context"
	"fmt"
	"strings"

	"lab_backend/internal/feature/article/domain/entity"
)

// ArticleRepository は記事の永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type ArticleRepository interface {
	List(ctx context.Context) ([]entity.Article, error)
	// FindByID は記事を返します。存在しない場合は ErrArticleNotFound を返します。
	FindByID(ctx context.Context, id uint) (*entity.Article, error)
	Create(ctx context.Context, article *entity.Article) error
	// Delete は記事とそのお気に入りをまとめて削除します。
	Delete(ctx context.Context, id uint) error
}

// ArticleInput は記事作成の入力です。
type ArticleInput struct {
	Name        string
	Description string
	ImageURL    string
	Seller      string
	Rating      float64
	Price       float64
}

// articleUsecase は記事のビジネスロジックを実装します。
type articleUsecase struct {
	articles ArticleRepository
}

// NewArticleUsecase はarticleUsecaseの新しいインスタンスを生成します。
func NewArticleUsecase(articles ArticleRepository) *articleUsecase {
	return &articleUsecase{articles: articles}
}

// List は全記事を返します。
func (u *articleUsecase) List(ctx context.Context) ([]entity.Article, error) {
	return u.articles.List(ctx)
}

// Get はIDで記事を返します。
func (u *articleUsecase) Get(ctx context.Context, id uint) (*entity.Article, error) {
	return u.articles.FindByID(ctx, id)
}

// Create は認証済みユーザーを作成者として記事を登録します。
func (u *articleUsecase) Create(ctx context.Context, ownerID uint, in ArticleInput) (*entity.Article, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArticle)
	}
	if in.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidArticle)
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidArticle)
	}

	owner := ownerID
	article := &entity.Article{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Seller:      strings.TrimSpace(in.Seller),
		Rating:      in.Rating,
		Price:       in.Price,
		OwnerID:     &owner,
	}
	if err := u.articles.Create(ctx, article); err != nil {
		return nil, err
	}
	return article, nil
}

// Delete は記事を削除します。作成者以外は ErrNotOwner になります。
// 作成者のない記事（シードデータ等）はAPIからは削除できません。
func (u *articleUsecase) Delete(ctx context.Context, userID, id uint) error {
	article, err := u.articles.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !article.OwnedBy(userID) {
		return ErrNotOwner
	}
	return u.articles.Delete(ctx, id)
}
