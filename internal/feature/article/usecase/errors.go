// Package usecase はarticleフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrArticleNotFound は指定IDの記事が存在しない場合に返されます。
	ErrArticleNotFound = errors.New("article not found")

	// ErrFavoriteNotFound はお気に入りが存在しない場合に返されます。
	ErrFavoriteNotFound = errors.New("favorite not found")

	// ErrFavoriteExists はお気に入りが既に存在する場合にリポジトリが返します。
	// ユースケースはこれを冪等な成功として扱います。
	ErrFavoriteExists = errors.New("favorite already exists")

	// ErrNotOwner は作成者以外が記事を削除しようとした場合に返されます。
	ErrNotOwner = errors.New("only the owner can modify this article")

	// ErrInvalidArticle は記事の入力値が不正な場合に返されます。
	ErrInvalidArticle = errors.New("invalid article")
)
