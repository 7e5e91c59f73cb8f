// Package entity はarticleフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Article は出品されている商品記事です。
type Article struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:500" json:"image_url"`
	Seller      string    `gorm:"size:255" json:"seller"`
	Rating      float64   `json:"rating"`
	Price       float64   `gorm:"not null" json:"price"`
	OwnerID     *uint     `gorm:"index" json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// OwnedBy はuserIDがこの記事の作成者かどうかを返します。
func (a *Article) OwnedBy(userID uint) bool {
	return a.OwnerID != nil && *a.OwnerID == userID
}

// Favorite はユーザーが記事をお気に入りに登録したことを表します。(UserID, ArticleID) は一意です。
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorite_user_article" json:"user_id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_favorite_user_article;index" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteArticle はお気に入り一覧の1件で、記事にお気に入りIDを付与したものです。
type FavoriteArticle struct {
	Article
	FavoriteID uint `json:"favorite_id"`
}
