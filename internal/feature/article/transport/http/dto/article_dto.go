// Package dto はarticleフィーチャーのリクエストDTOを定義します。
package dto

// CreateArticleReq は記事作成リクエストです。
type CreateArticleReq struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Seller      string  `json:"seller"`
	Rating      float64 `json:"rating" binding:"gte=0,lte=5"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// AddFavoriteReq はお気に入り追加リクエストです。
type AddFavoriteReq struct {
	ArticleID uint `json:"article_id" binding:"required"`
}
