package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/transport/http/dto"
	jwtmw "lab_backend/internal/platform/jwt"
)

// FavoriteUsecase はお気に入り操作のユースケースを定義します。
type FavoriteUsecase interface {
	List(ctx context.Context, userID uint) ([]entity.FavoriteArticle, error)
	Add(ctx context.Context, userID, articleID uint) (*entity.Favorite, bool, error)
	Remove(ctx context.Context, userID, articleID uint) error
}

// FavoriteHandler はお気に入り関連のHTTPリクエストを処理します。
type FavoriteHandler struct {
	favorites FavoriteUsecase
}

// NewFavoriteHandler はFavoriteHandlerの新しいインスタンスを生成します。
func NewFavoriteHandler(favorites FavoriteUsecase) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

// List は認証済みユーザーのお気に入り記事を返します。
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	favorites, err := h.favorites.List(c.Request.Context(), userID)
	if err != nil {
		writeArticleError(c, "list favorites failed", err)
		return
	}
	if favorites == nil {
		favorites = []entity.FavoriteArticle{}
	}
	api.OK(c, http.StatusOK, "ok", favorites)
}

// Add は記事をお気に入りに追加します。新規なら201、追加済みなら200を返します。
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	var req dto.AddFavoriteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "article_id is required")
		return
	}

	fav, created, err := h.favorites.Add(c.Request.Context(), userID, req.ArticleID)
	if err != nil {
		writeArticleError(c, "add favorite failed", err)
		return
	}
	if !created {
		api.OK(c, http.StatusOK, "article already in favorites", fav)
		return
	}
	api.OK(c, http.StatusCreated, "favorite added", fav)
}

// Remove は記事をお気に入りから外します。
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	articleID, ok := parseID(c, "articleId")
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), userID, articleID); err != nil {
		writeArticleError(c, "remove favorite failed", err)
		return
	}
	api.OK(c, http.StatusOK, "favorite removed", nil)
}
