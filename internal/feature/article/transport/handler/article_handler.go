// Package handler はarticleフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/transport/http/dto"
	"lab_backend/internal/feature/article/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
)

// ArticleUsecase は記事操作のユースケースを定義します。
type ArticleUsecase interface {
	List(ctx context.Context) ([]entity.Article, error)
	Get(ctx context.Context, id uint) (*entity.Article, error)
	Create(ctx context.Context, ownerID uint, in usecase.ArticleInput) (*entity.Article, error)
	Delete(ctx context.Context, userID, id uint) error
}

// ArticleHandler は記事関連のHTTPリクエストを処理します。
type ArticleHandler struct {
	articles ArticleUsecase
}

// NewArticleHandler はArticleHandlerの新しいインスタンスを生成します。
func NewArticleHandler(articles ArticleUsecase) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// List は全記事を返します。
func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.articles.List(c.Request.Context())
	if err != nil {
		slog.Error("list articles failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if articles == nil {
		articles = []entity.Article{}
	}
	api.OK(c, http.StatusOK, "ok", articles)
}

// Get はIDで記事を返します。
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	article, err := h.articles.Get(c.Request.Context(), id)
	if err != nil {
		writeArticleError(c, "get article failed", err)
		return
	}
	api.OK(c, http.StatusOK, "ok", article)
}

// Create は認証済みユーザーを作成者として記事を登録します。
func (h *ArticleHandler) Create(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	var req dto.CreateArticleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request body")
		return
	}

	article, err := h.articles.Create(c.Request.Context(), userID, usecase.ArticleInput{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Seller:      req.Seller,
		Rating:      req.Rating,
		Price:       req.Price,
	})
	if err != nil {
		writeArticleError(c, "create article failed", err)
		return
	}
	slog.Info("article created", "article_id", article.ID, "owner_id", userID)
	api.OK(c, http.StatusCreated, "article created", article)
}

// Delete は記事を削除します。作成者以外は403です。
func (h *ArticleHandler) Delete(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.articles.Delete(c.Request.Context(), userID, id); err != nil {
		writeArticleError(c, "delete article failed", err)
		return
	}
	api.OK(c, http.StatusOK, "article deleted", nil)
}

// parseID はパスパラメータを正の整数IDとして読み取ります。失敗時は400を書き込みます。
func parseID(c *gin.Context, param string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || n == 0 {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid "+param)
		return 0, false
	}
	return uint(n), true
}

func writeArticleError(c *gin.Context, logMsg string, err error) {
	switch {
	case errors.Is(err, usecase.ErrArticleNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, "article not found")
	case errors.Is(err, usecase.ErrFavoriteNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeNotFound, "favorite not found")
	case errors.Is(err, usecase.ErrNotOwner):
		api.Fail(c, http.StatusForbidden, api.CodeForbidden, err.Error())
	case errors.Is(err, usecase.ErrInvalidArticle):
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
	default:
		slog.Error(logMsg, "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
}
