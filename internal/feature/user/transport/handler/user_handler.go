// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lab_backend/internal/api"
	"lab_backend/internal/feature/auth/domain"
	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/user/domain/entity"
	"lab_backend/internal/feature/user/transport/http/dto"
	"lab_backend/internal/feature/user/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
	"lab_backend/internal/platform/upload"
)

// UserUsecase はユーザー操作のユースケースを定義します。
type UserUsecase interface {
	List(ctx context.Context) ([]authentity.User, error)
	GetByEmail(ctx context.Context, email string) (*authentity.User, error)
	UpdateProfile(ctx context.Context, userID uint, update authentity.ProfileUpdate) (*authentity.User, error)
	RegisterDevice(ctx context.Context, userID uint, token, platform string) error
	ListDevices(ctx context.Context, userID uint) ([]entity.DeviceToken, error)
}

// ImageUploader はプロフィール画像を検証・保存し、取得用URLを返します。
type ImageUploader interface {
	SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// UserHandler はユーザー関連のHTTPリクエストを処理します。
type UserHandler struct {
	users    UserUsecase
	uploader ImageUploader
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase, uploader ImageUploader) *UserHandler {
	return &UserHandler{users: users, uploader: uploader}
}

// List は全ユーザーの公開情報を返します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	profiles := make([]authentity.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile()
	}
	api.OK(c, http.StatusOK, "ok", profiles)
}

// GetByEmail は指定メールアドレスのユーザーを返します。
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			api.Fail(c, http.StatusNotFound, api.CodeUserNotFound, "user not found")
			return
		}
		slog.Error("get user failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.OK(c, http.StatusOK, "ok", user.Profile())
}

// UpdateMe は認証済みユーザーのプロフィールを更新します。multipartの場合は photo も受け付けます。
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	var req dto.UpdateProfileReq
	if err := c.ShouldBind(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request body")
		return
	}
	update := authentity.ProfileUpdate{FullName: req.FullName, PhoneNumber: req.PhoneNumber}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("photo")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid multipart body")
			return
		default:
			url, err := h.uploader.SaveImage(c.Request.Context(), fh)
			if err != nil {
				if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrTooLarge) {
					api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
					return
				}
				slog.Error("photo upload failed", "user_id", userID, "error", err)
				api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
				return
			}
			update.PhotoURL = &url
		}
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyProfileUpdate):
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		case errors.Is(err, domain.ErrUserNotFound):
			api.Fail(c, http.StatusNotFound, api.CodeUserNotFound, "user not found")
		default:
			slog.Error("update profile failed", "user_id", userID, "error", err)
			api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
		return
	}
	api.OK(c, http.StatusOK, "profile updated", user.Profile())
}

// RegisterFCMToken は認証済みユーザーのプッシュ通知用トークンを登録します。
func (h *UserHandler) RegisterFCMToken(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	var req dto.RegisterDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request body")
		return
	}

	if err := h.users.RegisterDevice(c.Request.Context(), userID, req.Token(), req.Platform); err != nil {
		if errors.Is(err, usecase.ErrMissingDeviceToken) {
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
			return
		}
		slog.Error("register device failed", "user_id", userID, "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	slog.Info("device registered", "user_id", userID, "platform", req.Platform)
	api.OK(c, http.StatusOK, "fcm token registered", nil)
}

// ListDevices は認証済みユーザーの登録済みデバイスを返します。
func (h *UserHandler) ListDevices(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	devices, err := h.users.ListDevices(c.Request.Context(), userID)
	if err != nil {
		slog.Error("list devices failed", "user_id", userID, "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	if devices == nil {
		devices = []entity.DeviceToken{}
	}
	api.OK(c, http.StatusOK, "ok", devices)
}
