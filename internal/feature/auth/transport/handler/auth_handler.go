// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
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
	"lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/auth/transport/http/dto"
	"lab_backend/internal/feature/auth/usecase"
	jwtmw "lab_backend/internal/platform/jwt"
	"lab_backend/internal/platform/upload"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	Signup(ctx context.Context, in usecase.SignupInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, loginKey, password string) (*usecase.AuthResult, error)
	Me(ctx context.Context, userID uint) (*entity.User, error)
	SetBiometric(ctx context.Context, userID uint, enabled bool) (*entity.User, error)
	IssueBiometricToken(ctx context.Context, userID uint) (*usecase.TokenResult, error)
	LoginWithBiometric(ctx context.Context, biometricToken string) (*usecase.AuthResult, error)
}

// ImageUploader はプロフィール画像を検証・保存し、取得用URLを返します。
type ImageUploader interface {
	SaveImage(ctx context.Context, fh *multipart.FileHeader) (string, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth     AuthUsecase
	uploader ImageUploader
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// uploader が nil の場合、登録時の画像は受け付けません。
func NewAuthHandler(auth AuthUsecase, uploader ImageUploader) *AuthHandler {
	return &AuthHandler{auth: auth, uploader: uploader}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - JSONまたはmultipart/form-dataをSignupReqにバインド
// - バリデーションエラー・画像形式エラー時は400を返却
// - メールアドレス/ユーザー名の重複時は409を返却
// - 成功時はセッショントークン付きで201を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "an email or username and a password of at least 8 characters are required")
		return
	}
	if strings.TrimSpace(req.Email) == "" && strings.TrimSpace(req.Username) == "" {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "an email or username is required")
		return
	}

	photoURL, ok := h.savePhoto(c)
	if !ok {
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
		PhotoURL:    photoURL,
		FCMToken:    req.FCMToken,
		Platform:    req.Platform,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyExists):
			slog.Warn("signup conflict", "email", req.Email, "username", req.Username, "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusConflict, api.CodeConflict, "user already exists")
		case errors.Is(err, usecase.ErrWeakPassword), errors.Is(err, usecase.ErrInvalidUsername),
			errors.Is(err, usecase.ErrMissingLoginKey):
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
		default:
			slog.Error("signup failed", "error", err, "email", req.Email)
			api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		}
		return
	}

	slog.Info("user signup successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.OK(c, http.StatusCreated, "user registered", toAuthRes(res))
}

// savePhoto はmultipartリクエストに含まれる photo を保存します。
// 画像がない場合は空文字を返します。レスポンスを書き込んだ場合は false を返します。
func (h *AuthHandler) savePhoto(c *gin.Context) (string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return "", true
	}
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return "", true
	}
	if err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "invalid multipart body")
		return "", false
	}
	if h.uploader == nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "photo uploads are not enabled")
		return "", false
	}

	url, err := h.uploader.SaveImage(c.Request.Context(), fh)
	if err != nil {
		if errors.Is(err, upload.ErrUnsupportedType) || errors.Is(err, upload.ErrTooLarge) {
			api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, err.Error())
			return "", false
		}
		slog.Error("photo upload failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return "", false
	}
	return url, true
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時はキーとパスワードのどちらが誤っているかに関わらず401を返却
// - 認証成功時はセッショントークン付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil || req.LoginKey() == "" {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "email or username and password are required")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.LoginKey(), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "login_key", req.LoginKey(), "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusUnauthorized, api.CodeInvalidCredentials, "invalid credentials")
			return
		}
		slog.Error("login error", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.OK(c, http.StatusOK, "login successful", toAuthRes(res))
}

// Me は認証済みユーザー自身の情報を返します。
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, err, "me")
		return
	}
	api.OK(c, http.StatusOK, "ok", user.Profile())
}

// SetBiometric は生体認証ログインの有効/無効を切り替えます。
func (h *AuthHandler) SetBiometric(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}
	var req dto.BiometricToggleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "enabled (boolean) is required")
		return
	}

	user, err := h.auth.SetBiometric(c.Request.Context(), userID, *req.Enabled)
	if err != nil {
		writeUserError(c, err, "set biometric")
		return
	}
	slog.Info("biometric setting updated", "user_id", userID, "enabled", *req.Enabled)
	api.OK(c, http.StatusOK, "biometric setting updated", user.Profile())
}

// IssueBiometricToken は生体認証が有効なユーザーに長命の生体認証トークンを発行します。
func (h *AuthHandler) IssueBiometricToken(c *gin.Context) {
	userID, ok := jwtmw.CurrentUserID(c)
	if !ok {
		api.Fail(c, http.StatusUnauthorized, api.CodeUnauthenticated, "authentication required")
		return
	}

	res, err := h.auth.IssueBiometricToken(c.Request.Context(), userID)
	if err != nil {
		writeUserError(c, err, "issue biometric token")
		return
	}
	api.OK(c, http.StatusOK, "biometric token issued", dto.BiometricTokenRes{
		BiometricToken: res.Token,
		ExpiresAt:      res.ExpiresAt,
	})
}

// LoginWithBiometric は生体認証トークンをセッショントークンと交換します。
func (h *AuthHandler) LoginWithBiometric(c *gin.Context) {
	var req dto.BiometricLoginReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token()) == "" {
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "biometric_token is required")
		return
	}

	res, err := h.auth.LoginWithBiometric(c.Request.Context(), strings.TrimSpace(req.Token()))
	if err != nil {
		switch {
		case errors.Is(err, jwtmw.ErrTokenExpired):
			api.Fail(c, http.StatusUnauthorized, api.CodeTokenExpired, "biometric token expired")
		case errors.Is(err, usecase.ErrInvalidBiometricToken):
			slog.Warn("biometric login rejected", "error", err, "remote_addr", c.ClientIP())
			api.Fail(c, http.StatusUnauthorized, api.CodeTokenInvalid, "invalid biometric token")
		default:
			writeUserError(c, err, "biometric login")
		}
		return
	}

	slog.Info("biometric login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	api.OK(c, http.StatusOK, "login successful", toAuthRes(res))
}

// writeUserError はユーザー関連のエラーをHTTPステータスに変換します。
func writeUserError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		api.Fail(c, http.StatusNotFound, api.CodeUserNotFound, "user not found")
	case errors.Is(err, usecase.ErrBiometricDisabled):
		api.Fail(c, http.StatusBadRequest, api.CodeInvalidRequest, "biometric login is disabled for this user")
	default:
		slog.Error(op+" failed", "error", err)
		api.Fail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
	}
}

func toAuthRes(res *usecase.AuthResult) dto.AuthRes {
	return dto.AuthRes{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User.Profile(),
	}
}
