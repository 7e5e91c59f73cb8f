package jwtmw

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lab_backend/internal/api"
)

// AuthRequiredがGinコンテキストに設定するキー。
const (
	ContextUserID = "userID"
	ContextClaims = "claims"
)

var (
	errMissingAuthorization   = errors.New("missing authorization header")
	errMalformedAuthorization = errors.New("malformed authorization header")
)

// TokenVerifierはトークン文字列を期待する用途で検証します。
type TokenVerifier interface {
	Verify(tokenStr string, expected Purpose) (*Claims, error)
}

// UserCheckerはリクエスト毎にユーザの存在をストレージで再確認します。
// 削除済みユーザのトークンはここで拒否されます。
type UserChecker interface {
	UserExists(ctx context.Context, id uint) (bool, error)
}

// AuthRequiredはsession用途のBearerトークンだけを受け付けるGinミドルウェアを返します。
// ヘッダ欠落/不正、トークン不正、期限切れはそれぞれ異なるcodeで401を返します。
// usersがnilの場合はストレージを参照せずにクレームを信頼します。
func AuthRequired(verifier TokenVerifier, users UserChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			api.AbortFail(c, http.StatusUnauthorized, api.CodeUnauthenticated, err.Error())
			return
		}

		claims, err := verifier.Verify(tokenStr, PurposeSession)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.AbortFail(c, http.StatusUnauthorized, api.CodeTokenExpired, "token expired")
			case errors.Is(err, ErrPurposeMismatch):
				api.AbortFail(c, http.StatusUnauthorized, api.CodeTokenInvalid, "token not valid for this endpoint")
			case errors.Is(err, ErrMissingSecret):
				slog.Error("jwt secret missing", "error", err)
				api.AbortFail(c, http.StatusInternalServerError, api.CodeInternal, "server misconfigured")
			default:
				api.AbortFail(c, http.StatusUnauthorized, api.CodeTokenInvalid, "invalid token")
			}
			return
		}

		if users != nil {
			exists, err := users.UserExists(c.Request.Context(), claims.UserID)
			if err != nil {
				slog.Error("auth user lookup failed", "user_id", claims.UserID, "error", err)
				api.AbortFail(c, http.StatusInternalServerError, api.CodeInternal, "internal error")
				return
			}
			if !exists {
				api.AbortFail(c, http.StatusUnauthorized, api.CodeUserNotFound, "user not found")
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// BearerTokenは `Authorization: Bearer <token>` ヘッダ値からトークンを取り出します。
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errMalformedAuthorization
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errMalformedAuthorization
	}
	return token, nil
}

// CurrentUserIDはAuthRequiredが設定した認証済みユーザIDを返します。
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// CurrentClaimsはAuthRequiredが設定したクレームを返します。
func CurrentClaims(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
