// Package jwtmw は用途(purpose)付きJWTの発行・検証と、Gin用の認証ミドルウェアを提供します。
package jwtmw

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Purposeはトークンの種別です。期待された用途のトークンだけが受け付けられます。
type Purpose string

const (
	// PurposeSessionは保護されたAPI呼び出しで毎回送られる短命トークンです。
	PurposeSession Purpose = "session"
	// PurposeBiometricは端末に保存される長命トークンで、セッショントークンと交換するためだけに使います。
	PurposeBiometric Purpose = "biometric"
)

// Identityはトークンの発行対象となるユーザ情報です。
type Identity struct {
	UserID   uint
	Email    string
	Username string
}

// Claimsは署名されるペイロードです。
type Claims struct {
	UserID   uint    `json:"id"`
	Email    string  `json:"email,omitempty"`
	Username string  `json:"username,omitempty"`
	Purpose  Purpose `json:"purpose"`
	jwt.RegisteredClaims
}

var (
	// ErrTokenInvalidは署名不正・想定外のアルゴリズム・壊れたペイロードを表します。
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpiredは署名は正しいが有効期限切れのトークンを表します。
	ErrTokenExpired = errors.New("token expired")
	// ErrPurposeMismatchは有効なトークンだが用途が期待と異なる場合のエラーです。
	ErrPurposeMismatch = errors.New("token purpose mismatch")
	// ErrMissingSecretは署名鍵が未設定の場合のエラーです。
	ErrMissingSecret = errors.New("jwt secret is not configured")
)
