package jwtmw

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifierは提示されたトークンの署名・有効期限・用途を検証します。
type Verifier struct {
	secret []byte
}

// NewVerifierは指定されたHMAC秘密鍵を使うVerifierを生成します。
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// VerifyはtokenStrを解析し、サーバ鍵で署名済みかつ期限内で、期待した用途を持つ場合にClaimsを返します。
func (v *Verifier) Verify(tokenStr string, expected Purpose) (*Claims, error) {
	if len(v.secret) == 0 {
		return nil, ErrMissingSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		// 署名アルゴリズムの確認（HMACのみ許可）
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, ErrTokenInvalid
	}
	if claims.Purpose != expected {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrPurposeMismatch, claims.Purpose, expected)
	}

	return claims, nil
}
