package jwtmw

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuerはサーバの秘密鍵でトークンに署名します。用途と有効期間は呼び出し側が指定します。
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuerは指定されたHMAC秘密鍵を使うIssuerを生成します。
func NewIssuer(secret string) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// IssueはHS256で署名したトークンと、その有効期限(絶対時刻)を返します。
func (i *Issuer) Issue(id Identity, purpose Purpose, ttl time.Duration) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, ErrMissingSecret
	}

	now := i.now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:   id.UserID,
		Email:    id.Email,
		Username: id.Username,
		Purpose:  purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(id.UserID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}
