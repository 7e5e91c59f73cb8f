package dto

import (
	"time"

	"lab_backend/internal/feature/auth/domain/entity"
)

// AuthRes はログイン・登録成功時のdataです。
type AuthRes struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      entity.Profile `json:"user"`
}

// BiometricTokenRes は生体認証トークン発行時のdataです。
type BiometricTokenRes struct {
	BiometricToken string    `json:"biometric_token"`
	ExpiresAt      time.Time `json:"expires_at"`
}
