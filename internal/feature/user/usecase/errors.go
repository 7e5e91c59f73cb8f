// Package usecase はuserフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrMissingDeviceToken はデバイストークンが空の場合に返されます。
	ErrMissingDeviceToken = errors.New("fcm_token is required")

	// ErrEmptyProfileUpdate は更新項目が1つも指定されていない場合に返されます。
	ErrEmptyProfileUpdate = errors.New("no profile fields to update")
)
