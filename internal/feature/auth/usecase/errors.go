// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrInvalidCredentials はログインキーまたはパスワードが誤っている場合に返されます。
	// ユーザー列挙を防ぐため、どちらが誤っているかは区別しません。
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword はパスワードが最低文字数を満たさない場合に返されます。
	ErrWeakPassword = errors.New("password too short")

	// ErrMissingLoginKey は登録時にメールアドレスとユーザー名のどちらも指定されていない場合に返されます。
	ErrMissingLoginKey = errors.New("email or username is required")

	// ErrInvalidUsername はユーザー名にメールアドレスと区別できない文字が含まれる場合に返されます。
	ErrInvalidUsername = errors.New("username must not contain '@'")

	// ErrBiometricDisabled は生体認証が無効なユーザーに生体認証トークンを発行・使用しようとした場合に返されます。
	ErrBiometricDisabled = errors.New("biometric login is disabled for this user")

	// ErrInvalidBiometricToken は生体認証トークンが不正・期限切れ・用途違いの場合に返されます。
	ErrInvalidBiometricToken = errors.New("invalid biometric token")
)
