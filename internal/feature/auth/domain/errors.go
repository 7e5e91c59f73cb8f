// Package domain はユーザーに関するドメインレベルのエラーを定義します。
// authフィーチャーとuserフィーチャーの両方のリポジトリ実装がこれらを返します。
package domain

import "errors"

var (
	// ErrUserAlreadyExists は同じメールアドレスまたはユーザー名のユーザーが既に存在することを示します。
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrUserNotFound は条件に一致するユーザーが見つからないことを示します。
	ErrUserNotFound = errors.New("user not found")
)
