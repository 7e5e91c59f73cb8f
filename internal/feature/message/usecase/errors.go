// Package usecase はmessageフィーチャーのビジネスロジックを実装します。
package usecase

import "errors"

var (
	// ErrInvalidMessage は件名・本文・宛先のいずれかが欠けている場合に返されます。
	ErrInvalidMessage = errors.New("title, body and receiver_email are required")

	// ErrReceiverNotFound は宛先ユーザーが存在しない場合に返されます。
	ErrReceiverNotFound = errors.New("receiver not found")
)
