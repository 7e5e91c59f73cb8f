// Package entity はuserフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// DefaultPlatform はクライアントがプラットフォームを送らなかった場合の値です。
const DefaultPlatform = "unknown"

// DeviceToken はプッシュ通知の送信先となる端末の登録情報です。
// 1ユーザーに0個以上紐づき、(UserID, Token) の組は一意です。
type DeviceToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_device_user_token" json:"user_id"`
	Token      string    `gorm:"size:512;not null;uniqueIndex:idx_device_user_token" json:"token"`
	Platform   string    `gorm:"size:20;not null" json:"platform"`
	LastUsedAt time.Time `json:"last_used_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
