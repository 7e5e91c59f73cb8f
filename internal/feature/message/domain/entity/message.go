// Package entity はmessageフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Message はユーザー間で送信されたメッセージです。
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// NotificationStatus はプッシュ通知1件の配信結果です。
type NotificationStatus string

const (
	NotificationSuccess NotificationStatus = "success"
	NotificationError   NotificationStatus = "error"
)

// NotificationLog はメッセージに対するデバイスごとの配信記録です。
type NotificationLog struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	MessageID   uint               `gorm:"not null;index" json:"message_id"`
	DeviceToken string             `gorm:"size:512;not null" json:"device_token"`
	Status      NotificationStatus `gorm:"size:16;not null" json:"status"`
	// Detail はプロバイダーのメッセージIDまたはエラー内容です。
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `json:"created_at"`
}

// ReceivedMessage は受信一覧の1件で、送信者の公開情報を含みます。
type ReceivedMessage struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	SenderEmail string    `json:"sender_email"`
	SenderName  string    `json:"sender_name"`
	SenderPhoto string    `json:"sender_photo"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeliverySummary は送信時のプッシュ通知結果の集計です。
type DeliverySummary struct {
	Success      bool   `json:"success"`
	TotalDevices int    `json:"total_devices"`
	SuccessCount int    `json:"success_count"`
	FailureCount int    `json:"failure_count"`
	Message      string `json:"message,omitempty"`
}
