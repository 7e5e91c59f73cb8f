package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"lab_backend/internal/feature/auth/domain"
	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/message/domain/entity"
	"lab_backend/internal/platform/push"
)

// MessageRepository はメッセージと配信記録の永続化層を抽象化します。
type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	// ListReceived は受信者宛てのメッセージを新しい順に返します。
	ListReceived(ctx context.Context, receiverID uint) ([]entity.Message, error)
	CreateLogs(ctx context.Context, logs []entity.NotificationLog) error
}

// UserFinder は送信者・受信者の解決に使うユーザー検索です。
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*authentity.User, error)
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)
}

// DeviceStore は受信者のデバイストークンを扱います。
type DeviceStore interface {
	ListTokens(ctx context.Context, userID uint) ([]string, error)
	Remove(ctx context.Context, userID uint, token string) error
}

// Notifier はトークンごとの配信結果を返すプッシュ送信器です。
type Notifier interface {
	Send(ctx context.Context, tokens []string, n push.Notification) []push.Result
}

// SendInput はメッセージ送信の入力です。
type SendInput struct {
	Title         string
	Body          string
	ReceiverEmail string
}

// SendResult は送信されたメッセージと配信結果の集計です。
type SendResult struct {
	Message      *entity.Message        `json:"message"`
	Notification entity.DeliverySummary `json:"notification"`
}

// messageUsecase はメッセージ送受信のビジネスロジックを実装します。
type messageUsecase struct {
	messages MessageRepository
	users    UserFinder
	devices  DeviceStore
	notifier Notifier
}

// NewMessageUsecase はmessageUsecaseの新しいインスタンスを生成します。
func NewMessageUsecase(messages MessageRepository, users UserFinder, devices DeviceStore, notifier Notifier) *messageUsecase {
	return &messageUsecase{messages: messages, users: users, devices: devices, notifier: notifier}
}

// Send はメッセージを保存し、受信者の全デバイスへプッシュ通知を送ります。
// 通知の失敗はリクエストを失敗させず、集計と配信記録に残ります。
func (u *messageUsecase) Send(ctx context.Context, senderID uint, in SendInput) (*SendResult, error) {
	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	email := strings.ToLower(strings.TrimSpace(in.ReceiverEmail))
	if title == "" || body == "" || email == "" {
		return nil, ErrInvalidMessage
	}

	receiver, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	sender, err := u.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &entity.Message{Title: title, Body: body, SenderID: sender.ID, ReceiverID: receiver.ID}
	if err := u.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	return &SendResult{Message: msg, Notification: u.notify(ctx, msg, sender, receiver.ID)}, nil
}

func (u *messageUsecase) notify(ctx context.Context, msg *entity.Message, sender *authentity.User, receiverID uint) entity.DeliverySummary {
	tokens, err := u.devices.ListTokens(ctx, receiverID)
	if err != nil {
		slog.Error("list device tokens failed", "user_id", receiverID, "error", err)
		return entity.DeliverySummary{Message: "device lookup failed"}
	}
	if len(tokens) == 0 {
		return entity.DeliverySummary{Message: "no devices registered for receiver"}
	}

	results := u.notifier.Send(ctx, tokens, push.Notification{
		Title: msg.Title,
		Body:  msg.Body,
		Data: map[string]string{
			"message_id":   strconv.FormatUint(uint64(msg.ID), 10),
			"sender_email": sender.Email,
		},
	})

	summary := entity.DeliverySummary{TotalDevices: len(tokens)}
	logs := make([]entity.NotificationLog, 0, len(results))
	for _, r := range results {
		entry := entity.NotificationLog{MessageID: msg.ID, DeviceToken: r.Token}
		if r.Success {
			summary.SuccessCount++
			entry.Status, entry.Detail = entity.NotificationSuccess, r.MessageID
		} else {
			summary.FailureCount++
			entry.Status = entity.NotificationError
			if r.Err != nil {
				entry.Detail = r.Err.Error()
			}
			if r.Unregistered {
				if err := u.devices.Remove(ctx, receiverID, r.Token); err != nil {
					slog.Warn("prune unregistered device failed", "user_id", receiverID, "error", err)
				}
			}
		}
		logs = append(logs, entry)
	}
	summary.Success = summary.SuccessCount > 0

	if err := u.messages.CreateLogs(ctx, logs); err != nil {
		slog.Error("save notification logs failed", "message_id", msg.ID, "error", err)
	}
	return summary
}

// ListReceived は認証済みユーザーが受信したメッセージを新しい順に返します。
// 送信者情報はユーザーストアから解決するため、ファイル保存のユーザーでも欠落しません。
// 送信者が削除済みの場合、送信者欄は空になります。
func (u *messageUsecase) ListReceived(ctx context.Context, userID uint) ([]entity.ReceivedMessage, error) {
	msgs, err := u.messages.ListReceived(ctx, userID)
	if err != nil {
		return nil, err
	}

	senders := make(map[uint]*authentity.User)
	out := make([]entity.ReceivedMessage, 0, len(msgs))
	for _, m := range msgs {
		sender, seen := senders[m.SenderID]
		if !seen {
			sender, err = u.users.FindByID(ctx, m.SenderID)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			senders[m.SenderID] = sender
		}

		rm := entity.ReceivedMessage{ID: m.ID, Title: m.Title, Body: m.Body, CreatedAt: m.CreatedAt}
		if sender != nil {
			rm.SenderEmail = sender.Email
			rm.SenderName = sender.FullName
			rm.SenderPhoto = sender.PhotoURL
		}
		out = append(out, rm)
	}
	return out, nil
}
