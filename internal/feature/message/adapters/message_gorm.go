package adapters

import (
	"context"

	"gorm.io/gorm"

	"lab_backend/internal/feature/message/domain/entity"
	"lab_backend/internal/feature/message/usecase"
)

// messageGorm はMessageRepositoryインターフェースのGORM実装です。
type messageGorm struct {
	db *gorm.DB
}

var _ usecase.MessageRepository = (*messageGorm)(nil)

// NewMessageGorm は指定されたgorm.DB接続でmessageGormの新しいインスタンスを生成します。
func NewMessageGorm(db *gorm.DB) *messageGorm {
	return &messageGorm{db: db}
}

// Create はメッセージを保存します。
func (r *messageGorm) Create(ctx context.Context, msg *entity.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListReceived は受信者宛てのメッセージを新しい順に返します。
func (r *messageGorm) ListReceived(ctx context.Context, receiverID uint) ([]entity.Message, error) {
	var out []entity.Message
	err := r.db.WithContext(ctx).
		Where("receiver_id = ?", receiverID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateLogs は配信記録をまとめて保存します。
func (r *messageGorm) CreateLogs(ctx context.Context, logs []entity.NotificationLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}
