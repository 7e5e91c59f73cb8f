// Package adapters はuserフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lab_backend/internal/feature/user/domain/entity"
	"lab_backend/internal/feature/user/usecase"
)

// deviceGorm はDeviceRepositoryインターフェースのGORM実装です。
type deviceGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// deviceGormがDeviceRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.DeviceRepository = (*deviceGorm)(nil)

// NewDeviceGorm は指定されたgorm.DB接続でdeviceGormの新しいインスタンスを生成します。
func NewDeviceGorm(db *gorm.DB) *deviceGorm {
	return &deviceGorm{db: db, now: time.Now}
}

// Register はトークンをupsertします。(user_id, token) が既に存在する場合は platform と last_used_at のみ更新します。
func (r *deviceGorm) Register(ctx context.Context, userID uint, token, platform string) error {
	if platform == "" {
		platform = entity.DefaultPlatform
	}
	now := r.now()
	device := &entity.DeviceToken{
		UserID:     userID,
		Token:      token,
		Platform:   platform,
		LastUsedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"platform", "last_used_at", "updated_at"}),
	}).Create(device).Error
}

// ListTokens はユーザーのトークン文字列を最近使われた順に返します。
func (r *deviceGorm) ListTokens(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&entity.DeviceToken{}).
		Where("user_id = ?", userID).
		Order("last_used_at DESC").
		Pluck("token", &tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// List はユーザーのデバイスを最近使われた順に返します。
func (r *deviceGorm) List(ctx context.Context, userID uint) ([]entity.DeviceToken, error) {
	var devices []entity.DeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_used_at DESC").
		Find(&devices).Error
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// Remove はトークンを削除します。存在しない場合も成功として扱います。
func (r *deviceGorm) Remove(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&entity.DeviceToken{}).Error
}
