package usecase

import (
	"context"
	"strings"

	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/user/domain/entity"
)

// UserRepository はuserユースケースが必要とするユーザー永続化操作です。
type UserRepository interface {
	List(ctx context.Context) ([]authentity.User, error)
	FindByEmail(ctx context.Context, email string) (*authentity.User, error)
	UpdateProfile(ctx context.Context, id uint, update authentity.ProfileUpdate) (*authentity.User, error)
}

// DeviceRepository はプッシュ通知用デバイストークンの永続化を抽象化します。
type DeviceRepository interface {
	// Register はトークンを登録します。既に登録済みの場合は last_used_at と platform を更新します。
	Register(ctx context.Context, userID uint, token, platform string) error
	ListTokens(ctx context.Context, userID uint) ([]string, error)
	List(ctx context.Context, userID uint) ([]entity.DeviceToken, error)
	Remove(ctx context.Context, userID uint, token string) error
}

// userUsecase はユーザー情報とデバイス登録のビジネスロジックを実装します。
type userUsecase struct {
	users   UserRepository
	devices DeviceRepository
}

// NewUserUsecase はuserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(users UserRepository, devices DeviceRepository) *userUsecase {
	return &userUsecase{users: users, devices: devices}
}

// List は全ユーザーを返します。
func (u *userUsecase) List(ctx context.Context) ([]authentity.User, error) {
	return u.users.List(ctx)
}

// GetByEmail はメールアドレスでユーザーを取得します。
func (u *userUsecase) GetByEmail(ctx context.Context, email string) (*authentity.User, error) {
	return u.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateProfile は認証済みユーザーのプロフィールを更新します。
func (u *userUsecase) UpdateProfile(ctx context.Context, userID uint, update authentity.ProfileUpdate) (*authentity.User, error) {
	if update.FullName == nil && update.PhoneNumber == nil && update.PhotoURL == nil {
		return nil, ErrEmptyProfileUpdate
	}
	return u.users.UpdateProfile(ctx, userID, update)
}

// RegisterDevice はプッシュ通知用トークンを登録します。同じトークンの再登録は冪等です。
func (u *userUsecase) RegisterDevice(ctx context.Context, userID uint, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingDeviceToken
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = entity.DefaultPlatform
	}
	return u.devices.Register(ctx, userID, token, platform)
}

// ListDevices はユーザーの登録済みデバイスを返します。
func (u *userUsecase) ListDevices(ctx context.Context, userID uint) ([]entity.DeviceToken, error) {
	return u.devices.List(ctx, userID)
}
