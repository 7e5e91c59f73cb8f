// Package adapters はauthフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"lab_backend/internal/feature/auth/domain"
	"lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/auth/domain/repository"
	"lab_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// MySQL / PostgreSQL / SQLite のいずれの接続でも動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ repository.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はユーザーをデータベースに追加します。
// メールアドレスまたはユーザー名が重複する場合、domain.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if db.IsDuplicateKey(err) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID はIDでユーザーを取得します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", email)
}

// FindByUsername はユーザー名でユーザーを取得します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

// first は条件に一致する最初のユーザーを返します。
// 該当するユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
func (r *userGorm) first(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List は全ユーザーをID順に返します。
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Exists はユーザーが存在するかを返します。
func (r *userGorm) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateLastLogin は最終ログイン日時を更新します。
func (r *userGorm) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"last_login_at": at})
}

// UpdateBiometric は生体認証フラグを更新します。
func (r *userGorm) UpdateBiometric(ctx context.Context, id uint, enabled bool) error {
	return r.updateColumns(ctx, id, map[string]any{"biometric_enabled": enabled})
}

// UpdateProfile はnilでない項目だけを更新し、更新後のユーザーを返します。
func (r *userGorm) UpdateProfile(ctx context.Context, id uint, update entity.ProfileUpdate) (*entity.User, error) {
	cols := map[string]any{}
	if update.FullName != nil {
		cols["full_name"] = *update.FullName
	}
	if update.PhoneNumber != nil {
		cols["phone_number"] = *update.PhoneNumber
	}
	if update.PhotoURL != nil {
		cols["photo_url"] = *update.PhotoURL
	}
	if len(cols) > 0 {
		if err := r.updateColumns(ctx, id, cols); err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// updateColumns は指定カラムを更新します。対象行がない場合はdomain.ErrUserNotFoundを返します。
func (r *userGorm) updateColumns(ctx context.Context, id uint, cols map[string]any) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// MySQLは値が変わらない場合に0を返すため、存在確認で判定する
		exists, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrUserNotFound
		}
	}
	return nil
}
