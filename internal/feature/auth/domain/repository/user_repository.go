// Package repository はユーザーストレージの完全な契約を定義します。
// 各ユースケースは必要なメソッドだけを自身のインターフェースとして宣言し、
// DIはこの契約を満たす実装（gorm / JSONファイル）を1つ選択して両方に注入します。
package repository

import (
	"context"
	"time"

	"lab_backend/internal/feature/auth/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
type UserRepository interface {
	// Create は新しいユーザーを保存します。メールアドレスかユーザー名が重複する場合は domain.ErrUserAlreadyExists を返します。
	Create(ctx context.Context, user *entity.User) error

	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)

	// Exists はユーザーの存在のみを確認します。認証ミドルウェアから毎リクエスト呼ばれます。
	Exists(ctx context.Context, id uint) (bool, error)

	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdateBiometric(ctx context.Context, id uint, enabled bool) error
	UpdateProfile(ctx context.Context, id uint, update entity.ProfileUpdate) (*entity.User, error)
}
