// Package entity はauthフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// DefaultRole は登録時にロールが指定されなかった場合の値です。
const DefaultRole = "user"

// User はシステムに登録されたユーザーを表します。
// 認証情報とプロフィール情報を保持します。
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Username は任意のログインキーです。指定された場合は一意である必要があります。
	Username *string `gorm:"uniqueIndex;size:100" json:"username,omitempty"`

	// Email はログインに使用するメールアドレスです。指定された場合は一意である必要があります。
	// 空文字はNULLとして保存されるため、ユーザー名だけのユーザーは何人でも登録できます。
	Email string `gorm:"uniqueIndex;size:255;default:null" json:"email,omitempty"`

	// Password はbcryptでハッシュ化されたパスワードです。平文は決して保存しません。
	Password string `gorm:"size:255;not null" json:"-"`

	FullName         string     `gorm:"size:255" json:"full_name"`
	PhoneNumber      string     `gorm:"size:50" json:"phone_number"`
	Role             string     `gorm:"size:50;not null;default:user" json:"role"`
	PhotoURL         string     `gorm:"size:500" json:"photo_url"`
	BiometricEnabled bool       `gorm:"not null;default:false" json:"biometric_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UsernameOrEmpty はユーザー名が未設定の場合に空文字を返します。
func (u *User) UsernameOrEmpty() string {
	if u.Username == nil {
		return ""
	}
	return *u.Username
}

// Profile はパスワードを含まない、クライアントに返却するユーザー情報です。
type Profile struct {
	ID               uint       `json:"id"`
	Username         string     `json:"username,omitempty"`
	Email            string     `json:"email"`
	FullName         string     `json:"full_name"`
	PhoneNumber      string     `json:"phone_number"`
	Role             string     `json:"role"`
	PhotoURL         string     `json:"photo_url"`
	BiometricEnabled bool       `json:"biometric_enabled"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Profile はユーザーの公開用プロジェクションを返します。
func (u *User) Profile() Profile {
	return Profile{
		ID:               u.ID,
		Username:         u.UsernameOrEmpty(),
		Email:            u.Email,
		FullName:         u.FullName,
		PhoneNumber:      u.PhoneNumber,
		Role:             u.Role,
		PhotoURL:         u.PhotoURL,
		BiometricEnabled: u.BiometricEnabled,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
	}
}

// ProfileUpdate はプロフィール更新で変更可能な項目です。nilの項目は変更しません。
type ProfileUpdate struct {
	FullName    *string
	PhoneNumber *string
	PhotoURL    *string
}
