package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"lab_backend/internal/feature/auth/domain"
	"lab_backend/internal/feature/auth/domain/entity"
	jwtmw "lab_backend/internal/platform/jwt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// dummyPasswordHash はユーザーが存在しない場合にもbcrypt比較を行うためのダミーハッシュです。
	dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はauthユースケースが必要とするユーザー永続化操作です。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uint) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	UpdateBiometric(ctx context.Context, id uint, enabled bool) error
}

// TokenIssuer は用途付きトークンを発行します。
type TokenIssuer interface {
	Issue(id jwtmw.Identity, purpose jwtmw.Purpose, ttl time.Duration) (string, time.Time, error)
}

// TokenVerifier はトークンを期待する用途で検証します。
type TokenVerifier interface {
	Verify(token string, expected jwtmw.Purpose) (*jwtmw.Claims, error)
}

// DeviceRegistrar は登録時に送られたプッシュ通知用デバイストークンを保存します。
type DeviceRegistrar interface {
	Register(ctx context.Context, userID uint, token, platform string) error
}

// TokenTTLs は用途ごとのトークン有効期間です。
type TokenTTLs struct {
	Session   time.Duration
	Biometric time.Duration
}

// SignupInput は新規登録の入力です。Email と Password 以外は任意です。
type SignupInput struct {
	Email       string
	Password    string
	Username    string
	FullName    string
	PhoneNumber string
	Role        string
	PhotoURL    string
	FCMToken    string
	Platform    string
}

// AuthResult はログイン・登録成功時の結果です。
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// TokenResult は生体認証トークン発行の結果です。
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	issuer   TokenIssuer
	verifier TokenVerifier
	devices  DeviceRegistrar
	ttls     TokenTTLs
	now      func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// devices は nil でもよく、その場合は登録時のデバイストークンを無視します。
func NewAuthUsecase(users UserRepository, issuer TokenIssuer, verifier TokenVerifier, devices DeviceRegistrar, ttls TokenTTLs) *authUsecase {
	return &authUsecase{
		users:    users,
		issuer:   issuer,
		verifier: verifier,
		devices:  devices,
		ttls:     ttls,
		now:      time.Now,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup はハッシュ化されたパスワードで新規ユーザーを登録し、セッショントークンを返します。
func (u *authUsecase) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	if strings.Contains(username, "@") {
		return nil, ErrInvalidUsername
	}
	email := normalizeEmail(in.Email)
	if email == "" && username == "" {
		return nil, ErrMissingLoginKey
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.DefaultRole
	}
	user := &entity.User{
		Email:       email,
		Password:    string(hashed),
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		Role:        role,
		PhotoURL:    in.PhotoURL,
	}
	if username != "" {
		user.Username = &username
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if u.devices != nil && strings.TrimSpace(in.FCMToken) != "" {
		// デバイス登録の失敗で登録自体は失敗させない
		if err := u.devices.Register(ctx, user.ID, strings.TrimSpace(in.FCMToken), in.Platform); err != nil {
			slog.Warn("failed to register device on signup", "user_id", user.ID, "error", err)
		}
	}

	return u.issueSession(user)
}

// Login はユーザーを認証し、成功時にセッショントークンを返します。
// loginKey はメールアドレスまたはユーザー名です。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, loginKey, password string) (*AuthResult, error) {
	user, err := u.findByLoginKey(ctx, loginKey)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	passwordHash := dummyPasswordHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, ErrInvalidCredentials
	}

	u.touchLastLogin(ctx, user)
	return u.issueSession(user)
}

// Me は認証済みユーザーの情報を返します。
func (u *authUsecase) Me(ctx context.Context, userID uint) (*entity.User, error) {
	return u.users.FindByID(ctx, userID)
}

// UserExists は認証ミドルウェアからのユーザー再確認に使われます。
func (u *authUsecase) UserExists(ctx context.Context, userID uint) (bool, error) {
	return u.users.Exists(ctx, userID)
}

// SetBiometric は生体認証ログインの有効/無効を切り替え、更新後のユーザーを返します。
func (u *authUsecase) SetBiometric(ctx context.Context, userID uint, enabled bool) (*entity.User, error) {
	if err := u.users.UpdateBiometric(ctx, userID, enabled); err != nil {
		return nil, err
	}
	return u.users.FindByID(ctx, userID)
}

// IssueBiometricToken は端末保存用の長命な生体認証トークンを発行します。
// 生体認証が有効なユーザーにのみ発行します。
func (u *authUsecase) IssueBiometricToken(ctx context.Context, userID uint) (*TokenResult, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.BiometricEnabled {
		return nil, ErrBiometricDisabled
	}

	token, expiresAt, err := u.issuer.Issue(identityOf(user), jwtmw.PurposeBiometric, u.ttls.Biometric)
	if err != nil {
		return nil, fmt.Errorf("failed to issue biometric token: %w", err)
	}
	return &TokenResult{Token: token, ExpiresAt: expiresAt}, nil
}

// LoginWithBiometric は生体認証トークンを新しいセッショントークンと交換します。
func (u *authUsecase) LoginWithBiometric(ctx context.Context, biometricToken string) (*AuthResult, error) {
	claims, err := u.verifier.Verify(biometricToken, jwtmw.PurposeBiometric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBiometricToken, err)
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.BiometricEnabled {
		return nil, ErrBiometricDisabled
	}

	u.touchLastLogin(ctx, user)
	return u.issueSession(user)
}

func (u *authUsecase) findByLoginKey(ctx context.Context, loginKey string) (*entity.User, error) {
	key := strings.TrimSpace(loginKey)
	if key == "" {
		return nil, domain.ErrUserNotFound
	}
	if strings.Contains(key, "@") {
		return u.users.FindByEmail(ctx, normalizeEmail(key))
	}
	return u.users.FindByUsername(ctx, key)
}

func (u *authUsecase) touchLastLogin(ctx context.Context, user *entity.User) {
	now := u.now()
	if err := u.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
		return
	}
	user.LastLoginAt = &now
}

func (u *authUsecase) issueSession(user *entity.User) (*AuthResult, error) {
	token, expiresAt, err := u.issuer.Issue(identityOf(user), jwtmw.PurposeSession, u.ttls.Session)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func identityOf(user *entity.User) jwtmw.Identity {
	return jwtmw.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		Username: user.UsernameOrEmpty(),
	}
}
