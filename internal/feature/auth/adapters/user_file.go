package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"lab_backend/internal/feature/auth/domain"
	"lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/auth/domain/repository"
)

// userFile はユーザーをJSONファイルに保存するUserRepository実装です。
// データベースを用意しない小規模な環境向けです（USER_STORE=file）。
// すべての操作はミューテックスで直列化され、書き込みのたびにファイル全体を置き換えます。
type userFile struct {
	mu     sync.Mutex
	path   string
	users  []entity.User
	nextID uint
	now    func() time.Time
}

var _ repository.UserRepository = (*userFile)(nil)

// fileRecord はファイル上の1ユーザーの表現です。entity.Userはパスワードをjsonに出さないため別に定義します。
type fileRecord struct {
	entity.User
	PasswordHash string `json:"password_hash"`
}

// NewUserFile はpathのJSONファイルを読み込んでuserFileを生成します。ファイルが無い場合は空で開始します。
func NewUserFile(path string) (*userFile, error) {
	r := &userFile{path: path, now: time.Now}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	if len(b) == 0 {
		return r, nil
	}

	var records []fileRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}
	for _, rec := range records {
		u := rec.User
		u.Password = rec.PasswordHash
		r.users = append(r.users, u)
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r, nil
}

// Create はユーザーを追加してファイルへ保存します。
func (r *userFile) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if u.Email != "" && existing.Email == u.Email {
			return domain.ErrUserAlreadyExists
		}
		if u.Username != nil && existing.Username != nil && *existing.Username == *u.Username {
			return domain.ErrUserAlreadyExists
		}
	}

	now := r.now()
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = entity.DefaultRole
	}
	r.users = append(r.users, *u)
	if err := r.persist(); err != nil {
		r.users = r.users[:len(r.users)-1]
		r.nextID--
		return err
	}
	return nil
}

func (r *userFile) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *userFile) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *userFile) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username != nil && *u.Username == username })
}

func (r *userFile) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if match(&r.users[i]) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *userFile) List(ctx context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.User, len(r.users))
	copy(out, r.users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *userFile) Exists(ctx context.Context, id uint) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *userFile) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.update(id, func(u *entity.User) { u.LastLoginAt = &at })
}

func (r *userFile) UpdateBiometric(ctx context.Context, id uint, enabled bool) error {
	return r.update(id, func(u *entity.User) { u.BiometricEnabled = enabled })
}

func (r *userFile) UpdateProfile(ctx context.Context, id uint, update entity.ProfileUpdate) (*entity.User, error) {
	err := r.update(id, func(u *entity.User) {
		if update.FullName != nil {
			u.FullName = *update.FullName
		}
		if update.PhoneNumber != nil {
			u.PhoneNumber = *update.PhoneNumber
		}
		if update.PhotoURL != nil {
			u.PhotoURL = *update.PhotoURL
		}
	})
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// update はIDのユーザーにmutateを適用して保存します。保存に失敗した場合は変更を戻します。
func (r *userFile) update(id uint, mutate func(*entity.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		if r.users[i].ID != id {
			continue
		}
		before := r.users[i]
		mutate(&r.users[i])
		r.users[i].UpdatedAt = r.now()
		if err := r.persist(); err != nil {
			r.users[i] = before
			return err
		}
		return nil
	}
	return domain.ErrUserNotFound
}

// persist は一時ファイルに書き込んでからリネームし、途中状態のファイルが残らないようにします。
// 呼び出し側でミューテックスを保持している必要があります。
func (r *userFile) persist() error {
	records := make([]fileRecord, len(r.users))
	for i, u := range r.users {
		records[i] = fileRecord{User: u, PasswordHash: u.Password}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create users dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".users-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp users file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write users file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close users file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace users file: %w", err)
	}
	return nil
}
