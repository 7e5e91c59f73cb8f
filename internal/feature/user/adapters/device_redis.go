package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"lab_backend/internal/feature/user/domain/entity"
	"lab_backend/internal/feature/user/usecase"
)

// DeviceRedis はDeviceRepositoryをRedisで実装します。
// ユーザーごとに1つのハッシュ（field=トークン、value=JSON）を持ちます。
type DeviceRedis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ usecase.DeviceRepository = (*DeviceRedis)(nil)

// deviceRecord はハッシュ値として保存する内容です。
type deviceRecord struct {
	Platform   string    `json:"platform"`
	LastUsedAt time.Time `json:"last_used_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewDeviceRedis は新しいDeviceRedisを生成します。
// ttl > 0 の場合、最後の登録からttl経過したユーザーのデバイス一覧は自動的に消えます。
func NewDeviceRedis(client *redis.Client, prefix string, ttl time.Duration) *DeviceRedis {
	if prefix == "" {
		prefix = "devices"
	}
	return &DeviceRedis{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

// userDevicesKey はユーザーのデバイスハッシュのキーを返します。
func (r *DeviceRedis) userDevicesKey(userID uint) string {
	return fmt.Sprintf("%s:user:%d", r.prefix, userID)
}

// Register はトークンを登録します。既存トークンは作成日時を保ったまま更新します。
func (r *DeviceRedis) Register(ctx context.Context, userID uint, token, platform string) error {
	if platform == "" {
		platform = entity.DefaultPlatform
	}
	key := r.userDevicesKey(userID)
	now := r.now()

	rec := deviceRecord{Platform: platform, LastUsedAt: now, CreatedAt: now}
	if existing, err := r.client.HGet(ctx, key, token).Bytes(); err == nil {
		var prev deviceRecord
		if json.Unmarshal(existing, &prev) == nil && !prev.CreatedAt.IsZero() {
			rec.CreatedAt = prev.CreatedAt
		}
	} else if !errors.Is(err, redis.Nil) {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal device: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, token, data)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// ListTokens はユーザーのトークンを最近使われた順に返します。
func (r *DeviceRedis) ListTokens(ctx context.Context, userID uint) ([]string, error) {
	devices, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	tokens := make([]string, len(devices))
	for i, d := range devices {
		tokens[i] = d.Token
	}
	return tokens, nil
}

// List はユーザーのデバイスを最近使われた順に返します。壊れたエントリは削除して読み飛ばします。
func (r *DeviceRedis) List(ctx context.Context, userID uint) ([]entity.DeviceToken, error) {
	key := r.userDevicesKey(userID)
	all, err := r.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	devices := make([]entity.DeviceToken, 0, len(all))
	for token, raw := range all {
		var rec deviceRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			r.client.HDel(ctx, key, token)
			continue
		}
		devices = append(devices, entity.DeviceToken{
			UserID:     userID,
			Token:      token,
			Platform:   rec.Platform,
			LastUsedAt: rec.LastUsedAt,
			CreatedAt:  rec.CreatedAt,
			UpdatedAt:  rec.LastUsedAt,
		})
	}
	sort.Slice(devices, func(i, j int) bool {
		if devices[i].LastUsedAt.Equal(devices[j].LastUsedAt) {
			return devices[i].Token < devices[j].Token
		}
		return devices[i].LastUsedAt.After(devices[j].LastUsedAt)
	})
	return devices, nil
}

// Remove はトークンを削除します。
func (r *DeviceRedis) Remove(ctx context.Context, userID uint, token string) error {
	return r.client.HDel(ctx, r.userDevicesKey(userID), token).Err()
}
