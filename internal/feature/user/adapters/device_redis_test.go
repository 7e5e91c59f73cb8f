package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis はテスト用のminiredisインスタンスとクライアントを生成します。
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewDeviceRedis_DefaultPrefix(t *testing.T) {
	client, _ := setupTestRedis(t)

	repo := NewDeviceRedis(client, "", 0)

	assert.Equal(t, "devices:user:5", repo.userDevicesKey(5))
}

func TestDeviceRedis_Register(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	repo := NewDeviceRedis(client, "devices", 30*24*time.Hour)

	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return first }
	require.NoError(t, repo.Register(ctx, 1, "tok-a", "android"))

	second := first.Add(time.Hour)
	repo.now = func() time.Time { return second }
	require.NoError(t, repo.Register(ctx, 1, "tok-a", "ios"))

	assert.True(t, mr.Exists("devices:user:1"))
	assert.Equal(t, 30*24*time.Hour, mr.TTL("devices:user:1"))

	devices, err := repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "ios", devices[0].Platform)
	assert.True(t, first.Equal(devices[0].CreatedAt), "created_at must survive re-registration")
	assert.True(t, second.Equal(devices[0].LastUsedAt))
}

func TestDeviceRedis_ListTokensOrderAndCorruption(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	repo := NewDeviceRedis(client, "devices", 0)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, tok := range []string{"old", "new"} {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		require.NoError(t, repo.Register(ctx, 2, tok, "web"))
	}
	mr.HSet("devices:user:2", "broken", "{not json")

	tokens, err := repo.ListTokens(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, tokens)
	assert.Equal(t, "", mr.HGet("devices:user:2", "broken"), "corrupted entries are dropped")

	require.NoError(t, repo.Remove(ctx, 2, "new"))
	tokens, err = repo.ListTokens(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, tokens)
}

func TestDeviceRedis_Unavailable(t *testing.T) {
	client, mr := setupTestRedis(t)
	repo := NewDeviceRedis(client, "devices", 0)
	mr.Close()

	assert.Error(t, repo.Register(context.Background(), 1, "t", "android"))
	_, err := repo.ListTokens(context.Background(), 1)
	assert.Error(t, err)
}

func TestDeviceRedis_Register_LookupErrors(t *testing.T) {
	ctx := context.Background()
	client, mr := setupTestRedis(t)
	repo := NewDeviceRedis(client, "devices", 0)

	// 未登録のトークン(redis.Nil)は新規登録として扱う
	require.NoError(t, repo.Register(ctx, 3, "fresh", "android"))

	// ハッシュ以外の値が入っている場合はHGETのエラーをそのまま返す
	require.NoError(t, mr.Set("devices:user:4", "not a hash"))
	err := repo.Register(ctx, 4, "tok", "android")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WRONGTYPE")
}
