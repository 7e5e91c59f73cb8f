// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	articleadapters "lab_backend/internal/feature/article/adapters"
	articleentity "lab_backend/internal/feature/article/domain/entity"
	articleusecase "lab_backend/internal/feature/article/usecase"
	authadapters "lab_backend/internal/feature/auth/adapters"
	authentity "lab_backend/internal/feature/auth/domain/entity"
	"lab_backend/internal/feature/auth/domain/repository"
	messageentity "lab_backend/internal/feature/message/domain/entity"
	useradapters "lab_backend/internal/feature/user/adapters"
	userentity "lab_backend/internal/feature/user/domain/entity"
	userusecase "lab_backend/internal/feature/user/usecase"
	"lab_backend/internal/platform/cache"
	"lab_backend/internal/platform/config"
	"lab_backend/internal/platform/push"
	"lab_backend/internal/platform/upload"
	"lab_backend/internal/shared/ratelimiter"
)

// Models lists every table the server owns, in migration order.
func Models() []any {
	return []any{
		&authentity.User{},
		&userentity.DeviceToken{},
		&articleentity.Article{},
		&articleentity.Favorite{},
		&messageentity.Message{},
		&messageentity.NotificationLog{},
	}
}

// NewUserRepository returns the user store selected by USER_STORE.
func NewUserRepository(cfg config.UserStoreConfig, db *gorm.DB) (repository.UserRepository, error) {
	switch cfg.Store {
	case "file":
		slog.Info("using JSON file user store", "path", cfg.File)
		store, err := authadapters.NewUserFile(cfg.File)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "db", "":
		return authadapters.NewUserGorm(db), nil
	default:
		return nil, fmt.Errorf("unsupported user store %q", cfg.Store)
	}
}

// NewDeviceRepository creates a DeviceRepository implementation.
// If Redis is available, it returns a Redis-backed implementation.
// Otherwise, it falls back to the SQL database.
func NewDeviceRepository(rdb *redis.Client, db *gorm.DB) userusecase.DeviceRepository {
	if rdb != nil {
		return useradapters.NewDeviceRedis(rdb, "devices", 0)
	}
	return useradapters.NewDeviceGorm(db)
}

// NewArticleRepository wraps the gorm article store with the Redis cache.
// A nil rdb yields a pass-through decorator.
func NewArticleRepository(rdb *redis.Client, db *gorm.DB, ttl time.Duration) articleusecase.ArticleRepository {
	return cache.NewCachingArticleRepository(rdb, ttl, articleadapters.NewArticleGorm(db), "articles")
}

// NewUploader builds the image uploader and, for the local backend, the directory to serve at /uploads.
func NewUploader(ctx context.Context, cfg config.UploadConfig) (*upload.Uploader, string, error) {
	switch cfg.Backend {
	case "minio":
		store, err := upload.NewMinioStore(ctx, cfg)
		if err != nil {
			return nil, "", err
		}
		return upload.NewUploader(store, cfg.MaxBytes), "", nil
	case "local", "":
		store, err := upload.NewLocalStore(cfg.Dir, "/uploads")
		if err != nil {
			return nil, "", err
		}
		return upload.NewUploader(store, cfg.MaxBytes), store.Dir(), nil
	default:
		return nil, "", fmt.Errorf("unsupported upload backend %q", cfg.Backend)
	}
}

// NewNotifier builds the push provider selected by PUSH_PROVIDER behind a paced dispatcher.
func NewNotifier(ctx context.Context, cfg config.PushConfig) (*push.Dispatcher, error) {
	var provider push.Provider
	switch cfg.Provider {
	case "fcm":
		p, err := push.NewFCMProvider(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, err
		}
		provider = p
	case "log", "":
		provider = push.LogProvider{}
	default:
		return nil, fmt.Errorf("unsupported push provider %q", cfg.Provider)
	}

	var limiter ratelimiter.RateLimiterInterface
	if cfg.RateLimit > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.RateLimit, time.Minute)
	}
	return push.NewDispatcher(provider, limiter), nil
}
