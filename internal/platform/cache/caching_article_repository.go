// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"lab_backend/internal/feature/article/domain/entity"
	"lab_backend/internal/feature/article/usecase"
)

// CachingArticleRepository decorates an ArticleRepository with Redis caching.
// Reads go through the cache; writes go to the inner repository and then invalidate.
type CachingArticleRepository struct {
	inner     usecase.ArticleRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.ArticleRepository = (*CachingArticleRepository)(nil)

// NewCachingArticleRepository decorates an ArticleRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "articles".
// A nil rdb bypasses the cache entirely.
func NewCachingArticleRepository(rdb *redis.Client, ttl time.Duration, inner usecase.ArticleRepository, namespace string) *CachingArticleRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "articles"
	}
	return &CachingArticleRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns all articles, from cache when available.
func (c *CachingArticleRepository) List(ctx context.Context) ([]entity.Article, error) {
	if c.rdb == nil {
		return c.inner.List(ctx)
	}

	key := c.listKey()
	var out []entity.Article
	if c.load(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// FindByID returns one article, from cache when available. Misses are not cached.
func (c *CachingArticleRepository) FindByID(ctx context.Context, id uint) (*entity.Article, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.idKey(id)
	var cached entity.Article
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out)
	return out, nil
}

// Create inserts the article and invalidates the list entry.
func (c *CachingArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	if err := c.inner.Create(ctx, article); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey())
	return nil
}

// Delete removes the article and invalidates both the list and the article entry.
func (c *CachingArticleRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey(), c.idKey(id))
	return nil
}

// load reads key into dst. Redis errors and corrupted entries count as misses.
func (c *CachingArticleRepository) load(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key (best effort).
func (c *CachingArticleRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func (c *CachingArticleRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("article cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *CachingArticleRepository) listKey() string {
	return c.namespace + ":list"
}

func (c *CachingArticleRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}
