// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/feature/transactions/usecase"
)

// CachingTransactionRepository decorates a TransactionRepository with Redis
// caching of List results. Every write drops all cached lists of its owner,
// so a read after a write never sees stale data.
type CachingTransactionRepository struct {
	inner     usecase.TransactionRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TransactionRepository = (*CachingTransactionRepository)(nil)

// NewCachingTransactionRepository wraps inner. A nil rdb disables caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "txns".
func NewCachingTransactionRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TransactionRepository, namespace string) *CachingTransactionRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "txns"
	}
	return &CachingTransactionRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingTransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	if err := c.inner.Create(ctx, t); err != nil {
		return err
	}
	c.invalidateQuietly(ctx, t.OwnerID)
	return nil
}

func (c *CachingTransactionRepository) FindByID(ctx context.Context, ownerID uint, id string) (*entity.Transaction, error) {
	return c.inner.FindByID(ctx, ownerID, id)
}

// List checks the cache first, then falls back to the inner repository.
func (c *CachingTransactionRepository) List(ctx context.Context, ownerID uint, f usecase.Filter) ([]entity.Transaction, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, ownerID, f)
	}

	key := c.cacheKey(ownerID, f)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Transaction
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.List(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingTransactionRepository) Update(ctx context.Context, t *entity.Transaction) error {
	if err := c.inner.Update(ctx, t); err != nil {
		return err
	}
	c.invalidateQuietly(ctx, t.OwnerID)
	return nil
}

func (c *CachingTransactionRepository) Delete(ctx context.Context, ownerID uint, id string) error {
	if err := c.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	c.invalidateQuietly(ctx, ownerID)
	return nil
}

// Invalidate drops every cached listing of the owner.
func (c *CachingTransactionRepository) Invalidate(ctx context.Context, ownerID uint) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.ownerPrefix(ownerID)+"*")
}

func (c *CachingTransactionRepository) invalidateQuietly(ctx context.Context, ownerID uint) {
	if err := c.Invalidate(ctx, ownerID); err != nil {
		slog.Warn("transaction cache invalidation failed", "owner_id", ownerID, "error", err)
	}
}

// cacheKey generates a cache key for a specific listing.
func (c *CachingTransactionRepository) cacheKey(ownerID uint, f usecase.Filter) string {
	return fmt.Sprintf("%s%s:%s:%s:%s",
		c.ownerPrefix(ownerID),
		orAll(safe(f.StockID)),
		orAll(string(f.Action)),
		dateOrAll(f.From),
		dateOrAll(f.To),
	)
}

func (c *CachingTransactionRepository) ownerPrefix(ownerID uint) string {
	return fmt.Sprintf("%s:owner:%d:", c.namespace, ownerID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTransactionRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

func orAll(s string) string {
	if s == "" {
		return "all"
	}
	return s
}

func dateOrAll(t *time.Time) string {
	if t == nil {
		return "all"
	}
	return t.Format(entity.DateLayout)
}

// safe escapes characters that are problematic for Redis keys and glob patterns.
func safe(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_").Replace(s)
}
