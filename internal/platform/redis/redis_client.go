// Package redis connects the optional Redis instance used for sessions and caching.
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio_ledger/internal/config"
)

// pingTimeout は起動時の接続確認に許す時間です。
const pingTimeout = 5 * time.Second

// NewRedisClient は設定からクライアントを生成し、PINGで接続を確認します。
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	// 接続確認
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr(), "db", cfg.DB)
	return rdb, nil
}
