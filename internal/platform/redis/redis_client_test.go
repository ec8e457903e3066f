package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_ledger/internal/config"
)

func splitAddr(t *testing.T, mr *miniredis.Miniredis) config.Redis {
	t.Helper()
	return config.Redis{Enabled: true, Host: mr.Host(), Port: mr.Port()}
}

func TestNewRedisClient(t *testing.T) {
	t.Run("connects to a live server", func(t *testing.T) {
		mr := miniredis.RunT(t)

		rdb, err := NewRedisClient(context.Background(), splitAddr(t, mr))
		require.NoError(t, err)
		t.Cleanup(func() { _ = rdb.Close() })

		require.NoError(t, rdb.Set(context.Background(), "k", "v", 0).Err())
		mr.CheckGet(t, "k", "v")
	})

	t.Run("fails when the server is gone", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := splitAddr(t, mr)
		mr.Close()

		rdb, err := NewRedisClient(context.Background(), cfg)
		assert.Error(t, err)
		assert.Nil(t, rdb)
	})
}
