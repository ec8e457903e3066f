package di

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authadapters "portfolio_ledger/internal/feature/auth/adapters"
	"portfolio_ledger/internal/platform/session"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewSessionRepository(t *testing.T) {
	db := setupTestDB(t)

	assert.IsType(t, authadapters.NewSessionGorm(db), NewSessionRepository(nil, db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	assert.IsType(t, &session.SessionRedis{}, NewSessionRepository(rdb, db))
}

func TestNewHealthChecks(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	checks := NewHealthChecks(db, nil)
	require.Len(t, checks, 1)
	assert.NoError(t, checks["db"](ctx))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	checks = NewHealthChecks(db, rdb)
	require.Len(t, checks, 2)
	assert.NoError(t, checks["redis"](ctx))

	mr.Close()
	assert.Error(t, checks["redis"](ctx))
}

func TestModels_Migrate(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.AutoMigrate(Models()...))

	for _, table := range []string{"users", "sessions", "portfolio_stocks", "transactions", "portfolio_goals"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
