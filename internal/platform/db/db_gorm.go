// Package db opens the gorm connection used by every adapter.
package db

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_ledger/internal/config"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// connectTimeout はDB接続を諦めるまでの時間です。
const connectTimeout = 60 * time.Second

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// BuildDSN はPostgreSQL接続用のDSN文字列を生成します。
func BuildDSN(cfg config.DB) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// gormConfig はgorm.ErrDuplicatedKeyなどへのエラー変換を有効にします。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// PostgresOpener はpgxでDSNを解釈し、PostgreSQLドライバーでDBを開きます。
// 不正なDSNはリトライせずに済むよう接続前にエラーになります。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	pgCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	sqlDB := stdlib.OpenDB(*pgCfg)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig())
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// SQLiteOpener はSQLiteドライバーでDBを開きます。ローカル開発とテスト用です。
func SQLiteOpener(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(path), gormConfig())
}

// ConnectWithRetry はtimeoutに達するまでretryInterval間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// Open は設定に応じたドライバーでDBへ接続し、必要ならマイグレーションを実行します。
func Open(cfg config.DB, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "postgres":
		db, err = ConnectWithRetry(BuildDSN(cfg), connectTimeout, PostgresOpener)
	default:
		db, err = SQLiteOpener(cfg.SQLitePath)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}
	slog.Info("database ready", "driver", cfg.Driver)
	return db, nil
}
