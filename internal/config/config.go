// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the root configuration of the server process.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTP     HTTP
	DB       DB
	Redis    Redis
	JWT      JWT
	Cache    Cache
	Jobs     Jobs
	Ledger   Ledger
}

type HTTP struct {
	Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
	CORSEnabled bool   `env:"HTTP_CORS_ENABLED" envDefault:"false"`
	// AuthRateLimit は/loginと/signupへのIPごとの1分あたりの上限です。0で無効。
	AuthRateLimit int `env:"HTTP_AUTH_RATE_LIMIT" envDefault:"20"`
	// TrustedProxies はカンマ区切りのIP/CIDR。未設定ならX-Forwarded-Forは無視されます。
	TrustedProxies []string `env:"HTTP_TRUSTED_PROXIES" envSeparator:","`
}

// DB selects and configures the database. Driver is "postgres" or "sqlite".
type DB struct {
	Driver        string `env:"DB_DRIVER" envDefault:"sqlite"`
	Host          string `env:"DB_HOST" envDefault:"localhost"`
	Port          string `env:"DB_PORT" envDefault:"5432"`
	User          string `env:"DB_USER"`
	Password      string `env:"DB_PASSWORD"`
	Name          string `env:"DB_NAME" envDefault:"portfolio"`
	SSLMode       string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath    string `env:"DB_SQLITE_PATH" envDefault:"./portfolio.db"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
}

type Redis struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     string `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Addr returns the host:port redis listens on.
func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

type JWT struct {
	Secret      string        `env:"JWT_SECRET"`
	AccessTTL   time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL  time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	MaxSessions int           `env:"JWT_MAX_SESSIONS" envDefault:"5"`
}

type Cache struct {
	TransactionsTTL time.Duration `env:"CACHE_TRANSACTIONS_TTL" envDefault:"5m"`
}

type Jobs struct {
	SessionCleanupInterval time.Duration `env:"JOBS_SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

type Ledger struct {
	// DividendsReduceStockBudget makes Div transactions consume the per-stock budget.
	DividendsReduceStockBudget bool `env:"LEDGER_DIVIDENDS_REDUCE_STOCK_BUDGET" envDefault:"false"`
}

// Load parses the environment into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DB.Driver != "postgres" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	return cfg, nil
}

// MustLoad reads .env when present, then loads the configuration or exits.
func MustLoad() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	return cfg
}
