package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_ledger/internal/app/di"
	"portfolio_ledger/internal/app/router"
	"portfolio_ledger/internal/config"
	authadapters "portfolio_ledger/internal/feature/auth/adapters"
	authhandler "portfolio_ledger/internal/feature/auth/transport/handler"
	authusecase "portfolio_ledger/internal/feature/auth/usecase"
	goalsadapters "portfolio_ledger/internal/feature/goals/adapters"
	goalshandler "portfolio_ledger/internal/feature/goals/transport/handler"
	goalsusecase "portfolio_ledger/internal/feature/goals/usecase"
	stocksadapters "portfolio_ledger/internal/feature/stocks/adapters"
	stockshandler "portfolio_ledger/internal/feature/stocks/transport/handler"
	stocksusecase "portfolio_ledger/internal/feature/stocks/usecase"
	summaryhandler "portfolio_ledger/internal/feature/summary/transport/handler"
	summaryusecase "portfolio_ledger/internal/feature/summary/usecase"
	txadapters "portfolio_ledger/internal/feature/transactions/adapters"
	txhandler "portfolio_ledger/internal/feature/transactions/transport/handler"
	txusecase "portfolio_ledger/internal/feature/transactions/usecase"
	"portfolio_ledger/internal/ledger"
	"portfolio_ledger/internal/platform/cache"
	"portfolio_ledger/internal/platform/db"
	platformhandler "portfolio_ledger/internal/platform/http/handler"
	jwtmw "portfolio_ledger/internal/platform/jwt"
	infraredis "portfolio_ledger/internal/platform/redis"
	"portfolio_ledger/internal/platform/report"
	"portfolio_ledger/internal/platform/scheduler"
)

func main() {
	cfg := config.MustLoad()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// JWT_SECRETチェック
	if cfg.JWT.Secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// db
	gdb, err := db.Open(cfg.DB, di.Models()...)
	if err != nil {
		log.Fatalf("database error: %v", err)
	}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Enabled {
		if tmp, err := infraredis.NewRedisClient(ctx, cfg.Redis); err != nil {
			slog.Warn("Redis unavailable. Running without cache; sessions fall back to the database.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	userRepo := authadapters.NewUserGorm(gdb)
	sessionRepo := di.NewSessionRepository(rdb, gdb)
	stockRepo := stocksadapters.NewStockGorm(gdb)
	goalsRepo := goalsadapters.NewGoalsGorm(gdb)

	// Redisキャッシュでラップ（rdbがnilなら素通し）
	txnRepo := cache.NewCachingTransactionRepository(rdb, cfg.Cache.TransactionsTTL, txadapters.NewTransactionGorm(gdb), "txns")

	budgetOpts := ledger.BudgetOptions{IncludeDividends: cfg.Ledger.DividendsReduceStockBudget}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.AccessTTL),
		authusecase.Options{RefreshTTL: cfg.JWT.RefreshTTL, MaxSessions: cfg.JWT.MaxSessions})
	stockUC := stocksusecase.NewStockUsecase(stockRepo, txnRepo)
	txnUC := txusecase.NewTransactionUsecase(txnRepo, stockRepo)
	goalsUC := goalsusecase.NewGoalsUsecase(goalsRepo)
	summaryUC := summaryusecase.NewSummaryUsecase(stockRepo, txnRepo, goalsRepo, budgetOpts)

	// Handler
	handlers := router.Handlers{
		Health:       platformhandler.NewHealthHandler(di.NewHealthChecks(gdb, rdb)),
		Auth:         authhandler.NewAuthHandler(authUC),
		Stocks:       stockshandler.NewStockHandler(stockUC),
		Transactions: txhandler.NewTransactionHandler(txnUC, report.NewLedgerXLSX(), budgetOpts),
		Goals:        goalshandler.NewGoalsHandler(goalsUC),
		Summary:      summaryhandler.NewSummaryHandler(summaryUC),
	}

	// 定期ジョブ
	jobs, err := scheduler.New()
	if err != nil {
		log.Fatal(err)
	}
	err = jobs.NewIntervalJob("session-cleanup", func(ctx context.Context) error {
		n, err := authUC.CleanupSessions(ctx)
		if err != nil {
			return err
		}
		slog.Info("expired sessions removed", "count", n)
		return nil
	}, cfg.Jobs.SessionCleanupInterval, false)
	if err != nil {
		log.Fatal(err)
	}
	jobs.Start()
	defer func() {
		if err := jobs.Stop(); err != nil {
			slog.Error("scheduler shutdown failed", "error", err)
		}
	}()

	// ルータ生成
	r, err := router.NewRouter(handlers, router.Options{
		JWTSecret:      cfg.JWT.Secret,
		CORSEnabled:    cfg.HTTP.CORSEnabled,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
