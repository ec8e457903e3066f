// Package router はHTTPルーティングを組み立てます。
package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "portfolio_ledger/internal/feature/auth/transport/handler"
	goalshandler "portfolio_ledger/internal/feature/goals/transport/handler"
	stockshandler "portfolio_ledger/internal/feature/stocks/transport/handler"
	summaryhandler "portfolio_ledger/internal/feature/summary/transport/handler"
	txhandler "portfolio_ledger/internal/feature/transactions/transport/handler"
	platformhandler "portfolio_ledger/internal/platform/http/handler"
	jwtmw "portfolio_ledger/internal/platform/jwt"
	"portfolio_ledger/internal/shared/ratelimiter"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health       *platformhandler.HealthHandler
	Auth         *authhandler.AuthHandler
	Stocks       *stockshandler.StockHandler
	Transactions *txhandler.TransactionHandler
	Goals        *goalshandler.GoalsHandler
	Summary      *summaryhandler.SummaryHandler
}

// Options はルーターの挙動を切り替えます。
type Options struct {
	JWTSecret   string
	CORSEnabled bool
	// AuthRateLimit は/signupと/loginのIPごとの1分あたりの上限です。0以下で無効。
	AuthRateLimit int
	// TrustedProxies はX-Forwarded-Forを信頼するプロキシのIP/CIDRです。空なら接続元IPのみを使います。
	TrustedProxies []string
}

func NewRouter(h Handlers, opts Options) (*gin.Engine, error) {
	r := gin.Default()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	if opts.CORSEnabled {
		cfg := cors.DefaultConfig()
		cfg.AllowAllOrigins = true
		cfg.AddAllowHeaders("Authorization")
		cfg.AddExposeHeaders("Content-Disposition")
		r.Use(cors.New(cfg))
	}

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)

	credentials := r.Group("/")
	if opts.AuthRateLimit > 0 {
		credentials.Use(ratelimiter.NewRateLimiter(opts.AuthRateLimit, time.Minute).Middleware())
	}
	// 新規ユーザー登録
	credentials.POST("/signup", h.Auth.Signup)
	// ログイン（JWT 発行）
	credentials.POST("/login", h.Auth.Login)
	r.POST("/refresh", h.Auth.Refresh)
	r.POST("/logout", h.Auth.Logout)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/me", h.Auth.Me)

		auth.GET("/stocks", h.Stocks.List)
		auth.POST("/stocks", h.Stocks.Create)
		auth.GET("/stocks/:id", h.Stocks.Get)
		auth.PUT("/stocks/:id", h.Stocks.Update)
		auth.DELETE("/stocks/:id", h.Stocks.Delete)
		auth.GET("/stocks/:id/summary", h.Summary.Stock)

		auth.GET("/stocks/:id/transactions", h.Transactions.ListByStock)
		auth.POST("/stocks/:id/transactions", h.Transactions.Create)
		auth.GET("/stocks/:id/transactions/export", h.Transactions.Export)
		auth.GET("/transactions", h.Transactions.ListAll)
		auth.GET("/transactions/:txnId", h.Transactions.Get)
		auth.PUT("/transactions/:txnId", h.Transactions.Update)
		auth.DELETE("/transactions/:txnId", h.Transactions.Delete)

		auth.GET("/summary", h.Summary.Account)
		auth.GET("/goals", h.Goals.Get)
		auth.PUT("/goals", h.Goals.Put)
	}

	return r, nil
}
