// Package ratelimiter はクライアントごとの固定ウィンドウ方式のレート制限を提供します。
package ratelimiter

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// pruneThreshold を超えたら期限切れのウィンドウを掃除する
const pruneThreshold = 1024

type window struct {
	count     int
	lastReset time.Time
}

// RateLimiter はキーごとに interval あたり limit 回までの呼び出しを許可します。
type RateLimiter struct {
	limit    int
	interval time.Duration

	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		windows:  make(map[string]*window),
		now:      time.Now,
	}
}

// Allow はkeyの呼び出しを1回数え、上限内ならtrueを返します。
// 上限超過時は次のリセットまでの待ち時間を返します。
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.windows) > pruneThreshold {
		rl.prune(now)
	}

	w, ok := rl.windows[key]
	// interval を過ぎたらカウントリセット
	if !ok || now.Sub(w.lastReset) >= rl.interval {
		w = &window{lastReset: now}
		rl.windows[key] = w
	}

	w.count++
	if w.count > rl.limit {
		return false, rl.interval - now.Sub(w.lastReset)
	}
	return true, 0
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.lastReset) >= rl.interval {
			delete(rl.windows, key)
		}
	}
}

// Middleware はクライアントIPごとに制限し、超過時は429とRetry-Afterを返します。
// クライアントIPはエンジンの信頼済みプロキシ設定に従って決まります。
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}
		slog.Warn("rate limit exceeded", "path", c.FullPath(), "limit", rl.limit, "remote_addr", c.ClientIP())
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
}
