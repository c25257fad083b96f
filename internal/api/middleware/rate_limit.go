package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	pkgerrors "recruit-hub/backend/pkg/errors"
	"recruit-hub/backend/pkg/response"
)

// RateChecker 记录一次请求并判断 key 在窗口内是否仍未超限
// Redis 客户端（多实例共享计数）与 LocalLimiter（单实例）均实现该接口
type RateChecker interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit 按客户端 IP 限流的中间件
// scope 区分不同路由组的计数；checker 为 nil 或出错时降级放行
func RateLimit(checker RateChecker, scope string, limit int, window time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil || limit <= 0 {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, err := checker.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.Warn("限流检查失败，降级放行", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !allowed {
			_ = c.Error(pkgerrors.ErrRateLimited)
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}

// ── 进程内令牌桶 ──

// LocalLimiter 基于 x/time/rate 的进程内限流器，未启用 Redis 时使用
// 每个 key 一个令牌桶：容量 limit，每 window/limit 补充一个令牌
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	now      func() time.Time
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localIdleTTL 超过该时长未访问的 key 在下次写入时被清理
const localIdleTTL = 10 * time.Minute

// NewLocalLimiter 创建进程内限流器
func NewLocalLimiter() *LocalLimiter {
	return &LocalLimiter{limiters: make(map[string]*localEntry), now: time.Now}
}

// CheckRateLimit 实现 RateChecker
func (l *LocalLimiter) CheckRateLimit(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.limiters[key]
	if !ok {
		l.sweep(now)
		e = &localEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.limiters[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1), nil
}

func (l *LocalLimiter) sweep(now time.Time) {
	for k, e := range l.limiters {
		if now.Sub(e.lastSeen) > localIdleTTL {
			delete(l.limiters, k)
		}
	}
}
