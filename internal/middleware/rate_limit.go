// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"chat-session-server/pkg/response"
)

// ParseRateLimit 解析 "次数/单位" 格式的限流配置
// 支持的单位: second / minute / hour
// 例如 "10/minute" 表示每分钟 10 次
// 参数:
//   - s: 限流配置字符串
//
// 返回:
//   - rate.Limit: 每秒允许的请求数
//   - int: 突发容量（即配置的次数）
//   - error: 格式错误
func ParseRateLimit(s string) (rate.Limit, int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "/", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid rate limit %q", s)
	}

	count, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || count <= 0 {
		return 0, 0, fmt.Errorf("invalid rate limit count %q", parts[0])
	}

	var window time.Duration
	switch strings.TrimSpace(parts[1]) {
	case "second":
		window = time.Second
	case "minute":
		window = time.Minute
	case "hour":
		window = time.Hour
	default:
		return 0, 0, fmt.Errorf("invalid rate limit unit %q", parts[1])
	}

	return rate.Limit(float64(count) / window.Seconds()), count, nil
}

// clientLimiter 单个客户端的限流器及其最近活跃时间
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter 按客户端 IP 限流
// 每个 IP 独立一个令牌桶，长时间不活跃的条目会被清理
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
}

// NewRateLimiter 创建 RateLimiter 实例
// 参数:
//   - limit: 每秒允许的请求数
//   - burst: 突发容量
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   limit,
		burst:   burst,
	}

	// 后台定期清理不活跃的客户端，避免 map 无限增长
	go rl.cleanupLoop()

	return rl
}

// Allow 判断指定客户端的请求是否放行
func (rl *RateLimiter) Allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = cl
	}
	cl.lastSeen = time.Now()

	return cl.limiter.Allow()
}

// cleanupLoop 每分钟清理一次超过 10 分钟不活跃的客户端
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-10 * time.Minute)

		rl.mu.Lock()
		for ip, cl := range rl.clients {
			if cl.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware 创建限流中间件
// 根据配置的 "次数/单位" 字符串按客户端 IP 限流
// 超出限制的请求返回 429
// 参数:
//   - rateLimit: 限流配置，如 "10/minute"
//
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
//   - error: 配置格式错误
func RateLimitMiddleware(rateLimit string) (gin.HandlerFunc, error) {
	limit, burst, err := ParseRateLimit(rateLimit)
	if err != nil {
		return nil, err
	}

	rl := NewRateLimiter(limit, burst)

	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}, nil
}
