// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"chat-session-server/pkg/response"
)

// LoggerMiddleware 创建请求日志中间件
// 记录每个请求的方法、路径、状态码、耗时和请求 ID
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		// 处理请求
		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		requestID := GetRequestID(c)

		logLine := statusTag(statusCode) + " | " +
			latency.Truncate(time.Microsecond).String() + " | " +
			clientIP + " | " +
			method + " " + path

		if requestID != "" {
			logLine += " | " + requestID
		}

		// 根据状态码选择日志级别
		switch {
		case statusCode >= 500:
			log.Printf("[ERROR] %s", logLine)
		case statusCode >= 400:
			log.Printf("[WARN] %s", logLine)
		default:
			log.Printf("[INFO] %s", logLine)
		}
	}
}

// statusTag 根据状态码返回日志标记
func statusTag(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "[" + http.StatusText(code) + " " + itoa(code) + "]"
	case code >= 400 && code < 500:
		return "[CLIENT_ERR " + itoa(code) + "]"
	case code >= 500:
		return "[SERVER_ERR " + itoa(code) + "]"
	default:
		return "[" + itoa(code) + "]"
	}
}

// itoa 将整数转换为字符串（简单实现）
func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	result := ""
	for n > 0 {
		result = string(rune('0'+n%10)) + result
		n /= 10
	}
	return result
}

// RecoveryMiddleware 创建 panic 恢复中间件
// 捕获处理器中的 panic，防止程序崩溃
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// 只在服务端记录 panic 详情，不返回给调用方
				log.Printf("[PANIC] %v", err)
				response.InternalError(c, "服务器内部错误")
				c.Abort()
			}
		}()

		c.Next()
	}
}
