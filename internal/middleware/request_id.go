// Package middleware 提供 HTTP 请求的中间件
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 响应中携带请求 ID 的头名称
const RequestIDHeader = "X-Request-ID"

// requestIDKey 请求 ID 在 gin 上下文中的键
const requestIDKey = "request_id"

// RequestIDMiddleware 创建请求 ID 中间件
// 为每个请求生成一个 UUID，写入响应头并存入上下文供日志使用
// 如果调用方已携带 X-Request-ID，则沿用调用方的值
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID 从上下文获取请求 ID 的辅助函数
// 参数:
//   - c: Gin 上下文
//
// 返回:
//   - string: 请求 ID，没有则返回空字符串
func GetRequestID(c *gin.Context) string {
	requestID, exists := c.Get(requestIDKey)
	if !exists {
		return ""
	}
	return requestID.(string)
}
