// Package middleware 提供 HTTP 请求的中间件
// 包括 API Key 认证、CORS 跨域、限流、日志记录等
package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"chat-session-server/pkg/response"
)

// APIKeyHeader 携带 API Key 的请求头名称
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware 创建 API Key 认证中间件
// 校验请求头中的 X-API-Key 是否与配置的密钥一致
// 所有业务接口都经过此校验，不一致的请求在进入 Handler 前被拒绝
// 参数:
//   - apiKey: 配置的静态密钥
//
// 返回:
//   - gin.HandlerFunc: Gin 中间件函数
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从请求头获取密钥，缺失视同不匹配
		provided := c.GetHeader(APIKeyHeader)

		// 使用常数时间比较，避免通过响应时间推测密钥
		if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.Unauthorized(c, "无效的 API Key")
			c.Abort()
			return
		}

		c.Next()
	}
}
