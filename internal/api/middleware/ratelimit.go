package middleware

import (
	"net/http"

	"studycycle/internal/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimit 按客户端 IP 做令牌桶限流，桶空时返回 429。
//
// 只挂在认证接口上，用于减缓撞库和暴力破解。
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Allow(c.Request.Context(), c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
