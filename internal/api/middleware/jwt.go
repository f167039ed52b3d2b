package middleware

import (
	"net/http"
	"strings"

	"studycycle/internal/api/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware 校验 Bearer 访问令牌并将 userID 写入上下文。
//
// 刷新令牌在这里会被拒绝，只有 typ 为 access 的令牌可以通过。
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization"})
			c.Abort()
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			c.Abort()
			return
		}

		userID, err := auth.VerifyToken(parts[1], jwtSecret, auth.TokenTypeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
