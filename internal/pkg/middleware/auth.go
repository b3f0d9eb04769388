package middleware

import (
	"net/http"
	"strings"

	"github.com/cypher6783/gasOrder/pkg/response"
	"github.com/cypher6783/gasOrder/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware JWT认证中间件
// 身份签发在外部完成，这里只校验并把身份信息放入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("profileID", claims.ProfileID)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireRole 角色校验中间件
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, exists := c.Get("role")
		if !exists || got != role {
			response.Error(c, http.StatusForbidden, response.ErrNoPermission, "Insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ProfileID 从上下文取出当前请求的业务主体 ID
func ProfileID(c *gin.Context) string {
	val, _ := c.Get("profileID")
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
