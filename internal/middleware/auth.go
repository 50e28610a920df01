package middleware

import (
	"skillxchange_backend/internal/config"
	"skillxchange_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}

// StreakRecorder 任意认证请求都视为一次活跃，用于连续登录统计
type StreakRecorder interface {
	RecordActivity(userID uint)
}

func ActivityMiddleware(recorder StreakRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims != nil {
			// 异步记录，不阻塞主流程
			go recorder.RecordActivity(claims.UserID)
		}
		c.Next()
	}
}
