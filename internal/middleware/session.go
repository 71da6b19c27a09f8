package middleware

import (
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/util"
	"resilience_assessment/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionContextKey = "session"

// sessionToken 依次读取 Authorization、X-Session-Token、会话 cookie
func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if h := c.GetHeader(util.SessionHeader); h != "" {
		return strings.TrimSpace(h)
	}
	if cookie, err := c.Cookie(util.SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionMiddleware 要求有效的评估会话令牌
func SessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			util.Error(c, 401, util.ErrSessionNotFound.Error())
			c.Abort()
			return
		}

		claims, err := util.ParseSessionToken(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("session token rejected", zap.Error(err))
			util.Error(c, 401, util.ErrInvalidToken.Error())
			c.Abort()
			return
		}

		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

// TrySessionMiddleware 令牌可选，无效时按无会话处理
func TrySessionMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := sessionToken(c); tokenString != "" {
			if claims, err := util.ParseSessionToken(tokenString, cfg.JWT.Secret); err == nil {
				c.Set(sessionContextKey, claims)
			}
		}
		c.Next()
	}
}
