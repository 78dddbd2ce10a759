// Package middleware 提供 gin 中间件：会话认证和 HTTPS 重定向
package middleware

import (
	"context"
	"net/http"
	"strings"

	"gatormmunity/internal/model"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator 由会话令牌解析出登录用户
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.SessionSnapshot, string, error)
}

// SessionAuth 会话认证中间件
// 令牌优先从 Cookie 读取，其次是 Authorization: Bearer
func SessionAuth(auth Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c, cookieName)
		if token == "" {
			abortUnauthorized(c, errorx.ErrUnauthorized.Msg)
			return
		}

		snapshot, sessionId, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errorx.GetCode(err) != errorx.CodeUnauthorized {
				zap.L().Error("authenticate session failed", zap.Error(err))
			}
			abortUnauthorized(c, "session expired, please log in again")
			return
		}

		c.Set(constants.CONTEXT_USER_ID, snapshot.UserUuid)
		c.Set(constants.CONTEXT_SESSION_ID, sessionId)
		c.Set(constants.CONTEXT_SESSION, snapshot)
		c.Next()
	}
}

// TokenFromRequest 读取请求携带的会话令牌，没有时返回空串
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if token, err := c.Cookie(cookieName); err == nil && token != "" {
		return token
	}
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if ok && scheme == "Bearer" {
		return strings.TrimSpace(token)
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"code":    errorx.CodeUnauthorized,
		"message": msg,
	})
}
