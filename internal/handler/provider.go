// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"gatormmunity/internal/service"
	"gatormmunity/internal/service/chat"
	"gatormmunity/pkg/constants"

	"github.com/gin-gonic/gin"
)

// CookieOptions 会话 Cookie 设置
type CookieOptions struct {
	Name   string
	Secure bool
}

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Moderation *ModerationHandler
	Listing    *ListingHandler
	Forum      *ForumHandler
	Group      *GroupHandler
	Message    *MessageHandler
	Ws         *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(svc *service.Services, gateway *chat.Gateway, cookie CookieOptions) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth, svc.User, cookie),
		User:       NewUserHandler(svc.User),
		Moderation: NewModerationHandler(svc.Moderation),
		Listing:    NewListingHandler(svc.Listing),
		Forum:      NewForumHandler(svc.Forum),
		Group:      NewGroupHandler(svc.Group),
		Message:    NewMessageHandler(svc.Message),
		Ws:         NewWsHandler(gateway),
	}
}

// currentUser 当前登录用户 UUID，由 SessionAuth 中间件写入
func currentUser(c *gin.Context) string {
	return c.GetString(constants.CONTEXT_USER_ID)
}
