// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"gatormmunity/internal/handler"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
type Router struct {
	handlers *handler.Handlers
	auth     gin.HandlerFunc // 会话认证中间件
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers, auth gin.HandlerFunc) *Router {
	return &Router{handlers: handlers, auth: auth}
}

// RegisterRoutes 注册所有路由
// 注册、登录为公开接口，其余接口都要求有效会话
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	rt.RegisterPublicRoutes(r)

	private := r.Group("")
	private.Use(rt.auth)
	rt.RegisterAuthRoutes(private)
	rt.RegisterUserRoutes(private)
	rt.RegisterModerationRoutes(private)
	rt.RegisterListingRoutes(private)
	rt.RegisterForumRoutes(private)
	rt.RegisterGroupRoutes(private)
	rt.RegisterMessageRoutes(private)
	rt.RegisterWebSocketRoutes(private)
}
