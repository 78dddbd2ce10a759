package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes 注册、登录（无需认证）
func (rt *Router) RegisterPublicRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register)
		authGroup.POST("/login", rt.handlers.Auth.Login)
	}
}

// RegisterAuthRoutes 登出、当前用户
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/logout", rt.handlers.Auth.Logout)
		authGroup.GET("/me", rt.handlers.Auth.Me)
	}
}
