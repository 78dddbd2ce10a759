// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 路由
// 连接建立时已经过会话认证，用户身份取自会话
// 请求示例: ws://host:port/ws/connect
func (rt *Router) RegisterWebSocketRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/connect", rt.handlers.Ws.Connect)
}
