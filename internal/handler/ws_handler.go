// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接
package handler

import (
	"gatormmunity/internal/service/chat"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 处理器
type WsHandler struct {
	gateway *chat.Gateway
}

// NewWsHandler 创建 WebSocket 处理器实例
func NewWsHandler(gateway *chat.Gateway) *WsHandler {
	return &WsHandler{gateway: gateway}
}

// Connect 升级为 WebSocket 连接，之后该用户的新消息会被推送到连接上
// GET /ws/connect
func (h *WsHandler) Connect(c *gin.Context) {
	h.gateway.Connect(c, currentUser(c))
}
