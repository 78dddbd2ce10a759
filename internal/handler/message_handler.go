// Package handler 提供 HTTP 请求处理器
// 本文件处理私信、群聊和全局聊天的 API 请求
package handler

import (
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"

	"github.com/gin-gonic/gin"
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	messageSvc service.MessageService
}

// NewMessageHandler 创建消息处理器实例
func NewMessageHandler(messageSvc service.MessageService) *MessageHandler {
	return &MessageHandler{messageSvc: messageSvc}
}

// SendDirectMessage POST /message/sendDirectMessage
func (h *MessageHandler) SendDirectMessage(c *gin.Context) {
	var req request.SendDirectMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendDirectMessage(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetConversation 与某个用户的私信记录
// GET /message/getConversation?user_id=xxx&after_id=0
func (h *MessageHandler) GetConversation(c *gin.Context) {
	var req request.GetConversationRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.GetConversation(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetConversationList GET /message/getConversationList
func (h *MessageHandler) GetConversationList(c *gin.Context) {
	data, err := h.messageSvc.GetConversationList(c.Request.Context(), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SendGroupMessage 群聊，group_id 为空时发到全局聊天
// POST /message/sendGroupMessage
func (h *MessageHandler) SendGroupMessage(c *gin.Context) {
	var req request.SendGroupMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.SendGroupMessage(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupMessageList GET /message/getGroupMessageList?group_id=xxx&after_id=0
func (h *MessageHandler) GetGroupMessageList(c *gin.Context) {
	var req request.GetGroupMessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.messageSvc.GetGroupMessageList(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
