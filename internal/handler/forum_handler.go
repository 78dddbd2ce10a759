// Package handler 提供 HTTP 请求处理器
// 本文件处理论坛相关的 API 请求
package handler

import (
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"

	"github.com/gin-gonic/gin"
)

// ForumHandler 论坛请求处理器
type ForumHandler struct {
	forumSvc service.ForumService
}

// NewForumHandler 创建论坛处理器实例
func NewForumHandler(forumSvc service.ForumService) *ForumHandler {
	return &ForumHandler{forumSvc: forumSvc}
}

// CreateThread 发布主题，group_id 为空时发到全局论坛
// POST /forum/createThread (multipart)
func (h *ForumHandler) CreateThread(c *gin.Context) {
	var req request.CreateThreadRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.forumSvc.CreateThread(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ReplyThread POST /forum/replyThread
func (h *ForumHandler) ReplyThread(c *gin.Context) {
	var req request.ReplyThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.forumSvc.ReplyThread(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetThread 主题及全部回复
// GET /forum/getThread?thread_id=xxx
func (h *ForumHandler) GetThread(c *gin.Context) {
	var req request.ThreadIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.forumSvc.GetThread(c.Request.Context(), currentUser(c), req.ThreadId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SearchThreads GET /forum/searchThreads?search_terms=xxx&category=xxx&group_id=xxx
func (h *ForumHandler) SearchThreads(c *gin.Context) {
	var req request.SearchThreadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.forumSvc.SearchThreads(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteThread POST /forum/deleteThread
func (h *ForumHandler) DeleteThread(c *gin.Context) {
	var req request.ThreadIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.forumSvc.DeleteThread(c.Request.Context(), currentUser(c), req.ThreadId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
