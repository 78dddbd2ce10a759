// Package handler 提供 HTTP 请求处理器
// 本文件处理平台版主和管理员的用户管理请求
package handler

import (
	"context"
	"net/http"

	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"

	"github.com/gin-gonic/gin"
)

// ModerationHandler 用户管理请求处理器
type ModerationHandler struct {
	moderationSvc service.ModerationService
}

// NewModerationHandler 创建处理器实例
func NewModerationHandler(moderationSvc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationSvc: moderationSvc}
}

// userAction 绑定目标用户后执行 action
func (h *ModerationHandler) userAction(c *gin.Context, action func(ctx context.Context, actorId, targetId string) error) {
	var req request.UserIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := action(c.Request.Context(), currentUser(c), req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ApproveUser POST /moderation/approveUser
func (h *ModerationHandler) ApproveUser(c *gin.Context) {
	h.userAction(c, h.moderationSvc.ApproveUser)
}

// RejectUser POST /moderation/rejectUser
func (h *ModerationHandler) RejectUser(c *gin.Context) {
	h.userAction(c, h.moderationSvc.RejectUser)
}

// BanUser POST /moderation/banUser
func (h *ModerationHandler) BanUser(c *gin.Context) {
	h.userAction(c, h.moderationSvc.BanUser)
}

// AppointModerator POST /moderation/appointModerator
func (h *ModerationHandler) AppointModerator(c *gin.Context) {
	h.userAction(c, h.moderationSvc.AppointModerator)
}

// UnappointModerator POST /moderation/unappointModerator
func (h *ModerationHandler) UnappointModerator(c *gin.Context) {
	h.userAction(c, h.moderationSvc.UnappointModerator)
}

// GetIdPicture 直接返回图片内容，不使用 JSON 信封
// GET /moderation/getIdPicture?user_id=xxx
func (h *ModerationHandler) GetIdPicture(c *gin.Context) {
	var req request.UserIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rc, contentType, err := h.moderationSvc.GetIdPicture(c.Request.Context(), currentUser(c), req.UserId)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer rc.Close()
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, -1, contentType, rc, nil)
}
