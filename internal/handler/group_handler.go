// Package handler 提供 HTTP 请求处理器
// 本文件处理群组相关的 API 请求
package handler

import (
	"context"

	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组请求处理器
// 通过构造函数注入 GroupService
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建群组
// POST /group/createGroup (multipart)
// 响应: respond.GroupInfoRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroup(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupInfo 获取群组详情
// GET /group/getGroupInfo?group_id=xxx
func (h *GroupHandler) GetGroupInfo(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupInfo(c.Request.Context(), currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SearchGroups GET /group/searchGroups?search_terms=xxx
func (h *GroupHandler) SearchGroups(c *gin.Context) {
	var req request.SearchGroupsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.SearchGroups(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoadMyGroups 获取我加入的群组
// GET /group/loadMyGroups
func (h *GroupHandler) LoadMyGroups(c *gin.Context) {
	data, err := h.groupSvc.LoadMyGroups(c.Request.Context(), currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupMemberList 获取群成员列表
// GET /group/getGroupMemberList?group_id=xxx
func (h *GroupHandler) GetGroupMemberList(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupMemberList(c.Request.Context(), currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// JoinGroup 凭加入码入群
// POST /group/joinGroup
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	var req request.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.JoinGroup(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// memberAction 绑定目标成员后执行 action
func (h *GroupHandler) memberAction(c *gin.Context, action func(ctx context.Context, userId string, req request.GroupMemberRequest) error) {
	var req request.GroupMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := action(c.Request.Context(), currentUser(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// InviteMember POST /group/inviteMember
func (h *GroupHandler) InviteMember(c *gin.Context) {
	h.memberAction(c, h.groupSvc.InviteMember)
}

// KickMember POST /group/kickMember
func (h *GroupHandler) KickMember(c *gin.Context) {
	h.memberAction(c, h.groupSvc.KickMember)
}

// PromoteMember POST /group/promoteMember
func (h *GroupHandler) PromoteMember(c *gin.Context) {
	h.memberAction(c, h.groupSvc.PromoteMember)
}

// DemoteMember POST /group/demoteMember
func (h *GroupHandler) DemoteMember(c *gin.Context) {
	h.memberAction(c, h.groupSvc.DemoteMember)
}

// LeaveGroup 退出群组
// POST /group/leaveGroup
func (h *GroupHandler) LeaveGroup(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.LeaveGroup(c.Request.Context(), currentUser(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DeleteGroup 解散群组（仅群管理员）
// POST /group/deleteGroup
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	var req request.GroupIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.DeleteGroup(c.Request.Context(), currentUser(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// UpdateAnnouncement POST /group/updateAnnouncement
func (h *GroupHandler) UpdateAnnouncement(c *gin.Context) {
	var req request.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.UpdateAnnouncement(c.Request.Context(), currentUser(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
