// Package router 提供 HTTP 路由注册
// 本文件定义群组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由
// 包括群组创建、查询、成员管理等功能
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/group")
	{
		// ===== 群组基本操作 =====
		groupGroup.POST("/createGroup", rt.handlers.Group.CreateGroup)
		groupGroup.GET("/getGroupInfo", rt.handlers.Group.GetGroupInfo)
		groupGroup.GET("/searchGroups", rt.handlers.Group.SearchGroups)
		groupGroup.GET("/loadMyGroups", rt.handlers.Group.LoadMyGroups)
		groupGroup.POST("/updateAnnouncement", rt.handlers.Group.UpdateAnnouncement)
		groupGroup.POST("/deleteGroup", rt.handlers.Group.DeleteGroup) // 解散群组（群管理员）

		// 加群、退群
		groupGroup.POST("/joinGroup", rt.handlers.Group.JoinGroup)
		groupGroup.POST("/leaveGroup", rt.handlers.Group.LeaveGroup)

		// ===== 群成员管理 =====
		groupGroup.GET("/getGroupMemberList", rt.handlers.Group.GetGroupMemberList)
		groupGroup.POST("/inviteMember", rt.handlers.Group.InviteMember)
		groupGroup.POST("/kickMember", rt.handlers.Group.KickMember)
		groupGroup.POST("/promoteMember", rt.handlers.Group.PromoteMember)
		groupGroup.POST("/demoteMember", rt.handlers.Group.DemoteMember)
	}
}
