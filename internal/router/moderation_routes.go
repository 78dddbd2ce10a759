// Package router 提供 HTTP 路由注册
// 本文件定义平台版主和管理员的路由，权限由 Service 层判定
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterModerationRoutes 注册用户管理路由
func (rt *Router) RegisterModerationRoutes(rg *gin.RouterGroup) {
	moderationGroup := rg.Group("/moderation")
	{
		// ===== 待审核用户 =====
		moderationGroup.POST("/approveUser", rt.handlers.Moderation.ApproveUser)
		moderationGroup.POST("/rejectUser", rt.handlers.Moderation.RejectUser)
		moderationGroup.GET("/getIdPicture", rt.handlers.Moderation.GetIdPicture)

		moderationGroup.POST("/banUser", rt.handlers.Moderation.BanUser)

		// ===== 版主任免（仅管理员） =====
		moderationGroup.POST("/appointModerator", rt.handlers.Moderation.AppointModerator)
		moderationGroup.POST("/unappointModerator", rt.handlers.Moderation.UnappointModerator)
	}
}
