package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册消息路由
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/message")
	{
		// 私信
		messageGroup.POST("/sendDirectMessage", rt.handlers.Message.SendDirectMessage)
		messageGroup.GET("/getConversation", rt.handlers.Message.GetConversation)
		messageGroup.GET("/getConversationList", rt.handlers.Message.GetConversationList)

		// 群聊，group_id 为空时为全局聊天
		messageGroup.POST("/sendGroupMessage", rt.handlers.Message.SendGroupMessage)
		messageGroup.GET("/getGroupMessageList", rt.handlers.Message.GetGroupMessageList)
	}
}
