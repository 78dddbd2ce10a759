package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterForumRoutes 注册论坛路由，group_id 区分全局论坛和群论坛
func (rt *Router) RegisterForumRoutes(rg *gin.RouterGroup) {
	forumGroup := rg.Group("/forum")
	{
		forumGroup.POST("/createThread", rt.handlers.Forum.CreateThread)
		forumGroup.POST("/replyThread", rt.handlers.Forum.ReplyThread)
		forumGroup.GET("/getThread", rt.handlers.Forum.GetThread)
		forumGroup.GET("/searchThreads", rt.handlers.Forum.SearchThreads)
		forumGroup.POST("/deleteThread", rt.handlers.Forum.DeleteThread)
	}
}
