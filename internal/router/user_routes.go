package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterUserRoutes 注册用户资料相关路由
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	userGroup := rg.Group("/user")
	{
		userGroup.GET("/getUserInfo", rt.handlers.User.GetUserInfo)
		userGroup.GET("/searchUsers", rt.handlers.User.SearchUsers)
		userGroup.POST("/updatePicture", rt.handlers.User.UpdatePicture)
	}
}
