// Package handler 提供 HTTP 请求处理器
// 本文件处理注册、登录和登出
package handler

import (
	"net/http"
	"time"

	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"
	"gatormmunity/pkg/constants"

	"github.com/gin-gonic/gin"
)

// AuthHandler 认证请求处理器
type AuthHandler struct {
	authSvc service.AuthService
	userSvc service.UserService
	cookie  CookieOptions
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authSvc service.AuthService, userSvc service.UserService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, userSvc: userSvc, cookie: cookie}
}

// Register 注册
// POST /auth/register (multipart)
// 响应: respond.RegisterRespond
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Login 登录，令牌同时写入 Cookie 和响应体
// POST /auth/login
// 响应: respond.LoginRespond
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.authSvc.Login(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	maxAge := int(time.Until(data.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, data.Token, maxAge, "/", "", h.cookie.Secure, true)
	HandleSuccess(c, data)
}

// Logout 销毁会话并清除 Cookie
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context(), c.GetString(constants.CONTEXT_SESSION_ID)); err != nil {
		HandleError(c, err)
		return
	}
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	HandleSuccess(c, nil)
}

// Me 当前登录用户的资料
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userId := currentUser(c)
	data, err := h.userSvc.GetUserInfo(c.Request.Context(), userId, userId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}
