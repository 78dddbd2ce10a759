// Package handler 提供 HTTP 请求处理器
// 本文件处理二手市场相关的 API 请求
package handler

import (
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/service"

	"github.com/gin-gonic/gin"
)

// ListingHandler 商品请求处理器
type ListingHandler struct {
	listingSvc service.ListingService
}

// NewListingHandler 创建商品处理器实例
func NewListingHandler(listingSvc service.ListingService) *ListingHandler {
	return &ListingHandler{listingSvc: listingSvc}
}

// CreateListing 发布商品
// POST /listing/createListing (multipart)
// 响应: respond.ListingRespond
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req request.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.listingSvc.CreateListing(c.Request.Context(), currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetListing GET /listing/getListing?listing_id=xxx
func (h *ListingHandler) GetListing(c *gin.Context) {
	var req request.ListingIdRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.listingSvc.GetListing(c.Request.Context(), req.ListingId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SearchListings 搜索商品
// GET /listing/searchListings?search_terms=xxx&category=xxx&max_price=100
// 响应: respond.SearchListingsRespond
func (h *ListingHandler) SearchListings(c *gin.Context) {
	var req request.SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.listingSvc.SearchListings(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteListing POST /listing/deleteListing
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	var req request.ListingIdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.listingSvc.DeleteListing(c.Request.Context(), currentUser(c), req.ListingId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
