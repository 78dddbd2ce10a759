package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterListingRoutes 注册二手市场路由
func (rt *Router) RegisterListingRoutes(rg *gin.RouterGroup) {
	listingGroup := rg.Group("/listing")
	{
		listingGroup.POST("/createListing", rt.handlers.Listing.CreateListing)
		listingGroup.GET("/getListing", rt.handlers.Listing.GetListing)
		listingGroup.GET("/searchListings", rt.handlers.Listing.SearchListings)
		listingGroup.POST("/deleteListing", rt.handlers.Listing.DeleteListing)
	}
}
