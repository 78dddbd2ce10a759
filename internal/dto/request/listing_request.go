package request

import "mime/multipart"

// CreateListingRequest 发布商品，multipart 表单
type CreateListingRequest struct {
	Title       string                `form:"title" json:"title" binding:"required,max=100"`
	Description string                `form:"description" json:"description" binding:"max=5000"`
	Price       float64               `form:"price" json:"price" binding:"min=0"`
	Category    string                `form:"category" json:"category" binding:"required,max=40"`
	Picture     *multipart.FileHeader `form:"picture" json:"-" binding:"required"`
}

// ListingIdRequest 按 UUID 操作商品
type ListingIdRequest struct {
	ListingId string `form:"listing_id" json:"listing_id" binding:"required"`
}

// SearchListingsRequest 商品搜索
type SearchListingsRequest struct {
	SearchTerms string   `form:"search_terms" json:"search_terms"`
	Category    string   `form:"category" json:"category"`
	MaxPrice    *float64 `form:"max_price" json:"max_price" binding:"omitempty,min=0"`
}
