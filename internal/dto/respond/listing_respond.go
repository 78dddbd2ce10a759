package respond

import "time"

// ListingRespond 商品信息
type ListingRespond struct {
	Uuid        string    `json:"uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	SellerId    string    `json:"seller_id"`
	Picture     string    `json:"picture"`
	Thumbnail   string    `json:"thumbnail"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchListingsRespond 商品搜索结果
type SearchListingsRespond struct {
	Matched    bool             `json:"matched"`
	NumMatched int              `json:"num_matched"`
	Listings   []ListingRespond `json:"listings"`
}
