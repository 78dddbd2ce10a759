package model

import "gorm.io/gorm"

// Listing 二手市场商品
type Listing struct {
	gorm.Model
	Uuid        string  `gorm:"column:uuid;uniqueIndex;type:char(20);not null;comment:商品唯一id"`
	Title       string  `gorm:"column:title;type:varchar(100);not null;comment:标题"`
	Description string  `gorm:"column:description;type:text;comment:描述"`
	Price       float64 `gorm:"column:price;type:decimal(10,2);index;not null;comment:价格"`
	Category    string  `gorm:"column:category;type:varchar(40);index;not null;comment:分类"`
	SellerUuid  string  `gorm:"column:seller_uuid;type:char(20);index;not null;comment:卖家uuid"`
	Picture     string  `gorm:"column:picture;type:varchar(255);comment:图片"`
	Thumbnail   string  `gorm:"column:thumbnail;type:varchar(255);comment:缩略图"`
}

func (Listing) TableName() string {
	return "listing"
}
