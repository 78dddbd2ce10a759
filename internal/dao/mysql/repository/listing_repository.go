package repository

import (
	"gatormmunity/internal/model"

	"gorm.io/gorm"
)

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository 创建商品 Repository
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) FindByUuid(uuid string) (*model.Listing, error) {
	var listing model.Listing
	if err := r.db.First(&listing, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "query listing uuid=%s", uuid)
	}
	return &listing, nil
}

func (r *listingRepository) Create(listing *model.Listing) error {
	return wrapDBError(r.db.Create(listing).Error, "create listing")
}

// Search 分类和价格上限总是生效，terms 匹配标题
func (r *listingRepository) Search(filter ListingFilter, terms string, limit int) ([]model.Listing, error) {
	var listings []model.Listing
	query := r.db.Model(&model.Listing{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if terms != "" {
		query = query.Where("LOWER(title) LIKE ?", ContainsPattern(terms))
	}
	if err := query.Order("id DESC").Limit(limit).Find(&listings).Error; err != nil {
		return nil, wrapDBError(err, "search listings")
	}
	return listings, nil
}

func (r *listingRepository) DeleteByUuid(uuid string) error {
	err := r.db.Unscoped().Where("uuid = ?", uuid).Delete(&model.Listing{}).Error
	return wrapDBErrorf(err, "delete listing uuid=%s", uuid)
}
