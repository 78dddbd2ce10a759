// Package listing 处理二手市场商品的发布、查询、搜索和删除
package listing

import (
	"context"
	"fmt"
	"math"

	"gatormmunity/internal/dao/mysql/repository"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/dto/respond"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/rolegate"
	"gatormmunity/internal/service/search"
	"gatormmunity/pkg/constants"
	"gatormmunity/pkg/errorx"
	"gatormmunity/pkg/util/random"

	"go.uber.org/zap"
)

var errListingNotFound = errorx.New(errorx.CodeNotFound, "listing not found")

type listingService struct {
	repos *repository.Repositories
	files filestore.FileStore
	caps  search.Caps
	thumb filestore.Size
}

// NewListingService 构造函数
func NewListingService(repos *repository.Repositories, files filestore.FileStore, caps search.Caps, thumb filestore.Size) *listingService {
	return &listingService{repos: repos, files: files, caps: caps, thumb: thumb}
}

// CreateListing 发布商品，需要已审核账号
// 图片先落盘，记录写入失败时删除图片
func (l *listingService) CreateListing(ctx context.Context, userId string, req request.CreateListingRequest) (*respond.ListingRespond, error) {
	global := model.GlobalScope()
	actor, _, err := rolegate.LoadSubject(l.repos.User, l.repos.GroupMember, global, userId)
	if err != nil {
		return nil, err
	}
	if err := rolegate.Authorize(rolegate.Participate, actor, nil, rolegate.Resource{Scope: global}).Err(); err != nil {
		return nil, err
	}

	saved, err := filestore.SaveImageWithThumbnail(ctx, l.files, req.Picture, constants.CATEGORY_LISTINGS, l.thumb.Width, l.thumb.Height)
	if err != nil {
		return nil, err
	}
	listing := model.Listing{
		Uuid:        fmt.Sprintf("L%s", random.GetNowAndLenRandomString(11)),
		Title:       req.Title,
		Description: req.Description,
		Price:       math.Round(req.Price*100) / 100,
		Category:    req.Category,
		SellerUuid:  userId,
		Picture:     saved.Picture,
		Thumbnail:   saved.Thumbnail,
	}
	if err := l.repos.Listing.Create(&listing); err != nil {
		filestore.Cleanup(ctx, l.files, saved.Paths()...)
		zap.L().Error("create listing", zap.String("user_id", userId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := l.toRespond(&listing)
	return &rsp, nil
}

// GetListing 查询单个商品
func (l *listingService) GetListing(ctx context.Context, listingId string) (*respond.ListingRespond, error) {
	listing, err := l.find(listingId)
	if err != nil {
		return nil, err
	}
	rsp := l.toRespond(listing)
	return &rsp, nil
}

// SearchListings 按标题、分类和最高价搜索，无匹配时返回同分类同价位下最新的商品
func (l *listingService) SearchListings(ctx context.Context, req request.SearchListingsRequest) (*respond.SearchListingsRespond, error) {
	filter := repository.ListingFilter{Category: req.Category, MaxPrice: req.MaxPrice}
	result, err := search.Search(req.SearchTerms, l.caps, func(terms string, limit int) ([]model.Listing, error) {
		return l.repos.Listing.Search(filter, terms, limit)
	})
	if err != nil {
		return nil, err
	}
	listings := make([]respond.ListingRespond, 0, len(result.Records))
	for i := range result.Records {
		listings = append(listings, l.toRespond(&result.Records[i]))
	}
	return &respond.SearchListingsRespond{
		Matched:    result.Matched,
		NumMatched: result.NumMatched(),
		Listings:   listings,
	}, nil
}

// DeleteListing 卖家本人或版主可删除，图片一并删除
func (l *listingService) DeleteListing(ctx context.Context, userId, listingId string) error {
	listing, err := l.find(listingId)
	if err != nil {
		return err
	}
	global := model.GlobalScope()
	actor, _, err := rolegate.LoadSubject(l.repos.User, l.repos.GroupMember, global, userId)
	if err != nil {
		return err
	}
	res := rolegate.Resource{Scope: global, OwnerUuid: listing.SellerUuid}
	if err := rolegate.Authorize(rolegate.DeleteContent, actor, nil, res).Err(); err != nil {
		return err
	}
	if err := l.repos.Listing.DeleteByUuid(listingId); err != nil {
		zap.L().Error("delete listing", zap.String("listing_id", listingId), zap.Error(err))
		return errorx.ErrServerBusy
	}
	filestore.Cleanup(ctx, l.files, listing.Picture, listing.Thumbnail)
	zap.L().Info("listing deleted", zap.String("listing_id", listingId), zap.String("actor", userId))
	return nil
}

func (l *listingService) find(listingId string) (*model.Listing, error) {
	listing, err := l.repos.Listing.FindByUuid(listingId)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errListingNotFound
		}
		zap.L().Error("find listing", zap.String("listing_id", listingId), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return listing, nil
}

func (l *listingService) toRespond(listing *model.Listing) respond.ListingRespond {
	return respond.ListingRespond{
		Uuid:        listing.Uuid,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Category:    listing.Category,
		SellerId:    listing.SellerUuid,
		Picture:     l.files.URL(listing.Picture),
		Thumbnail:   l.files.URL(listing.Thumbnail),
		CreatedAt:   listing.CreatedAt,
	}
}
