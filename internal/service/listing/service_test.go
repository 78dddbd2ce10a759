package listing

import (
	"context"
	"testing"

	"gatormmunity/internal/dao/mysql/repository/repotest"
	"gatormmunity/internal/dto/request"
	"gatormmunity/internal/infrastructure/filestore"
	"gatormmunity/internal/model"
	"gatormmunity/internal/service/search"
	"gatormmunity/internal/service/servicetest"
	"gatormmunity/pkg/enum/user_info/user_role_enum"
	"gatormmunity/pkg/errorx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*listingService, *servicetest.Files) {
	repos, _ := repotest.NewRepositories()
	files := servicetest.NewFiles(t)
	servicetest.AddUser(t, repos, "SELLER", "Sam", "Seller", user_role_enum.APPROVED)
	servicetest.AddUser(t, repos, "BUYER", "Bea", "Buyer", user_role_enum.APPROVED)
	servicetest.AddUser(t, repos, "MOD", "Mo", "Derator", user_role_enum.MODERATOR)
	servicetest.AddUser(t, repos, "NEW", "New", "Comer", user_role_enum.UNAPPROVED)
	return NewListingService(repos, files, search.DefaultCaps, filestore.Size{Width: 16, Height: 16}), files
}

func seed(t *testing.T, svc *listingService, title, category string, price float64) *model.Listing {
	l := &model.Listing{Uuid: title, Title: title, Category: category, Price: price, SellerUuid: "SELLER"}
	require.NoError(t, svc.repos.Listing.Create(l))
	return l
}

func TestCreateListing(t *testing.T) {
	svc, files := newTestService(t)
	ctx := context.Background()
	req := request.CreateListingRequest{
		Title: "Desk lamp", Price: 12.346, Category: "Furniture", Picture: servicetest.Image(t),
	}

	rsp, err := svc.CreateListing(ctx, "SELLER", req)
	require.NoError(t, err)
	assert.Equal(t, 12.35, rsp.Price)
	assert.Equal(t, "SELLER", rsp.SellerId)
	assert.Contains(t, rsp.Picture, "/static/listings/")
	assert.Equal(t, 2, files.Count(t))

	req.Picture = servicetest.Image(t)
	_, err = svc.CreateListing(ctx, "NEW", req)
	require.Error(t, err)
	assert.Equal(t, errorx.CodeForbidden, errorx.GetCode(err))
	assert.EqualError(t, err, "your account is awaiting approval")
	assert.Equal(t, 2, files.Count(t))
}

func TestSearchListingsByCategoryAndMaxPrice(t *testing.T) {
	svc, _ := newTestService(t)
	seed(t, svc, "Old laptop", "Electronics", 450)
	seed(t, svc, "Gaming PC", "Electronics", 1200)
	seed(t, svc, "Sofa", "Furniture", 100)
	seed(t, svc, "Headphones", "Electronics", 80)

	maxPrice := 500.0
	rsp, err := svc.SearchListings(context.Background(), request.SearchListingsRequest{Category: "Electronics", MaxPrice: &maxPrice})
	require.NoError(t, err)
	assert.True(t, rsp.Matched)
	assert.Equal(t, 2, rsp.NumMatched)
	require.Len(t, rsp.Listings, 2)
	assert.Equal(t, "Headphones", rsp.Listings[0].Title)
	assert.Equal(t, "Old laptop", rsp.Listings[1].Title)
}

func TestSearchListingsFallsBackToRecommendations(t *testing.T) {
	svc, _ := newTestService(t)
	for i := 0; i < 12; i++ {
		seed(t, svc, "Textbook "+string(rune('A'+i)), "Books", 10)
	}

	rsp, err := svc.SearchListings(context.Background(), request.SearchListingsRequest{SearchTerms: "bicycle"})
	require.NoError(t, err)
	assert.False(t, rsp.Matched)
	assert.Zero(t, rsp.NumMatched)
	require.Len(t, rsp.Listings, 10)
	assert.Equal(t, "Textbook L", rsp.Listings[0].Title)
}

func TestSearchListingsEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)
	rsp, err := svc.SearchListings(context.Background(), request.SearchListingsRequest{SearchTerms: "anything"})
	require.NoError(t, err)
	assert.False(t, rsp.Matched)
	assert.NotNil(t, rsp.Listings)
	assert.Empty(t, rsp.Listings)
}

func TestDeleteListing(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seed(t, svc, "Sofa", "Furniture", 100)
	seed(t, svc, "Chair", "Furniture", 20)

	err := svc.DeleteListing(ctx, "BUYER", "Sofa")
	assert.EqualError(t, err, "you can only delete your own content")

	require.NoError(t, svc.DeleteListing(ctx, "SELLER", "Sofa"))
	require.NoError(t, svc.DeleteListing(ctx, "MOD", "Chair"))

	_, err = svc.GetListing(ctx, "Sofa")
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}
