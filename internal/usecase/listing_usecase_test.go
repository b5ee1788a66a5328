package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradepost/internal/domain/entity"
	"tradepost/pkg/errors"
)

func TestCreateListingUploadsSequentiallyAndKeepsOrder(t *testing.T) {
	listingRepo := newMemListingRepo()
	uploader := &fakeUploader{}
	uc := NewListingUseCase(listingRepo, newMemUserRepo(), uploader)

	images := []ImageUpload{
		{Reader: strings.NewReader("a"), Filename: "front.jpg", ContentType: "image/jpeg"},
		{Reader: strings.NewReader("b"), Filename: "back.png", ContentType: "image/png"},
		{Reader: strings.NewReader("c"), Filename: "detail.webp", ContentType: "image/webp"},
	}

	listing, err := uc.CreateListing(context.Background(), "seller-1", CreateListingInput{
		Title:    "Armchair",
		Price:    120,
		Category: "Furniture",
	}, images)
	require.NoError(t, err)
	require.Len(t, listing.Images, 3)

	// Object paths are seller scoped with a random name keeping the
	// original extension.
	require.Len(t, uploader.paths, 3)
	assert.True(t, strings.HasPrefix(uploader.paths[0], "listing-images/seller-1/"))
	assert.True(t, strings.HasSuffix(uploader.paths[0], ".jpg"))
	assert.True(t, strings.HasSuffix(uploader.paths[1], ".png"))
	assert.True(t, strings.HasSuffix(uploader.paths[2], ".webp"))

	// The first uploaded file is the cover.
	assert.Equal(t, listing.Images[0], "https://storage.example.com/"+uploader.paths[0])
	assert.Equal(t, listing.Images[0], listing.CoverImage())
}

func TestCreateListingAbortsOnFailedUpload(t *testing.T) {
	listingRepo := newMemListingRepo()
	uploader := &fakeUploader{failAfter: 2}
	uc := NewListingUseCase(listingRepo, newMemUserRepo(), uploader)

	images := []ImageUpload{
		{Reader: strings.NewReader("a"), Filename: "one.jpg", ContentType: "image/jpeg"},
		{Reader: strings.NewReader("b"), Filename: "two.jpg", ContentType: "image/jpeg"},
		{Reader: strings.NewReader("c"), Filename: "three.jpg", ContentType: "image/jpeg"},
	}

	_, err := uc.CreateListing(context.Background(), "seller-1", CreateListingInput{
		Title:    "Camera",
		Price:    300,
		Category: "Electronics",
	}, images)

	require.Error(t, err)
	assert.True(t, errors.Is(err, "INTERNAL_ERROR"))

	// No listing row; the first upload stays behind in storage.
	count, _ := listingRepo.Count(context.Background())
	assert.Equal(t, int64(0), count)
	assert.Len(t, uploader.paths, 1)
}

func TestCreateListingValidatesInput(t *testing.T) {
	uc := NewListingUseCase(newMemListingRepo(), newMemUserRepo(), &fakeUploader{})

	_, err := uc.CreateListing(context.Background(), "seller-1", CreateListingInput{
		Title: "Free stuff", Price: -1, Category: "Others",
	}, nil)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.CreateListing(context.Background(), "seller-1", CreateListingInput{
		Title: "Odd", Price: 5, Category: "Spaceships",
	}, nil)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestListListingsCategoryFilterAndAllSentinel(t *testing.T) {
	now := time.Now()
	listingRepo := newMemListingRepo(
		&entity.Listing{ID: "l1", Category: "Electronics", CreatedAt: now.Add(-2 * time.Hour)},
		&entity.Listing{ID: "l2", Category: "Books", CreatedAt: now.Add(-time.Hour)},
		&entity.Listing{ID: "l3", Category: "Electronics", CreatedAt: now},
	)
	uc := NewListingUseCase(listingRepo, newMemUserRepo(), &fakeUploader{})

	all, err := uc.ListListings(context.Background(), entity.CategoryAll)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "l3", all[0].ID, "newest first")

	electronics, err := uc.ListListings(context.Background(), "Electronics")
	require.NoError(t, err)
	require.Len(t, electronics, 2)

	_, err = uc.ListListings(context.Background(), "NotACategory")
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestGetListingJoinsSellerAndToleratesMissingProfile(t *testing.T) {
	listingRepo := newMemListingRepo(
		&entity.Listing{ID: "l1", SellerID: "seller-1", Title: "Lamp", Category: "Furniture"},
		&entity.Listing{ID: "l2", SellerID: "seller-gone", Title: "Rug", Category: "Furniture"},
	)
	userRepo := newMemUserRepo(&entity.User{ID: "seller-1", Email: "bob@example.com", Username: "bob"})
	uc := NewListingUseCase(listingRepo, userRepo, &fakeUploader{})

	detail, err := uc.GetListing(context.Background(), "l1")
	require.NoError(t, err)
	require.NotNil(t, detail.Seller)
	assert.Equal(t, "bob", detail.Seller.Username)

	orphan, err := uc.GetListing(context.Background(), "l2")
	require.NoError(t, err)
	assert.Nil(t, orphan.Seller)

	_, err = uc.GetListing(context.Background(), "nope")
	assert.True(t, errors.Is(err, "NOT_FOUND"))
}
