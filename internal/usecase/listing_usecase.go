package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	uploader    FileUploader
}

func NewListingUseCase(
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	uploader FileUploader,
) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		uploader:    uploader,
	}
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
}

// ImageUpload is one file of a composer submission.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type ListingDetail struct {
	*entity.Listing
	Seller *entity.User `json:"seller,omitempty"`
}

// CreateListing uploads the images one by one, then inserts the
// listing row referencing the collected URLs. Upload order determines
// the image sequence order; the first image is the cover. A failed
// upload aborts the submission and leaves earlier uploads orphaned in
// storage.
func (uc *ListingUseCase) CreateListing(ctx context.Context, sellerID string, input CreateListingInput, images []ImageUpload) (*entity.Listing, error) {
	if input.Price < 0 {
		return nil, errors.BadRequest("Price must not be negative", nil)
	}
	if !entity.IsValidCategory(input.Category) {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown category %q", input.Category), nil)
	}

	var imageURLs []string
	for i, image := range images {
		objectPath := fmt.Sprintf("listing-images/%s/%s%s", sellerID, uuid.New().String(), filepath.Ext(image.Filename))

		url, err := uc.uploader.UploadFile(ctx, image.Reader, image.ContentType, objectPath)
		if err != nil {
			logger.Error("Upload %d of %d failed for seller %s, aborting submission (%d uploaded files remain orphaned): %v",
				i+1, len(images), sellerID, i, err)
			return nil, errors.Internal("Failed to upload image", err)
		}
		imageURLs = append(imageURLs, url)
	}

	listing := &entity.Listing{
		SellerID:    sellerID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      imageURLs,
		CreatedAt:   time.Now(),
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// ListListings returns the full filtered result set, newest first.
// The sentinel category "All" (or an empty string) means unfiltered.
func (uc *ListingUseCase) ListListings(ctx context.Context, category string) ([]*entity.Listing, error) {
	if category == entity.CategoryAll {
		category = ""
	}
	if category != "" && !entity.IsValidCategory(category) {
		return nil, errors.BadRequest(fmt.Sprintf("Unknown category %q", category), nil)
	}

	return uc.listingRepo.List(ctx, category)
}

// GetListing returns a single listing joined with its seller profile.
func (uc *ListingUseCase) GetListing(ctx context.Context, id string) (*ListingDetail, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
	if err != nil {
		logger.Warn("Seller profile %s missing for listing %s: %v", listing.SellerID, listing.ID, err)
		seller = nil
	}

	return &ListingDetail{
		Listing: listing,
		Seller:  seller,
	}, nil
}

func (uc *ListingUseCase) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	return uc.listingRepo.ListBySellerID(ctx, sellerID)
}
