package usecase

import (
	"context"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/logger"
)

type AdminUseCase struct {
	userRepo    repository.UserRepository
	listingRepo repository.ListingRepository
	threadRepo  repository.ThreadRepository
}

func NewAdminUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	threadRepo repository.ThreadRepository,
) *AdminUseCase {
	return &AdminUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		threadRepo:  threadRepo,
	}
}

type DashboardStats struct {
	Profiles int64 `json:"profiles"`
	Listings int64 `json:"listings"`
	Threads  int64 `json:"threads"`
}

// AdminListing joins a listing with its seller's email for the
// moderation table.
type AdminListing struct {
	*entity.Listing
	SellerEmail string `json:"seller_email,omitempty"`
}

// Stats loads all three aggregate counts unconditionally.
func (uc *AdminUseCase) Stats(ctx context.Context) (*DashboardStats, error) {
	profiles, err := uc.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	listings, err := uc.listingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	threads, err := uc.threadRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Profiles: profiles,
		Listings: listings,
		Threads:  threads,
	}, nil
}

func (uc *AdminUseCase) ListProfiles(ctx context.Context) ([]*entity.User, error) {
	return uc.userRepo.List(ctx)
}

func (uc *AdminUseCase) ListListings(ctx context.Context) ([]*AdminListing, error) {
	listings, err := uc.listingRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}

	result := make([]*AdminListing, 0, len(listings))
	for _, listing := range listings {
		row := &AdminListing{Listing: listing}

		seller, err := uc.userRepo.GetByID(ctx, listing.SellerID)
		if err != nil {
			logger.Warn("Seller profile %s missing for listing %s: %v", listing.SellerID, listing.ID, err)
		} else {
			row.SellerEmail = seller.Email
		}

		result = append(result, row)
	}

	return result, nil
}

// DeleteListing removes the row and reports the confirmed outcome, so
// callers commit their local removal only on success.
func (uc *AdminUseCase) DeleteListing(ctx context.Context, id string) error {
	if _, err := uc.listingRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.listingRepo.Delete(ctx, id)
}
