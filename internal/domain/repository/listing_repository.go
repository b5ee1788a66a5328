package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// List returns listings ordered by creation timestamp descending.
	// An empty category means no filter.
	List(ctx context.Context, category string) ([]*entity.Listing, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
