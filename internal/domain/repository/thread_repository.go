package repository

import (
	"context"

	"tradepost/internal/domain/entity"
)

type ThreadRepository interface {
	Create(ctx context.Context, thread *entity.Thread) error
	GetByID(ctx context.Context, id string) (*entity.Thread, error)
	// FindByParticipants returns all threads matching the
	// (listing, buyer, seller) triple, oldest first.
	FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) ([]*entity.Thread, error)
	// ListByUserID returns threads where the user is buyer or seller,
	// newest first.
	ListByUserID(ctx context.Context, userID string) ([]*entity.Thread, error)
	Count(ctx context.Context) (int64, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns all messages of a thread ordered by creation
	// timestamp ascending.
	ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error)
}
