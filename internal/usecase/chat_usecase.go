package usecase

import (
	"context"
	"strings"
	"time"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/internal/infrastructure/ratelimit"
	ws "tradepost/internal/infrastructure/websocket"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type ChatUseCase struct {
	threadRepo  repository.ThreadRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	hub         *ws.Hub
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	threadRepo repository.ThreadRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	hub *ws.Hub,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		threadRepo:  threadRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		hub:         hub,
		rateLimiter: rateLimiter,
	}
}

// ThreadResponse joins a thread with its listing context and both
// participants' resolved display names.
type ThreadResponse struct {
	*entity.Thread
	ListingTitle string `json:"listing_title"`
	ListingImage string `json:"listing_image,omitempty"`
	BuyerName    string `json:"buyer_name"`
	SellerName   string `json:"seller_name"`
}

// StartThread looks up or creates the thread between the caller and
// the listing's seller. The check-then-insert sequence is not
// transactional: concurrent double invocation can create duplicate
// threads.
func (uc *ChatUseCase) StartThread(ctx context.Context, buyerID, listingID string) (*entity.Thread, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if buyerID == listing.SellerID {
		return nil, errors.BadRequest("You cannot start a chat about your own listing", nil)
	}

	existing, err := uc.threadRepo.FindByParticipants(ctx, listingID, buyerID, listing.SellerID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	thread := &entity.Thread{
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  listing.SellerID,
		CreatedAt: time.Now(),
	}

	if err := uc.threadRepo.Create(ctx, thread); err != nil {
		return nil, err
	}

	// The event payload carries no joined display data; consumers
	// re-fetch their thread list on receipt.
	for _, participantID := range thread.Participants {
		uc.hub.Publish(ws.NewEvent(ws.EventThreadCreated, ws.ThreadFeed(participantID), thread))
	}

	return thread, nil
}

// ListThreads returns every thread involving the user, newest first,
// joined with listing title/cover image and both display names.
func (uc *ChatUseCase) ListThreads(ctx context.Context, userID string) ([]*ThreadResponse, error) {
	threads, err := uc.threadRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		resp := &ThreadResponse{
			Thread:     thread,
			BuyerName:  uc.resolveDisplayName(ctx, thread.BuyerID, "Buyer"),
			SellerName: uc.resolveDisplayName(ctx, thread.SellerID, "Seller"),
		}

		listing, err := uc.listingRepo.GetByID(ctx, thread.ListingID)
		if err != nil {
			logger.Warn("Listing %s missing for thread %s: %v", thread.ListingID, thread.ID, err)
		} else {
			resp.ListingTitle = listing.Title
			resp.ListingImage = listing.CoverImage()
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

// GetThread returns the thread after checking the caller participates
// in it.
func (uc *ChatUseCase) GetThread(ctx context.Context, userID, threadID string) (*entity.Thread, error) {
	thread, err := uc.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if !thread.HasParticipant(userID) {
		return nil, errors.Forbidden("You are not a participant in this thread", nil)
	}

	return thread, nil
}

// AuthorizeThreadAccess reports whether the user may read a thread's
// message feed.
func (uc *ChatUseCase) AuthorizeThreadAccess(ctx context.Context, userID, threadID string) error {
	_, err := uc.GetThread(ctx, userID, threadID)
	return err
}

// ListMessages returns the thread's full message history ordered by
// creation timestamp ascending; the store-side ordering is
// authoritative.
func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, threadID string) ([]*entity.Message, error) {
	if _, err := uc.GetThread(ctx, userID, threadID); err != nil {
		return nil, err
	}

	return uc.threadRepo.ListMessages(ctx, threadID)
}

// SendMessage inserts a message row and publishes it to the thread's
// live feed. Delivery to both participants, the sender included,
// happens only through the feed. Empty or whitespace-only content
// performs no insert.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID, threadID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Message content is empty", nil)
	}

	allowed, waitTime := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		logger.Warn("SendMessage rate limited: user %s must wait %v", senderID, waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly")
	}

	thread, err := uc.GetThread(ctx, senderID, threadID)
	if err != nil {
		return nil, err
	}

	message := &entity.Message{
		ThreadID:  thread.ID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := uc.threadRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	uc.hub.Publish(ws.NewEvent(ws.EventMessageCreated, ws.MessageFeed(thread.ID), message))

	return message, nil
}

// resolveDisplayName prefers the stored username, falls back to the
// email local part, and finally to the role label.
func (uc *ChatUseCase) resolveDisplayName(ctx context.Context, userID, roleLabel string) string {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Debug("Profile %s unavailable, using role label: %v", userID, err)
		return roleLabel
	}

	if name := user.DisplayName(); name != "" {
		return name
	}
	return roleLabel
}
