package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"tradepost/internal/domain/entity"
	"tradepost/internal/domain/repository"
	"tradepost/pkg/errors"
	"tradepost/pkg/logger"
)

type firestoreThreadRepository struct {
	client *firestore.Client
}

func NewFirestoreThreadRepository(client *firestore.Client) repository.ThreadRepository {
	return &firestoreThreadRepository{
		client: client,
	}
}

func (r *firestoreThreadRepository) Create(ctx context.Context, thread *entity.Thread) error {
	if thread.ID == "" {
		thread.ID = uuid.New().String()
	}
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now()
	}
	thread.Participants = []string{thread.BuyerID, thread.SellerID}

	_, err := r.client.Collection("threads").Doc(thread.ID).Set(ctx, thread)
	if err != nil {
		return errors.Internal("Failed to create thread", err)
	}

	return nil
}

func (r *firestoreThreadRepository) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	doc, err := r.client.Collection("threads").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Thread", err)
		}
		return nil, errors.Internal("Failed to get thread", err)
	}

	var thread entity.Thread
	if err := doc.DataTo(&thread); err != nil {
		return nil, errors.Internal("Failed to parse thread data", err)
	}

	return &thread, nil
}

func (r *firestoreThreadRepository) FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) ([]*entity.Thread, error) {
	query := r.client.Collection("threads").
		Where("listingId", "==", listingID).
		Where("buyerId", "==", buyerID).
		Where("sellerId", "==", sellerID).
		OrderBy("createdAt", firestore.Asc)

	return r.collect(ctx, query)
}

func (r *firestoreThreadRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Thread, error) {
	query := r.client.Collection("threads").
		Where("participants", "array-contains", userID).
		OrderBy("createdAt", firestore.Desc)

	return r.collect(ctx, query)
}

func (r *firestoreThreadRepository) collect(ctx context.Context, query firestore.Query) ([]*entity.Thread, error) {
	iter := query.Documents(ctx)
	var threads []*entity.Thread

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate threads", err)
		}

		var thread entity.Thread
		if err := doc.DataTo(&thread); err != nil {
			logger.Warn("Skipping malformed thread document %s: %v", doc.Ref.ID, err)
			continue
		}
		threads = append(threads, &thread)
	}

	return threads, nil
}

func (r *firestoreThreadRepository) Count(ctx context.Context) (int64, error) {
	return countDocuments(ctx, r.client.Collection("threads").Query)
}

func (r *firestoreThreadRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("threads").Doc(message.ThreadID).
		Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreThreadRepository) ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error) {
	query := r.client.Collection("threads").Doc(threadID).
		Collection("messages").OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			logger.Warn("Skipping malformed message document %s: %v", doc.Ref.ID, err)
			continue
		}
		messages = append(messages, &message)
	}

	return messages, nil
}
