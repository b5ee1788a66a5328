package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tradepost/internal/domain/entity"
	"tradepost/pkg/errors"
)

// In-memory repository fakes backing the use case tests. They mirror
// the Firestore implementations' observable behavior: id assignment on
// create, NOT_FOUND app errors, and the documented result ordering.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo(users ...*entity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.NotFound("Profile", nil)
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.NotFound("Profile", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("Profile", nil)
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) List(ctx context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type memListingRepo struct {
	mu       sync.Mutex
	listings []*entity.Listing
}

func newMemListingRepo(listings ...*entity.Listing) *memListingRepo {
	return &memListingRepo{listings: listings}
}

func (r *memListingRepo) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	r.listings = append(r.listings, listing)
	return nil
}

func (r *memListingRepo) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.listings {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, errors.NotFound("Listing", nil)
}

func (r *memListingRepo) List(ctx context.Context, category string) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.listings {
		if category == "" || l.Category == category {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memListingRepo) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memListingRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listings {
		if l.ID == id {
			r.listings = append(r.listings[:i], r.listings[i+1:]...)
			return nil
		}
	}
	return errors.NotFound("Listing", nil)
}

func (r *memListingRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.listings)), nil
}

type memThreadRepo struct {
	mu       sync.Mutex
	threads  []*entity.Thread
	messages map[string][]*entity.Message
}

func newMemThreadRepo() *memThreadRepo {
	return &memThreadRepo{messages: make(map[string][]*entity.Message)}
}

func (r *memThreadRepo) Create(ctx context.Context, thread *entity.Thread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if thread.ID == "" {
		thread.ID = uuid.New().String()
	}
	thread.Participants = []string{thread.BuyerID, thread.SellerID}
	r.threads = append(r.threads, thread)
	return nil
}

func (r *memThreadRepo) GetByID(ctx context.Context, id string) (*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.threads {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, errors.NotFound("Thread", nil)
}

func (r *memThreadRepo) FindByParticipants(ctx context.Context, listingID, buyerID, sellerID string) ([]*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Thread
	for _, t := range r.threads {
		if t.ListingID == listingID && t.BuyerID == buyerID && t.SellerID == sellerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memThreadRepo) ListByUserID(ctx context.Context, userID string) ([]*entity.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Thread
	for _, t := range r.threads {
		if t.HasParticipant(userID) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memThreadRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.threads)), nil
}

func (r *memThreadRepo) CreateMessage(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	r.messages[message.ThreadID] = append(r.messages[message.ThreadID], message)
	return nil
}

func (r *memThreadRepo) ListMessages(ctx context.Context, threadID string) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]*entity.Message(nil), r.messages[threadID]...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// fakeAuthProvider records calls and hands out deterministic ids and
// tokens.
type fakeAuthProvider struct {
	mu          sync.Mutex
	nextUID     string
	created     []string
	revoked     []string
	resetEmails []string
	signInErr   error
}

func (f *fakeAuthProvider) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, email)
	if f.nextUID == "" {
		f.nextUID = uuid.New().String()
	}
	return f.nextUID, nil
}

func (f *fakeAuthProvider) VerifyToken(ctx context.Context, idToken string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nextUID, nil
}

func (f *fakeAuthProvider) SignInWithEmailPassword(email, password string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signInErr != nil {
		return "", "", f.signInErr
	}
	return "id-token-" + email, "refresh-token-" + email, nil
}

func (f *fakeAuthProvider) RefreshIDToken(refreshToken string) (string, string, error) {
	return "refreshed-id-token", "rotated-" + refreshToken, nil
}

func (f *fakeAuthProvider) SendPasswordResetEmail(email, continueURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetEmails = append(f.resetEmails, fmt.Sprintf("%s|%s", email, continueURL))
	return nil
}

func (f *fakeAuthProvider) UpdateUserPassword(ctx context.Context, uid, newPassword string) error {
	return nil
}

func (f *fakeAuthProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked = append(f.revoked, uid)
	return nil
}

// fakeUploader records object paths in upload order and can be told to
// fail from a given call onward.
type fakeUploader struct {
	mu        sync.Mutex
	paths     []string
	failAfter int // fail on call n (1-based); 0 means never fail
}

func (f *fakeUploader) UploadFile(ctx context.Context, file io.Reader, contentType, objectPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAfter > 0 && len(f.paths)+1 >= f.failAfter {
		return "", fmt.Errorf("storage unavailable")
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(file); err != nil {
		return "", err
	}
	f.paths = append(f.paths, objectPath)
	return "https://storage.example.com/" + objectPath, nil
}
