package entity

import "time"

// Thread is a chat conversation scoped to one listing and its
// buyer/seller pair. Participants mirrors buyer and seller so the
// store can filter with a single array-contains query.
type Thread struct {
	ID           string    `json:"id" firestore:"id"`
	ListingID    string    `json:"listing_id" firestore:"listingId"`
	BuyerID      string    `json:"buyer_id" firestore:"buyerId"`
	SellerID     string    `json:"seller_id" firestore:"sellerId"`
	Participants []string  `json:"-" firestore:"participants"`
	CreatedAt    time.Time `json:"created_at" firestore:"createdAt"`
}

func (t *Thread) HasParticipant(userID string) bool {
	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
