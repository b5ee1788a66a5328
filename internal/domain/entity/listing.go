package entity

import (
	"time"
)

// CategoryAll is the sentinel that means "no category filter".
const CategoryAll = "All"

var Categories = []string{
	"Electronics", "Furniture", "Clothing", "Books", "Vehicles",
	"Sports", "Beauty", "Toys", "Properties", "Others",
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Listing struct {
	ID          string    `json:"id" firestore:"id"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Title       string    `json:"title" firestore:"title"`
	Description string    `json:"description" firestore:"description"`
	Price       float64   `json:"price" firestore:"price"`
	Category    string    `json:"category" firestore:"category"`
	Images      []string  `json:"images" firestore:"images"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// CoverImage is the first uploaded image, or empty when the listing
// has none.
func (l *Listing) CoverImage() string {
	if len(l.Images) > 0 {
		return l.Images[0]
	}
	return ""
}
