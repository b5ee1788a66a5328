package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayNameFallsBackToEmailLocalPart(t *testing.T) {
	assert.Equal(t, "alice", (&User{Username: "alice", Email: "a@example.com"}).DisplayName())
	assert.Equal(t, "bob", (&User{Email: "bob@example.com"}).DisplayName())
	assert.Equal(t, "", (&User{}).DisplayName())
	assert.Equal(t, "", (&User{Email: "@example.com"}).DisplayName())
}

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, IsValidCategory(c))
	}
	assert.False(t, IsValidCategory(CategoryAll), "the sentinel is a filter value, not a listing category")
	assert.False(t, IsValidCategory("electronics"), "matching is case sensitive")
}

func TestCoverImage(t *testing.T) {
	assert.Equal(t, "", (&Listing{}).CoverImage())
	assert.Equal(t, "first.jpg", (&Listing{Images: []string{"first.jpg", "second.jpg"}}).CoverImage())
}

func TestThreadHasParticipant(t *testing.T) {
	thread := &Thread{BuyerID: "b", SellerID: "s", Participants: []string{"b", "s"}}
	assert.True(t, thread.HasParticipant("b"))
	assert.True(t, thread.HasParticipant("s"))
	assert.False(t, thread.HasParticipant("x"))
}
