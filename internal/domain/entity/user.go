package entity

import (
	"strings"
	"time"
)

type User struct {
	ID        string    `json:"id" firestore:"id"`
	Email     string    `json:"email" firestore:"email"`
	Username  string    `json:"username" firestore:"username"`
	IsAdmin   bool      `json:"is_admin" firestore:"isAdmin"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// DisplayName prefers the stored username and falls back to the
// portion of the email before "@".
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return ""
}
