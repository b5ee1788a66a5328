package entity

import "time"

type Message struct {
	ID        string    `json:"id" firestore:"id"`
	ThreadID  string    `json:"thread_id" firestore:"threadId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Content   string    `json:"content" firestore:"content"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
