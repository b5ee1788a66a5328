package websocket

import "time"

// Event types delivered over live feeds.
const (
	EventThreadCreated  = "thread.created"
	EventMessageCreated = "message.created"
)

// Feed identifies one live change stream: a logical table plus an
// equality filter. Thread feeds are filtered by participant user id,
// message feeds by thread id.
type Feed struct {
	Table  string `json:"table"`
	Filter string `json:"filter"`
}

func ThreadFeed(userID string) Feed {
	return Feed{Table: "threads", Filter: userID}
}

func MessageFeed(threadID string) Feed {
	return Feed{Table: "messages", Filter: threadID}
}

// Event is one row-level change notification.
type Event struct {
	Type      string      `json:"type"`
	Feed      Feed        `json:"feed"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
}

func NewEvent(eventType string, feed Feed, payload interface{}) Event {
	return Event{
		Type:      eventType,
		Feed:      feed,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
