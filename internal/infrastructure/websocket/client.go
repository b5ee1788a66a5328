package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"tradepost/pkg/logger"
)

// Client frame types. A client selects the message feed it wants with
// explicit subscribe/unsubscribe frames; the thread feed for its own
// user id is attached for the whole connection lifetime.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
)

type clientFrame struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id"`
}

// Client represents one WebSocket connection bound to an identity.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// Authorize gates message-feed subscriptions; nil allows all.
	Authorize func(ctx context.Context, userID, threadID string) error

	hub        *Hub
	mutex      sync.Mutex
	threadSub  *Subscription
	messageSub *Subscription
	forwarders sync.WaitGroup
}

func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		hub:    hub,
	}
}

// Start attaches the connection-lifetime thread feed and runs both
// pumps. It returns immediately.
func (c *Client) Start() {
	c.threadSub = c.hub.Subscribe(ThreadFeed(c.UserID))
	c.forwarders.Add(1)
	go c.forward(c.threadSub)

	go c.WritePump()
	go c.ReadPump()
}

// ReadPump consumes subscribe/unsubscribe frames until the connection
// drops, then tears everything down.
func (c *Client) ReadPump() {
	defer func() {
		c.teardown()
		c.Conn.Close()
	}()

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("WebSocket read error for user %s: %v", c.UserID, err)
			}
			break
		}

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			logger.Debug("Ignoring malformed frame from user %s: %v", c.UserID, err)
			continue
		}

		switch frame.Type {
		case FrameSubscribe:
			c.subscribeMessages(frame.ThreadID)
		case FrameUnsubscribe:
			c.unsubscribeMessages()
		default:
			logger.Debug("Ignoring unknown frame type %q from user %s", frame.Type, c.UserID)
		}
	}
}

// WritePump flushes outbound events until Send is closed.
func (c *Client) WritePump() {
	defer c.Conn.Close()

	for {
		message, ok := <-c.Send
		if !ok {
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}

		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			logger.Debug("WebSocket write error for user %s: %v", c.UserID, err)
			return
		}
	}
}

// subscribeMessages switches the selected-thread message feed. The
// previous feed, if any, is always cancelled before the new one is
// attached.
func (c *Client) subscribeMessages(threadID string) {
	if threadID == "" {
		return
	}

	if c.Authorize != nil {
		if err := c.Authorize(context.Background(), c.UserID, threadID); err != nil {
			logger.Warn("User %s denied subscription to thread %s: %v", c.UserID, threadID, err)
			return
		}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.messageSub != nil {
		c.messageSub.Cancel()
	}
	c.messageSub = c.hub.Subscribe(MessageFeed(threadID))
	c.forwarders.Add(1)
	go c.forward(c.messageSub)
}

func (c *Client) unsubscribeMessages() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.messageSub != nil {
		c.messageSub.Cancel()
		c.messageSub = nil
	}
}

func (c *Client) forward(sub *Subscription) {
	defer c.forwarders.Done()

	for {
		select {
		case event := <-sub.C:
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error("Failed to marshal %s event: %v", event.Type, err)
				continue
			}
			select {
			case c.Send <- data:
			default:
				logger.Warn("Dropping %s event for user %s: send buffer full", event.Type, c.UserID)
			}
		case <-sub.Done():
			return
		}
	}
}

func (c *Client) teardown() {
	c.mutex.Lock()
	if c.messageSub != nil {
		c.messageSub.Cancel()
		c.messageSub = nil
	}
	c.mutex.Unlock()

	if c.threadSub != nil {
		c.threadSub.Cancel()
	}

	c.forwarders.Wait()
	close(c.Send)
}
