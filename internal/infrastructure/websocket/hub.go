package websocket

import (
	"sync"

	"tradepost/pkg/logger"
)

// Subscription is a consumer-owned handle on one feed. The consumer
// reads events from C and must call Cancel when done; after Cancel no
// further events are delivered.
type Subscription struct {
	feed Feed
	hub  *Hub

	C    chan Event
	done chan struct{}
	once sync.Once
}

func (s *Subscription) Feed() Feed {
	return s.feed
}

// Done is closed when the subscription has been cancelled.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.done)
	})
}

// Hub fans row-level change events out to feed subscribers.
type Hub struct {
	mutex sync.RWMutex
	feeds map[Feed]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{
		feeds: make(map[Feed]map[*Subscription]struct{}),
	}
}

func (h *Hub) Subscribe(feed Feed) *Subscription {
	sub := &Subscription{
		feed: feed,
		hub:  h,
		C:    make(chan Event, 256),
		done: make(chan struct{}),
	}

	h.mutex.Lock()
	subs, ok := h.feeds[feed]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.feeds[feed] = subs
	}
	subs[sub] = struct{}{}
	h.mutex.Unlock()

	return sub
}

// Publish delivers the event to every current subscriber of its feed.
// Delivery per subscriber preserves arrival order; a subscriber whose
// buffer is full misses the event.
func (h *Hub) Publish(event Event) {
	h.mutex.RLock()
	subs := make([]*Subscription, 0, len(h.feeds[event.Feed]))
	for sub := range h.feeds[event.Feed] {
		subs = append(subs, sub)
	}
	h.mutex.RUnlock()

	for _, sub := range subs {
		select {
		case sub.C <- event:
		default:
			logger.Warn("Dropping %s event for slow subscriber on feed %s/%s", event.Type, event.Feed.Table, event.Feed.Filter)
		}
	}
}

// SubscriberCount reports how many subscriptions a feed currently has.
func (h *Hub) SubscriberCount(feed Feed) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.feeds[feed])
}

func (h *Hub) remove(sub *Subscription) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	subs, ok := h.feeds[sub.feed]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.feeds, sub.feed)
	}
}
