package services

import (
	"sync"

	"github.com/sam4007/studylink-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Event is a push notification delivered to a subscribed client.
type Event struct {
	Type         string          `json:"type"`
	FriendID     string          `json:"friend_id,omitempty"`
	Conversation string          `json:"conversation_id,omitempty"`
	Message      *models.Message `json:"message,omitempty"`
	SeenCount    int             `json:"seen_count,omitempty"`
	Online       *bool           `json:"online,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// Event types pushed over the socket.
const (
	EventMessage      = "message"
	EventMessagesSeen = "messages_seen"
	EventFriendStatus = "friend_status"
	EventFriendAdded  = "friend_added"
	EventFriendGone   = "friend_removed"
	EventError        = "error"
)

// subscriberBuffer is the per-subscription event queue depth. A
// subscriber that falls this far behind is dropped rather than allowed
// to block every other delivery.
const subscriberBuffer = 32

// Subscription is one client's event feed. Cancel must be called on
// teardown; it is safe to call more than once.
type Subscription struct {
	C      <-chan Event
	ch     chan Event
	userID string
	hub    *Hub
	once   sync.Once
}

// Cancel detaches the subscription from the hub and closes C.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub fans events out to subscribed users. A user may hold several
// subscriptions (one per open device).
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[*Subscription]struct{}
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*Subscription]struct{})}
}

// Subscribe attaches a new event feed for a user. The returned
// subscription's Cancel is the release half of the contract: every
// caller stores it and invokes it on disconnect.
func (h *Hub) Subscribe(userID string) *Subscription {
	sub := &Subscription{userID: userID, hub: h}
	sub.ch = make(chan Event, subscriberBuffer)
	sub.C = sub.ch

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[*Subscription]struct{})
	}
	h.subs[userID][sub] = struct{}{}
	h.mu.Unlock()

	log.Debug().Str("user_id", userID).Msg("Subscription registered")
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if set, ok := h.subs[sub.userID]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.userID)
		}
	}
	h.mu.Unlock()
	close(sub.ch)

	log.Debug().Str("user_id", sub.userID).Msg("Subscription cancelled")
}

// Publish delivers an event to every subscription of a user. Slow
// subscribers are skipped; a redundant or missed delivery is harmless
// because clients re-derive state from a full fetch on each event.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[userID] {
		select {
		case sub.ch <- event:
		default:
			log.Warn().Str("user_id", userID).Str("type", event.Type).
				Msg("Subscriber queue full, event dropped")
		}
	}
}

// PublishToAll delivers an event to every listed user.
func (h *Hub) PublishToAll(userIDs []string, event Event) {
	for _, id := range userIDs {
		h.Publish(id, event)
	}
}

// IsOnline reports whether a user has at least one live subscription.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID]) > 0
}
