package chat

import (
	"sort"

	"github.com/sam4007/studylink-backend/internal/models"
)

// ConversationID derives the identifier grouping all messages between two
// users. The two IDs are sorted before joining, so the result is the same
// whichever participant asks: ConversationID(a, b) == ConversationID(b, a).
func ConversationID(userID, otherID string) string {
	if userID > otherID {
		userID, otherID = otherID, userID
	}
	return userID + "_" + otherID
}

// Conversation is derived from the message set on every read. It is never
// stored; exactly one exists per unordered pair of users who have
// exchanged at least one message.
type Conversation struct {
	ID          string         `json:"id"`
	FriendID    string         `json:"friend_id"`
	FriendName  string         `json:"friend_name"`
	Latest      models.Message `json:"latest_message"`
	Unread      bool           `json:"unread"`
	UnreadCount int            `json:"unread_count"`
}

// AggregateConversations groups messages involving selfID into one
// conversation per partner, keeping the most recent message of each.
// Conversations whose other participant is not in friends are dropped:
// unfriending hides prior conversations from the list without deleting
// the underlying messages. The result is sorted newest-first.
func AggregateConversations(selfID string, friends []models.User, messages []models.Message) []Conversation {
	friendByID := make(map[string]models.User, len(friends))
	for _, f := range friends {
		friendByID[f.ID] = f
	}

	latest := make(map[string]models.Message)
	unread := make(map[string]int)
	for _, m := range messages {
		if m.SenderID != selfID && m.ReceiverID != selfID {
			continue
		}
		cur, ok := latest[m.ConversationID]
		if !ok || m.CreatedAt.After(cur.CreatedAt) {
			latest[m.ConversationID] = m
		}
		if m.ReceiverID == selfID && m.Status == models.StatusSent {
			unread[m.ConversationID]++
		}
	}

	conversations := make([]Conversation, 0, len(latest))
	for id, m := range latest {
		otherID := m.SenderID
		if otherID == selfID {
			otherID = m.ReceiverID
		}
		friend, ok := friendByID[otherID]
		if !ok {
			continue
		}
		conversations = append(conversations, Conversation{
			ID:          id,
			FriendID:    otherID,
			FriendName:  friend.DisplayName,
			Latest:      m,
			Unread:      m.SenderID != selfID && m.Status == models.StatusSent,
			UnreadCount: unread[id],
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		a, b := conversations[i].Latest, conversations[j].Latest
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return conversations[i].ID < conversations[j].ID
	})

	return conversations
}

// OtherParticipant resolves the partner ID from a message relative to selfID.
func OtherParticipant(selfID string, m models.Message) string {
	if m.SenderID == selfID {
		return m.ReceiverID
	}
	return m.SenderID
}
