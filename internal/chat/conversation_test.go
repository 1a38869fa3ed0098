package chat

import (
	"testing"
	"time"

	"github.com/sam4007/studylink-backend/internal/models"
)

func msg(id, sender, receiver string, at time.Time, status models.MessageStatus) models.Message {
	return models.Message{
		ID:             id,
		ConversationID: ConversationID(sender, receiver),
		SenderID:       sender,
		ReceiverID:     receiver,
		Body:           "body-" + id,
		CreatedAt:      at,
		Status:         status,
	}
}

func user(id, name string) models.User {
	return models.User{ID: id, DisplayName: name}
}

func TestConversationIDSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"u-1", "u-2"},
		{"zz", "aa"},
	}
	for _, p := range pairs {
		if got, want := ConversationID(p[0], p[1]), ConversationID(p[1], p[0]); got != want {
			t.Errorf("ConversationID(%q,%q) = %q, reversed = %q", p[0], p[1], got, want)
		}
	}

	if got := ConversationID("alice", "bob"); got != "alice_bob" {
		t.Errorf("ConversationID(alice,bob) = %q, want alice_bob", got)
	}
}

func TestAggregateKeepsLatestPerConversation(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	friends := []models.User{user("bob", "Bob"), user("carol", "Carol")}
	messages := []models.Message{
		msg("m1", "alice", "bob", base, models.StatusSeen),
		msg("m2", "bob", "alice", base.Add(2*time.Hour), models.StatusSent),
		msg("m3", "alice", "carol", base.Add(1*time.Hour), models.StatusSent),
	}

	conversations := AggregateConversations("alice", friends, messages)
	if len(conversations) != 2 {
		t.Fatalf("got %d conversations, want 2", len(conversations))
	}

	// Newest first: bob's reply at base+2h precedes the carol thread.
	if conversations[0].FriendID != "bob" {
		t.Errorf("first conversation friend = %q, want bob", conversations[0].FriendID)
	}
	if conversations[0].Latest.ID != "m2" {
		t.Errorf("latest message for bob = %q, want m2", conversations[0].Latest.ID)
	}
	if conversations[1].FriendID != "carol" {
		t.Errorf("second conversation friend = %q, want carol", conversations[1].FriendID)
	}
}

func TestAggregateUnreadFlag(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	friends := []models.User{user("bob", "Bob")}

	// Latest message inbound and unseen: unread.
	conversations := AggregateConversations("alice", friends, []models.Message{
		msg("m1", "bob", "alice", base, models.StatusSent),
		msg("m2", "bob", "alice", base.Add(time.Minute), models.StatusSent),
	})
	if len(conversations) != 1 {
		t.Fatalf("got %d conversations, want 1", len(conversations))
	}
	if !conversations[0].Unread {
		t.Error("conversation with unseen inbound latest should be unread")
	}
	if conversations[0].UnreadCount != 2 {
		t.Errorf("unread count = %d, want 2", conversations[0].UnreadCount)
	}

	// Latest message inbound but already seen: read.
	conversations = AggregateConversations("alice", friends, []models.Message{
		msg("m1", "bob", "alice", base, models.StatusSeen),
	})
	if conversations[0].Unread {
		t.Error("conversation with seen latest should not be unread")
	}

	// Latest message outbound: read regardless of status.
	conversations = AggregateConversations("alice", friends, []models.Message{
		msg("m1", "alice", "bob", base, models.StatusSent),
	})
	if conversations[0].Unread {
		t.Error("conversation whose latest is own message should not be unread")
	}
}

func TestAggregateDropsUnfriendedConversations(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	// Bob was unfriended; the messages still exist but the conversation
	// must disappear from the list.
	friends := []models.User{user("carol", "Carol")}
	messages := []models.Message{
		msg("m1", "bob", "alice", base, models.StatusSent),
		msg("m2", "alice", "carol", base.Add(time.Minute), models.StatusSent),
	}

	conversations := AggregateConversations("alice", friends, messages)
	if len(conversations) != 1 {
		t.Fatalf("got %d conversations, want 1", len(conversations))
	}
	if conversations[0].FriendID != "carol" {
		t.Errorf("remaining conversation friend = %q, want carol", conversations[0].FriendID)
	}
}

func TestAggregateIgnoresForeignMessages(t *testing.T) {
	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	friends := []models.User{user("bob", "Bob")}
	messages := []models.Message{
		msg("m1", "bob", "carol", base, models.StatusSent),
	}

	if got := AggregateConversations("alice", friends, messages); len(got) != 0 {
		t.Fatalf("got %d conversations for uninvolved user, want 0", len(got))
	}
}

func TestOtherParticipant(t *testing.T) {
	m := msg("m1", "alice", "bob", time.Now(), models.StatusSent)
	if got := OtherParticipant("alice", m); got != "bob" {
		t.Errorf("OtherParticipant(alice) = %q, want bob", got)
	}
	if got := OtherParticipant("bob", m); got != "alice" {
		t.Errorf("OtherParticipant(bob) = %q, want alice", got)
	}
}
