package services

import (
	"testing"
	"time"
)

func TestHubPublishReachesAllSubscriptions(t *testing.T) {
	hub := NewHub()

	phone := hub.Subscribe("alice")
	laptop := hub.Subscribe("alice")
	defer phone.Cancel()
	defer laptop.Cancel()

	hub.Publish("alice", Event{Type: EventMessage, Conversation: "alice_bob"})

	for _, sub := range []*Subscription{phone, laptop} {
		select {
		case event := <-sub.C:
			if event.Type != EventMessage || event.Conversation != "alice_bob" {
				t.Errorf("got event %+v", event)
			}
		case <-time.After(time.Second):
			t.Fatal("subscription did not receive event")
		}
	}
}

func TestHubPublishToOtherUserOnly(t *testing.T) {
	hub := NewHub()

	alice := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")
	defer alice.Cancel()
	defer bob.Cancel()

	hub.Publish("bob", Event{Type: EventMessagesSeen, SeenCount: 3})

	select {
	case event := <-bob.C:
		if event.SeenCount != 3 {
			t.Errorf("seen count = %d, want 3", event.SeenCount)
		}
	case <-time.After(time.Second):
		t.Fatal("bob did not receive event")
	}

	select {
	case event := <-alice.C:
		t.Fatalf("alice received %+v", event)
	default:
	}
}

func TestHubCancelClosesFeed(t *testing.T) {
	hub := NewHub()

	sub := hub.Subscribe("alice")
	if !hub.IsOnline("alice") {
		t.Fatal("alice should be online after subscribe")
	}

	sub.Cancel()
	if hub.IsOnline("alice") {
		t.Fatal("alice should be offline after cancel")
	}

	if _, open := <-sub.C; open {
		t.Error("channel still open after cancel")
	}

	// Cancel is safe to call again, and publish after cancel must not
	// panic or block.
	sub.Cancel()
	hub.Publish("alice", Event{Type: EventMessage})
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe("alice")
	defer sub.Cancel()

	// Nobody drains: the buffer fills, further publishes are dropped
	// instead of blocking.
	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*2; i++ {
			hub.Publish("alice", Event{Type: EventMessage})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestHubPublishToAll(t *testing.T) {
	hub := NewHub()
	alice := hub.Subscribe("alice")
	bob := hub.Subscribe("bob")
	defer alice.Cancel()
	defer bob.Cancel()

	online := true
	hub.PublishToAll([]string{"alice", "bob"}, Event{Type: EventFriendStatus, Online: &online})

	for name, sub := range map[string]*Subscription{"alice": alice, "bob": bob} {
		select {
		case event := <-sub.C:
			if event.Online == nil || !*event.Online {
				t.Errorf("%s got event %+v", name, event)
			}
		case <-time.After(time.Second):
			t.Fatalf("%s did not receive event", name)
		}
	}
}
