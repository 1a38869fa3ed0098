package chat

import (
	"testing"
	"time"

	"github.com/sam4007/studylink-backend/internal/models"
)

func TestBuildThreadOrdersAndSeparates(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, loc)
	dayBefore := now.AddDate(0, 0, -1)

	// Deliberately out of order: the store returns them unsorted.
	messages := []models.Message{
		msg("m3", "bob", "alice", now.Add(-time.Hour), models.StatusSent),
		msg("m1", "alice", "bob", dayBefore.Add(-2*time.Hour), models.StatusSeen),
		msg("m2", "alice", "bob", dayBefore, models.StatusSeen),
	}

	entries := BuildThread("alice", messages, now, loc)

	// Two days of messages: separator, m1, m2, separator, m3.
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}
	if entries[0].Kind != EntrySeparator || entries[0].Label != "Yesterday" {
		t.Errorf("entry 0 = %q/%q, want separator Yesterday", entries[0].Kind, entries[0].Label)
	}
	if entries[1].Message.ID != "m1" || entries[2].Message.ID != "m2" {
		t.Errorf("day one messages = %q, %q, want m1, m2", entries[1].Message.ID, entries[2].Message.ID)
	}
	if entries[3].Kind != EntrySeparator || entries[3].Label != "Today" {
		t.Errorf("entry 3 = %q/%q, want separator Today", entries[3].Kind, entries[3].Label)
	}
	if entries[4].Message.ID != "m3" {
		t.Errorf("day two message = %q, want m3", entries[4].Message.ID)
	}
}

func TestBuildThreadSeparatorPerDistinctDay(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 21, 23, 0, 0, 0, loc)

	var messages []models.Message
	days := []int{-5, -5, -5, -1, 0, 0}
	for i, d := range days {
		at := now.AddDate(0, 0, d).Add(time.Duration(i) * time.Minute)
		messages = append(messages, msg(string(rune('a'+i)), "bob", "alice", at, models.StatusSeen))
	}

	entries := BuildThread("alice", messages, now, loc)

	separators := 0
	lastWasSeparator := false
	for _, e := range entries {
		if e.Kind == EntrySeparator {
			if lastWasSeparator {
				t.Fatal("two consecutive separators")
			}
			separators++
			lastWasSeparator = true
		} else {
			lastWasSeparator = false
		}
	}
	if separators != 3 {
		t.Errorf("got %d separators, want 3 (one per distinct day)", separators)
	}
	if entries[0].Kind != EntrySeparator {
		t.Error("thread must start with a separator")
	}
}

func TestBuildThreadStatusLabels(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, loc)

	messages := []models.Message{
		msg("own-sent", "alice", "bob", now.Add(-3*time.Minute), models.StatusSent),
		msg("own-seen", "alice", "bob", now.Add(-2*time.Minute), models.StatusSeen),
		msg("theirs", "bob", "alice", now.Add(-time.Minute), models.StatusSent),
	}

	entries := BuildThread("alice", messages, now, loc)

	byID := map[string]ThreadEntry{}
	for _, e := range entries {
		if e.Kind == EntryMessage {
			byID[e.Message.ID] = e
		}
	}

	if got := byID["own-sent"].StatusLabel; got != "Sent" {
		t.Errorf("own sent message label = %q, want Sent", got)
	}
	if got := byID["own-seen"].StatusLabel; got != "Seen" {
		t.Errorf("own seen message label = %q, want Seen", got)
	}
	if got := byID["theirs"].StatusLabel; got != "" {
		t.Errorf("inbound message label = %q, want empty", got)
	}
	if !byID["own-sent"].Mine || byID["theirs"].Mine {
		t.Error("Mine flags wrong")
	}
}

func TestBuildThreadZeroTimestamp(t *testing.T) {
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)
	messages := []models.Message{
		{ID: "m1", SenderID: "bob", ReceiverID: "alice", Status: models.StatusSent},
	}

	entries := BuildThread("alice", messages, now, time.UTC)
	for _, e := range entries {
		if e.Kind == EntryMessage && e.TimeLabel != "" {
			t.Errorf("zero-timestamp message time label = %q, want empty", e.TimeLabel)
		}
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2026, 8, 21, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.AddDate(0, 0, -10), "Aug 11"},
	}
	for _, c := range cases {
		if got := RelativeTime(c.at, now); got != c.want {
			t.Errorf("RelativeTime(%v) = %q, want %q", c.at, got, c.want)
		}
	}
}

func TestDayLabel(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 8, 21, 1, 0, 0, 0, loc)

	if got := DayLabel(now.Add(-30*time.Minute), now, loc); got != "Today" {
		t.Errorf("DayLabel same day = %q, want Today", got)
	}
	if got := DayLabel(now.Add(-2*time.Hour), now, loc); got != "Yesterday" {
		t.Errorf("DayLabel across midnight = %q, want Yesterday", got)
	}
	if got := DayLabel(time.Date(2026, 1, 5, 0, 0, 0, 0, loc), now, loc); got != "January 5, 2026" {
		t.Errorf("DayLabel old date = %q, want January 5, 2026", got)
	}
}

func TestUnseenInbound(t *testing.T) {
	now := time.Now()
	messages := []models.Message{
		msg("in-sent", "bob", "alice", now, models.StatusSent),
		msg("in-seen", "bob", "alice", now, models.StatusSeen),
		msg("out-sent", "alice", "bob", now, models.StatusSent),
	}

	ids := UnseenInbound("alice", messages)
	if len(ids) != 1 || ids[0] != "in-sent" {
		t.Fatalf("UnseenInbound = %v, want [in-sent]", ids)
	}

	// Повторный прогон: after the flip to seen nothing qualifies.
	messages[0].Status = models.StatusSeen
	if ids := UnseenInbound("alice", messages); len(ids) != 0 {
		t.Fatalf("UnseenInbound after reconcile = %v, want empty", ids)
	}
}
