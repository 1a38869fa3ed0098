package chat

import (
	"fmt"
	"sort"
	"time"

	"github.com/sam4007/studylink-backend/internal/models"
)

// ThreadEntryKind discriminates the two kinds of rows in a rendered thread.
type ThreadEntryKind string

const (
	EntrySeparator ThreadEntryKind = "separator"
	EntryMessage   ThreadEntryKind = "message"
)

// ThreadEntry is one row of a rendered conversation: either a day
// separator or a message bubble with its display labels.
type ThreadEntry struct {
	Kind        ThreadEntryKind `json:"kind"`
	Label       string          `json:"label,omitempty"`
	Message     *models.Message `json:"message,omitempty"`
	TimeLabel   string          `json:"time_label,omitempty"`
	StatusLabel string          `json:"status_label,omitempty"`
	Mine        bool            `json:"mine,omitempty"`
}

// BuildThread orders messages ascending by timestamp and interleaves day
// separators. Messages arrive from the store filtered by conversation ID
// only, so ordering happens here; ties and zero timestamps keep their
// incoming relative order. Status labels appear only on selfID's own
// messages.
func BuildThread(selfID string, messages []models.Message, now time.Time, loc *time.Location) []ThreadEntry {
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]models.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	entries := make([]ThreadEntry, 0, len(sorted)*2)
	var prevDay string
	for i := range sorted {
		m := sorted[i]
		day := m.CreatedAt.In(loc).Format("2006-01-02")
		if day != prevDay {
			entries = append(entries, ThreadEntry{
				Kind:  EntrySeparator,
				Label: DayLabel(m.CreatedAt, now, loc),
			})
			prevDay = day
		}

		mine := m.SenderID == selfID
		entry := ThreadEntry{
			Kind:      EntryMessage,
			Message:   &sorted[i],
			TimeLabel: RelativeTime(m.CreatedAt, now),
			Mine:      mine,
		}
		if mine {
			if m.Status == models.StatusSeen {
				entry.StatusLabel = "Seen"
			} else {
				entry.StatusLabel = "Sent"
			}
		}
		entries = append(entries, entry)
	}

	return entries
}

// DayLabel renders a separator label for the calendar day of t: "Today",
// "Yesterday", or the full date.
func DayLabel(t, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, now = t.In(loc), now.In(loc)

	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}
	yy, ym, yd := now.AddDate(0, 0, -1).Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}
	return t.Format("January 2, 2006")
}

// RelativeTime renders a short human-relative timestamp. A zero time
// (missing or unparseable on ingest) renders empty rather than erroring.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 48*time.Hour:
		return "Yesterday"
	default:
		return t.Format("Jan 2")
	}
}

// UnseenInbound returns the IDs of messages still awaiting selfID's read
// receipt: receiver is selfID and status is sent. The read reconciler
// flips exactly this set in one batch; an empty result means no write.
func UnseenInbound(selfID string, messages []models.Message) []string {
	var ids []string
	for _, m := range messages {
		if m.ReceiverID == selfID && m.Status == models.StatusSent {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
