package wallpaper

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close test store: %v", err)
		}
	})

	return store
}

func TestPreferenceSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	pref := Preference{
		Background:    "data:image/jpeg;base64,AAAA",
		SentColor:     "#4f46e5",
		ReceivedColor: "#e5e7eb",
	}
	if err := store.Save("partner-1", pref, time.Now().UnixMilli()); err != nil {
		t.Fatalf("save preference: %v", err)
	}

	got, err := store.Get("partner-1")
	if err != nil {
		t.Fatalf("get preference: %v", err)
	}
	if got == nil {
		t.Fatal("preference missing after save")
	}
	if *got != pref {
		t.Errorf("got %+v, want %+v", *got, pref)
	}
}

func TestPreferenceOverwrittenWholesale(t *testing.T) {
	store := newTestStore(t)

	first := Preference{Background: "data:image/jpeg;base64,AAAA", SentColor: "#111111"}
	if err := store.Save("partner-1", first, 1); err != nil {
		t.Fatalf("save first: %v", err)
	}

	// The replacement has no background; the old one must not linger.
	second := Preference{SentColor: "#222222", ReceivedColor: "#333333"}
	if err := store.Save("partner-1", second, 2); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := store.Get("partner-1")
	if err != nil {
		t.Fatalf("get preference: %v", err)
	}
	if got.Background != "" {
		t.Errorf("background survived overwrite: %q", got.Background)
	}
	if *got != second {
		t.Errorf("got %+v, want %+v", *got, second)
	}
}

func TestPreferenceMissingAndDelete(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get("nobody")
	if err != nil {
		t.Fatalf("get missing preference: %v", err)
	}
	if got != nil {
		t.Errorf("missing preference = %+v, want nil", got)
	}

	if err := store.Save("partner-1", Preference{SentColor: "#111111"}, 1); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete("partner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = store.Get("partner-1")
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("preference survived delete: %+v", got)
	}

	// Deleting again is not an error.
	if err := store.Delete("partner-1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestPreferencesAreKeyedPerPartner(t *testing.T) {
	store := newTestStore(t)

	a := Preference{SentColor: "#aaaaaa"}
	b := Preference{SentColor: "#bbbbbb"}
	if err := store.Save("partner-a", a, 1); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := store.Save("partner-b", b, 1); err != nil {
		t.Fatalf("save b: %v", err)
	}

	gotA, err := store.Get("partner-a")
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	gotB, err := store.Get("partner-b")
	if err != nil {
		t.Fatalf("get b: %v", err)
	}
	if gotA.SentColor != "#aaaaaa" || gotB.SentColor != "#bbbbbb" {
		t.Errorf("preferences crossed partners: %+v, %+v", gotA, gotB)
	}
}

func TestEmptyPartnerIDRejected(t *testing.T) {
	store := newTestStore(t)

	if err := store.Save("", Preference{}, 1); err == nil {
		t.Error("save with empty partner_id should fail")
	}
	if _, err := store.Get(""); err == nil {
		t.Error("get with empty partner_id should fail")
	}
	if err := store.Delete(""); err == nil {
		t.Error("delete with empty partner_id should fail")
	}
}
