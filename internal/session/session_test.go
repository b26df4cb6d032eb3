package session

import (
	"path/filepath"
	"testing"

	"compdash/internal/model"
)

func TestStore_RoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "session.json"))

	// Nothing stored yet.
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess != nil {
		t.Fatal("expected nil session before first save")
	}

	want := &Session{
		Token: "tok-1",
		User:  model.User{ID: 1, Name: "Admin User", Email: "admin@superops.com", Role: "admin"},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Valid() {
		t.Fatal("stored session should be valid")
	}
	if got.Token != want.Token || got.User.Email != want.User.Email {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	sess, err = store.Load()
	if err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if sess != nil {
		t.Error("session should be gone after clear")
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestSessionValid(t *testing.T) {
	var nilSess *Session
	if nilSess.Valid() {
		t.Error("nil session must not be valid")
	}
	if (&Session{Token: "t"}).Valid() {
		t.Error("session without user must not be valid")
	}
	if (&Session{User: model.User{Email: "e"}}).Valid() {
		t.Error("session without token must not be valid")
	}
}
