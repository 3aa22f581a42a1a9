package session

import (
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	st := State{
		Cookies:   []Cookie{{Name: SessionCookieName, Value: "v"}, {Name: "csrftoken", Value: "t"}},
		CSRFToken: "t",
	}
	if err := SaveState(path, st); err != nil {
		t.Fatalf("save state failed: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state failed: %v", err)
	}
	if len(loaded.Cookies) != 2 || loaded.Cookies[0] != st.Cookies[0] {
		t.Errorf("loaded cookies mismatch: %+v", loaded.Cookies)
	}
	if loaded.CSRFToken != "t" {
		t.Errorf("loaded csrf token = %q, want %q", loaded.CSRFToken, "t")
	}
	if loaded.SavedAt.IsZero() {
		t.Error("SavedAt not stamped on save")
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(st.Cookies) != 0 {
		t.Errorf("missing file should yield empty state, got %+v", st)
	}
}

func TestClearState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := SaveState(path, State{Cookies: []Cookie{{Name: "a", Value: "1"}}}); err != nil {
		t.Fatalf("save state failed: %v", err)
	}
	if err := ClearState(path); err != nil {
		t.Fatalf("clear state failed: %v", err)
	}
	// Clearing twice must not error.
	if err := ClearState(path); err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	st, err := LoadState(path)
	if err != nil || len(st.Cookies) != 0 {
		t.Errorf("state not empty after clear: %+v, %v", st, err)
	}
}
