package session

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "user.json")
	return NewStore(path), path
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, _ := tempStore(t)

	if err := st.Save(Session{UserID: 7, Timestamp: 1700000000000}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, ok := st.Load()
	if !ok {
		t.Fatal("expected a session")
	}
	if got.UserID != 7 || got.Timestamp != 1700000000000 {
		t.Fatalf("got %+v", got)
	}
}

func TestMissingFileMeansNotLoggedIn(t *testing.T) {
	st, _ := tempStore(t)
	if _, ok := st.Load(); ok {
		t.Fatal("no file should mean no session")
	}
}

func TestCorruptFileIsEvicted(t *testing.T) {
	st, path := tempStore(t)
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, ok := st.Load(); ok {
		t.Fatal("corrupt file must read as not logged in")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("corrupt file was not evicted")
	}
}

func TestZeroUserIDIsEvicted(t *testing.T) {
	st, path := tempStore(t)
	if err := os.WriteFile(path, []byte(`{"id": 0, "timestamp": 1}`), 0600); err != nil {
		t.Fatal(err)
	}

	if _, ok := st.Load(); ok {
		t.Fatal("session without a user id must not count as logged in")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("stale entry was not evicted")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	st, _ := tempStore(t)
	if err := st.Save(Session{UserID: 1, Timestamp: 2}); err != nil {
		t.Fatal(err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := st.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}
