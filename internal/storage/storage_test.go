package storage

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRebind(t *testing.T) {
	sq := &DB{driver: "sqlite"}
	pg := &DB{driver: "postgres"}

	q := `INSERT INTO messages (a, b, c) VALUES (?, ?, ?)`
	if got := sq.Rebind(q); got != q {
		t.Fatalf("sqlite rebind changed the query: %s", got)
	}
	want := `INSERT INTO messages (a, b, c) VALUES ($1, $2, $3)`
	if got := pg.Rebind(q); got != want {
		t.Fatalf("postgres rebind = %s, want %s", got, want)
	}
}

func TestMigrateAndSeed(t *testing.T) {
	db := openTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	// migration must be re-runnable
	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	if err := db.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	var users, convos, parts int
	if err := db.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&users); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM conversations`).Scan(&convos); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM participants`).Scan(&parts); err != nil {
		t.Fatal(err)
	}
	if users != 2 || convos != 1 || parts != 2 {
		t.Fatalf("seed produced users=%d convos=%d participants=%d", users, convos, parts)
	}

	// a second seed must not duplicate the demo data
	if err := db.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	if err := db.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&users); err != nil {
		t.Fatal(err)
	}
	if users != 2 {
		t.Fatalf("second seed duplicated users: %d", users)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
