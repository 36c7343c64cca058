// Package storage opens and migrates the stub backend's database. Queries
// elsewhere are written with ? placeholders; Rebind translates them for
// postgres so both drivers run the same SQL.
package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
	driver string
}

func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case "sqlite":
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, err
		}
		if _, err = db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			return nil, err
		}

		// Single connection for SQLite
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		// Enable WAL for better concurrency
		_, _ = db.Exec(`PRAGMA journal_mode=WAL;`)

		// Wait up to 5s if locked
		_, _ = db.Exec(`PRAGMA busy_timeout = 5000;`)

		return &DB{DB: db, driver: driver}, nil

	case "postgres":
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(); err != nil {
			return nil, err
		}
		return &DB{DB: db, driver: driver}, nil

	default:
		return nil, fmt.Errorf("unknown db driver %q", driver)
	}
}

// Rebind rewrites ? placeholders into the $n form postgres expects. It is
// the identity for sqlite.
func (d *DB) Rebind(q string) string {
	if d.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$")
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
