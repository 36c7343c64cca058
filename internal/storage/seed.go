package storage

import (
	"time"

	"ghichat/internal/auth"
)

type demoUser struct {
	name     string
	email    string
	password string
}

var demoUsers = []demoUser{
	{"Amine", "amine@example.com", "secret123"},
	{"Ghita", "ghita@example.com", "secret123"},
}

// Seed provisions two demo accounts sharing one conversation so the stub
// is usable right after migration. A database that already has users is
// left alone.
func (d *DB) Seed() error {
	var n int
	if err := d.QueryRow(`SELECT COUNT(1) FROM users`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	now := time.Now().UTC().Format(TimeLayout)
	for _, u := range demoUsers {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		_, err = d.Exec(d.Rebind(
			`INSERT INTO users (name, email, password_hash, en_ligne, derniere_connexion) VALUES (?, ?, ?, 0, ?)`),
			u.name, u.email, hash, now)
		if err != nil {
			return err
		}
	}

	if _, err := d.Exec(`INSERT INTO conversations DEFAULT VALUES`); err != nil {
		return err
	}

	var cid int64
	if err := d.QueryRow(`SELECT MAX(id) FROM conversations`).Scan(&cid); err != nil {
		return err
	}

	rows, err := d.Query(`SELECT id FROM users ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	var uids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return err
		}
		uids = append(uids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, uid := range uids {
		_, err := d.Exec(d.Rebind(
			`INSERT INTO participants (conversation_id, user_id) VALUES (?, ?)`), cid, uid)
		if err != nil {
			return err
		}
	}
	return nil
}
