package storage

import "time"

// TimeLayout is the format of every timestamp column. Timestamps are
// stored as TEXT assigned in Go so both drivers read back identically.
const TimeLayout = time.RFC3339

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		photo_profil TEXT,
		en_ligne INTEGER NOT NULL DEFAULT 0,
		derniere_connexion TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id INTEGER PRIMARY KEY AUTOINCREMENT
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		conversation_id INTEGER NOT NULL REFERENCES conversations(id),
		user_id INTEGER NOT NULL REFERENCES users(id),
		PRIMARY KEY (conversation_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		conversation_id INTEGER NOT NULL REFERENCES conversations(id),
		fromuser INTEGER NOT NULL REFERENCES users(id),
		touser INTEGER NOT NULL REFERENCES users(id),
		contenu TEXT NOT NULL,
		date_envoi TEXT NOT NULL,
		lu INTEGER NOT NULL DEFAULT 0
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		photo_profil TEXT,
		en_ligne INTEGER NOT NULL DEFAULT 0,
		derniere_connexion TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS conversations (
		id BIGSERIAL PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		conversation_id BIGINT NOT NULL REFERENCES conversations(id),
		user_id BIGINT NOT NULL REFERENCES users(id),
		PRIMARY KEY (conversation_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		conversation_id BIGINT NOT NULL REFERENCES conversations(id),
		fromuser BIGINT NOT NULL REFERENCES users(id),
		touser BIGINT NOT NULL REFERENCES users(id),
		contenu TEXT NOT NULL,
		date_envoi TEXT NOT NULL,
		lu INTEGER NOT NULL DEFAULT 0
	)`,
}

func (d *DB) Migrate() error {
	stmts := sqliteSchema
	if d.driver == "postgres" {
		stmts = postgresSchema
	}
	for _, stmt := range stmts {
		if _, err := d.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
