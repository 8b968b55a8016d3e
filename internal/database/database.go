package database

import (
	"database/sql"

	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	// SQLite allows a single writer; serializing through one connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		mobile TEXT,
		email TEXT NOT NULL UNIQUE,
		avatar_id TEXT,
		password_hash TEXT NOT NULL,
		email_verified INTEGER NOT NULL DEFAULT 0,
		verify_token TEXT,
		token_issued_at DATETIME,
		session_token TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS capitals (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
		balance REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		category TEXT,
		date DATETIME NOT NULL,
		price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		description TEXT,
		total REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, date);

	CREATE TABLE IF NOT EXISTS avatars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		image_url TEXT NOT NULL
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return err
	}
	return seedAvatars(db)
}

// seedAvatars populates the read-only avatar catalog on first run.
func seedAvatars(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM avatars").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	avatars := []struct{ id, name, url string }{
		{"av-01", "Fox", "/avatars/fox.png"},
		{"av-02", "Owl", "/avatars/owl.png"},
		{"av-03", "Panda", "/avatars/panda.png"},
		{"av-04", "Tiger", "/avatars/tiger.png"},
		{"av-05", "Koala", "/avatars/koala.png"},
		{"av-06", "Penguin", "/avatars/penguin.png"},
	}

	stmt, err := db.Prepare("INSERT INTO avatars (id, name, image_url) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range avatars {
		if _, err := stmt.Exec(a.id, a.name, a.url); err != nil {
			return err
		}
	}
	return nil
}
