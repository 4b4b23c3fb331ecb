package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Database handles all catalog storage operations.
type Database struct {
	db *sql.DB
}

// NewDatabase creates and initializes the SQLite catalog database.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS publishers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS authors (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		biography TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS genres (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS topics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS series (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		total_books INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS books (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		isbn TEXT NOT NULL DEFAULT '',
		publication_year INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		language TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		reading_status TEXT NOT NULL DEFAULT 'unread',
		current_page INTEGER NOT NULL DEFAULT 0,
		rating INTEGER,
		notes TEXT NOT NULL DEFAULT '',
		publisher_id TEXT NOT NULL,
		series_id TEXT,
		series_position INTEGER NOT NULL DEFAULT 0,
		category_id TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (publisher_id) REFERENCES publishers(id),
		FOREIGN KEY (series_id) REFERENCES series(id),
		FOREIGN KEY (category_id) REFERENCES categories(id)
	);

	CREATE TABLE IF NOT EXISTS book_authors (
		book_id TEXT NOT NULL,
		author_id TEXT NOT NULL,
		PRIMARY KEY (book_id, author_id),
		FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE,
		FOREIGN KEY (author_id) REFERENCES authors(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS book_genres (
		book_id TEXT NOT NULL,
		genre_id TEXT NOT NULL,
		PRIMARY KEY (book_id, genre_id),
		FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE,
		FOREIGN KEY (genre_id) REFERENCES genres(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_books_status ON books(reading_status);
	CREATE INDEX IF NOT EXISTS idx_books_publisher ON books(publisher_id);
	CREATE INDEX IF NOT EXISTS idx_book_authors_author ON book_authors(author_id);
	CREATE INDEX IF NOT EXISTS idx_book_genres_genre ON book_genres(genre_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// querier covers both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// rowExists reports whether table holds a row with the given id. The table
// name is always a compile-time constant, never caller input.
func rowExists(q querier, table, id string) (bool, error) {
	var count int
	err := q.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// nullable maps an empty string to NULL for optional foreign keys.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
