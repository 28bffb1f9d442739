package library

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// Database stores the catalog in a SQLite file. The connection is opened on
// first use so that loading from a missing file leaves the disk untouched.
type Database struct {
	path string
	db   *sql.DB
}

// NewDatabase returns a SQLite-backed store for the file at dbPath.
func NewDatabase(dbPath string) *Database {
	return &Database{path: dbPath}
}

// Close closes the DB if it was opened.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

func (d *Database) open() error {
	if d.db != nil {
		return nil
	}

	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(d.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(d.path))
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return err
	}

	d.db = db
	return nil
}

// dsn builds a SQLite URI for path. Each path segment is escaped so that
// characters such as '?', '#' and '%' stay part of the file name.
func dsn(path string) string {
	segments := strings.Split(filepath.ToSlash(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return "file:" + strings.Join(segments, "/") + "?_busy_timeout=5000"
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return fmt.Errorf("create meta: %w", err)
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// position keeps insertion order; id is caller-assigned and may repeat.
	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS books (
            position INTEGER PRIMARY KEY,
            id INTEGER NOT NULL,
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            available BOOLEAN NOT NULL DEFAULT 1
        );`); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}

	return tx.Commit()
}

// isNotADatabase reports whether err means the file exists but holds no
// usable SQLite data.
func isNotADatabase(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrNotADB || sqliteErr.Code == sqlite3.ErrCorrupt
}

// discard removes the database file together with its WAL side files.
func (d *Database) discard() error {
	for _, file := range []string{d.path, d.path + "-wal", d.path + "-shm"} {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Save replaces every stored book with books in one transaction. A file that
// is not a SQLite database is replaced by a fresh one.
func (d *Database) Save(books []Book) error {
	err := d.open()
	if err != nil && isNotADatabase(err) {
		if err = d.discard(); err == nil {
			err = d.open()
		}
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSavingCatalogFailed, err)
	}

	if err := d.replaceBooks(books); err != nil {
		return fmt.Errorf("%w: %w", ErrSavingCatalogFailed, err)
	}
	return nil
}

func (d *Database) replaceBooks(books []Book) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM books`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO books(position,id,title,author,available) VALUES(?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, b := range books {
		if _, err := stmt.Exec(i, b.ID, b.Title, b.Author, b.Available); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load returns the stored books in insertion order. A missing file yields an
// empty catalog.
func (d *Database) Load() ([]Book, error) {
	if d.db == nil {
		if _, err := os.Stat(d.path); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
	}
	if err := d.open(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
	}

	rows, err := d.db.Query(`SELECT id,title,author,available FROM books ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Available); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadingCatalogFailed, err)
	}
	return books, nil
}
