package storage

import (
	"database/sql"
	"errors"
	"slices"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage is a SQLite storage backend.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage creates a new SQLite storage backend.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	s := &SQLiteStorage{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// init creates the necessary tables.
func (s *SQLiteStorage) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS layouts (
			name TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			data BLOB NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	return err
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func sqliteStore(db execer, l *LayoutData) error {
	if err := prepare(l); err != nil {
		return err
	}
	_, err := db.Exec(`
		INSERT OR REPLACE INTO layouts (name, format, data, updated_at)
		VALUES (?, ?, ?, ?)
	`, l.Name, l.Format, l.Data, l.UpdatedAt.UnixNano())
	return err
}

// Store persists a layout to SQLite.
func (s *SQLiteStorage) Store(l *LayoutData) error {
	return sqliteStore(s.db, l)
}

// Load retrieves a layout from SQLite.
func (s *SQLiteStorage) Load(name string) (*LayoutData, error) {
	l := &LayoutData{Name: name}
	var updated int64

	err := s.db.QueryRow(`
		SELECT format, data, updated_at
		FROM layouts WHERE name = ?
	`, name).Scan(&l.Format, &l.Data, &updated)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, err
	}
	l.UpdatedAt = time.Unix(0, updated).UTC()
	return l, nil
}

// Delete removes a layout from SQLite.
func (s *SQLiteStorage) Delete(name string) error {
	_, err := s.db.Exec("DELETE FROM layouts WHERE name = ?", name)
	return err
}

// List returns the stored names, sorted.
func (s *SQLiteStorage) List() ([]string, error) {
	return queryNames(s.db, "SELECT name FROM layouts ORDER BY name")
}

// Exists checks if a layout exists.
func (s *SQLiteStorage) Exists(name string) bool {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM layouts WHERE name = ?", name).Scan(&count)
	return err == nil && count > 0
}

// Clear removes all data.
func (s *SQLiteStorage) Clear() error {
	_, err := s.db.Exec("DELETE FROM layouts")
	return err
}

// BeginTransaction starts an atomic operation.
func (s *SQLiteStorage) BeginTransaction() (Transaction, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &sqlTransaction{
		tx:     tx,
		store:  sqliteStore,
		delete: "DELETE FROM layouts WHERE name = ?",
	}, nil
}

// Close closes the storage backend.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func queryNames(db *sql.DB, query string) ([]string, error) {
	rows, err := db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, rows.Err()
}

// sqlTransaction implements Transaction over a database/sql transaction.
type sqlTransaction struct {
	tx     *sql.Tx
	store  func(execer, *LayoutData) error
	delete string
}

// Store persists a layout within the transaction.
func (t *sqlTransaction) Store(l *LayoutData) error {
	return t.store(t.tx, l)
}

// Delete removes a layout within the transaction.
func (t *sqlTransaction) Delete(name string) error {
	_, err := t.tx.Exec(t.delete, name)
	return err
}

// Commit completes the transaction.
func (t *sqlTransaction) Commit() error {
	return t.tx.Commit()
}

// Rollback cancels the transaction.
func (t *sqlTransaction) Rollback() error {
	return t.tx.Rollback()
}
