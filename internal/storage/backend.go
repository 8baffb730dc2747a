// Package storage implements storage backends for saved layouts.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a named layout does not exist.
	ErrNotFound = errors.New("layout not found")

	// ErrInvalidName is returned for names that cannot be stored.
	ErrInvalidName = errors.New("invalid layout name")

	// ErrTxDone is returned when a finished transaction is used.
	ErrTxDone = errors.New("transaction already committed")
)

// LastLayout is the name under which the most recently saved layout is kept.
const LastLayout = "_last"

// LayoutData is a persisted layout.
type LayoutData struct {
	Name      string    `json:"name"`
	Format    string    `json:"format"` // codec name, "xml" or "json"
	Data      []byte    `json:"data"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (l *LayoutData) clone() *LayoutData {
	cp := *l
	cp.Data = append([]byte(nil), l.Data...)
	return &cp
}

// Backend defines the interface for storage backends.
type Backend interface {
	// Store persists a layout, replacing one with the same name.
	Store(l *LayoutData) error

	// Load retrieves a layout; ErrNotFound when there is none.
	Load(name string) (*LayoutData, error)

	// Delete removes a layout. Deleting a missing layout is not an error.
	Delete(name string) error

	// List returns the stored layout names, sorted.
	List() ([]string, error)

	// Exists checks if a layout exists.
	Exists(name string) bool

	// Clear removes all data.
	Clear() error

	// BeginTransaction starts an atomic operation.
	BeginTransaction() (Transaction, error)

	// Close closes the storage backend.
	Close() error
}

// Transaction represents an atomic storage operation.
type Transaction interface {
	// Store persists a layout within the transaction.
	Store(l *LayoutData) error

	// Delete removes a layout within the transaction.
	Delete(name string) error

	// Commit completes the transaction.
	Commit() error

	// Rollback cancels the transaction.
	Rollback() error
}

// ValidateName rejects names that are empty or could escape a directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// StoreLatest stores l under its name and as LastLayout, in one transaction.
func StoreLatest(b Backend, l *LayoutData) error {
	tx, err := b.BeginTransaction()
	if err != nil {
		return err
	}
	for _, name := range []string{l.Name, LastLayout} {
		c := l.clone()
		c.Name = name
		if err := tx.Store(c); err != nil {
			tx.Rollback()
			return fmt.Errorf("save layout %q: %w", l.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save layout %q: %w", l.Name, err)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func prepare(l *LayoutData) error {
	if err := ValidateName(l.Name); err != nil {
		return err
	}
	if l.UpdatedAt.IsZero() {
		l.UpdatedAt = time.Now().UTC()
	}
	return nil
}

// queuedTransaction buffers changes and applies them on Commit. Backends
// without native transactions use it.
type queuedTransaction struct {
	backend   Backend
	stores    []*LayoutData
	deletes   []string
	committed bool
}

// Store queues a layout to be stored.
func (tx *queuedTransaction) Store(l *LayoutData) error {
	if tx.committed {
		return ErrTxDone
	}
	if err := prepare(l); err != nil {
		return err
	}
	tx.stores = append(tx.stores, l.clone())
	return nil
}

// Delete queues a layout to be deleted.
func (tx *queuedTransaction) Delete(name string) error {
	if tx.committed {
		return ErrTxDone
	}
	tx.deletes = append(tx.deletes, name)
	return nil
}

// Commit applies all queued operations.
func (tx *queuedTransaction) Commit() error {
	if tx.committed {
		return ErrTxDone
	}
	tx.committed = true

	for _, l := range tx.stores {
		if err := tx.backend.Store(l); err != nil {
			return err
		}
	}
	for _, name := range tx.deletes {
		if err := tx.backend.Delete(name); err != nil {
			return err
		}
	}
	return nil
}

// Rollback discards all queued operations.
func (tx *queuedTransaction) Rollback() error {
	tx.committed = true
	tx.stores = nil
	tx.deletes = nil
	return nil
}
