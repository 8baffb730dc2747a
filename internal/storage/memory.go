package storage

import (
	"maps"
	"slices"
	"sync"
)

// MemoryStorage is an in-memory storage backend.
type MemoryStorage struct {
	layouts map[string]*LayoutData
	mu      sync.RWMutex
}

// NewMemoryStorage creates a new in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		layouts: make(map[string]*LayoutData),
	}
}

// Store persists a layout to memory.
func (m *MemoryStorage) Store(l *LayoutData) error {
	if err := prepare(l); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts[l.Name] = l.clone()
	return nil
}

// Load retrieves a copy of a layout.
func (m *MemoryStorage) Load(name string) (*LayoutData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.layouts[name]
	if !ok {
		return nil, notFound(name)
	}
	return l.clone(), nil
}

// Delete removes a layout from memory.
func (m *MemoryStorage) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.layouts, name)
	return nil
}

// List returns the stored names, sorted.
func (m *MemoryStorage) List() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.layouts)), nil
}

// Exists checks if a layout exists.
func (m *MemoryStorage) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.layouts[name]
	return ok
}

// Clear removes all data.
func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layouts = make(map[string]*LayoutData)
	return nil
}

// BeginTransaction starts an atomic operation.
func (m *MemoryStorage) BeginTransaction() (Transaction, error) {
	return &queuedTransaction{backend: m}, nil
}

// Close closes the storage backend.
func (m *MemoryStorage) Close() error {
	return nil
}

// Count returns the number of stored layouts.
func (m *MemoryStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.layouts)
}
