package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// FileStorage keeps each layout in its own file, <dir>/<name>.<format>.
// The file's modification time is the layout's UpdatedAt.
type FileStorage struct {
	dir string
	mu  sync.Mutex
}

// NewFileStorage creates the directory if needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create layout directory: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Dir returns the layout directory.
func (f *FileStorage) Dir() string { return f.dir }

// find returns the path holding name, or "".
func (f *FileStorage) find(name string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(f.dir, escapeGlob(name)+".*"))
	if err != nil {
		return "", err
	}
	for _, m := range matches {
		if strings.TrimSuffix(filepath.Base(m), filepath.Ext(m)) == name {
			return m, nil
		}
	}
	return "", nil
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`)
	return r.Replace(s)
}

// Store writes the layout, replacing a file of any format with the same name.
// The data is written to a temporary file first and renamed into place.
func (f *FileStorage) Store(l *LayoutData) error {
	if err := prepare(l); err != nil {
		return err
	}
	if l.Format == "" || strings.ContainsAny(l.Format, `/\.`) {
		return fmt.Errorf("invalid layout format %q", l.Format)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	old, err := f.find(l.Name)
	if err != nil {
		return err
	}
	path := filepath.Join(f.dir, l.Name+"."+l.Format)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(l.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chtimes(path, l.UpdatedAt, l.UpdatedAt); err != nil {
		return fmt.Errorf("set time of layout %q: %w", l.Name, err)
	}
	if old != "" && old != path {
		os.Remove(old)
	}
	return nil
}

// Load reads a layout.
func (f *FileStorage) Load(name string) (*LayoutData, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.find(name)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, notFound(name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, err
	}
	l := &LayoutData{
		Name:   name,
		Format: strings.TrimPrefix(filepath.Ext(path), "."),
		Data:   data,
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt = info.ModTime().UTC()
	return l, nil
}

// Delete removes a layout file.
func (f *FileStorage) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	path, err := f.find(name)
	if err != nil || path == "" {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the stored names, sorted.
func (f *FileStorage) List() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".tmp-") || filepath.Ext(n) == "" {
			continue
		}
		names = append(names, strings.TrimSuffix(n, filepath.Ext(n)))
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Exists checks if a layout exists.
func (f *FileStorage) Exists(name string) bool {
	if ValidateName(name) != nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	path, err := f.find(name)
	return err == nil && path != ""
}

// Clear removes every layout file.
func (f *FileStorage) Clear() error {
	names, err := f.List()
	if err != nil {
		return err
	}
	for _, n := range names {
		if err := f.Delete(n); err != nil {
			return err
		}
	}
	return nil
}

// BeginTransaction starts an atomic operation.
func (f *FileStorage) BeginTransaction() (Transaction, error) {
	return &queuedTransaction{backend: f}, nil
}

// Close closes the storage backend.
func (f *FileStorage) Close() error {
	return nil
}
