// Package watch reports changes to layout files. Directories are watched
// rather than files so editors that replace a file on save are seen.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is used when New is given a non-positive delay.
const DefaultDebounce = 100 * time.Millisecond

// ErrStopped is returned by Add after Stop.
var ErrStopped = errors.New("watcher stopped")

// Watcher calls onChange once per burst of writes to a watched file.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange func(path string)
	log      *zap.Logger

	files       map[string]bool // absolute file path -> watched
	watchedDirs map[string]int  // dir path -> reference count
	mu          sync.Mutex

	// Debouncing
	pendingReloads map[string]time.Time
	debounceMu     sync.Mutex
	debounceDelay  time.Duration

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New returns a watcher; call Add for each file, then Start.
func New(debounce time.Duration, log *zap.Logger, onChange func(path string)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		watcher:        fw,
		onChange:       onChange,
		log:            log,
		files:          make(map[string]bool),
		watchedDirs:    make(map[string]int),
		pendingReloads: make(map[string]time.Time),
		debounceDelay:  debounce,
		done:           make(chan struct{}),
	}, nil
}

// Add watches path. The file need not exist yet, but its directory must.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	select {
	case <-w.done:
		return ErrStopped
	default:
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.watchedDirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.watchedDirs[dir]++
	w.files[abs] = true
	return nil
}

// Remove stops watching path.
func (w *Watcher) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.watchedDirs[dir]--
	if w.watchedDirs[dir] <= 0 {
		delete(w.watchedDirs, dir)
		return w.watcher.Remove(dir)
	}
	return nil
}

// Start begins delivering changes.
func (w *Watcher) Start() {
	w.wg.Add(2)
	go w.eventLoop()
	go w.debounceLoop()
}

// Stop stops the watcher and waits for pending callbacks to return.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// eventLoop processes file system events.
func (w *Watcher) eventLoop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	w.mu.Lock()
	watched := w.files[abs]
	w.mu.Unlock()
	if !watched {
		return
	}
	w.log.Debug("file event", zap.String("path", abs), zap.Stringer("op", event.Op))
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
		w.queueReload(abs)
	}
}

// queueReload queues a file for reload with debouncing.
func (w *Watcher) queueReload(path string) {
	w.debounceMu.Lock()
	w.pendingReloads[path] = time.Now()
	w.debounceMu.Unlock()
}

// debounceLoop processes pending reloads after the debounce delay.
func (w *Watcher) debounceLoop() {
	defer w.wg.Done()
	tick := min(w.debounceDelay/2, 50*time.Millisecond)
	ticker := time.NewTicker(max(tick, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.processPendingReloads()
		}
	}
}

// processPendingReloads reports files that have been quiet for debounceDelay.
func (w *Watcher) processPendingReloads() {
	w.debounceMu.Lock()
	now := time.Now()
	var ready []string
	for path, queuedAt := range w.pendingReloads {
		if now.Sub(queuedAt) >= w.debounceDelay {
			ready = append(ready, path)
			delete(w.pendingReloads, path)
		}
	}
	w.debounceMu.Unlock()

	for _, path := range ready {
		// a rename away or a delete leaves nothing to load
		if _, err := os.Stat(path); err != nil {
			w.log.Debug("changed file is gone", zap.String("path", path))
			continue
		}
		w.onChange(path)
	}
}
