// Package dock provides the Manager, the host that owns a live layout and
// saves and restores it through the serializer.
package dock

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/serializer"
	"github.com/zot/dock/internal/storage"
)

// ErrNoStorage is returned by Save and Restore on a manager without storage.
var ErrNoStorage = errors.New("dock: no storage backend")

// Binder is implemented by applications that mirror their own document and
// tool collections into the layout. The manager suspends it while a layout
// is being restored.
type Binder interface {
	Suspend()
	Resume()
}

// Manager owns the live layout. It is not safe for concurrent use.
type Manager struct {
	root      *layout.Root
	binder    Binder
	suspended int
	codec     serializer.Codec
	resolve   serializer.ResolveFunc
	store     storage.Backend
	log       *zap.Logger
	onChanged []func(old, current *layout.Root)
}

// Option configures a Manager.
type Option func(*Manager)

// WithBinder sets the collection binder.
func WithBinder(b Binder) Option { return func(m *Manager) { m.binder = b } }

// WithCodec sets the codec used by SaveLayout and LoadLayout. XML is the default.
func WithCodec(c serializer.Codec) Option { return func(m *Manager) { m.codec = c } }

// WithResolver sets the resolver used when restoring layouts.
func WithResolver(fn serializer.ResolveFunc) Option { return func(m *Manager) { m.resolve = fn } }

// WithStorage sets the backend used by Save and Restore.
func WithStorage(b storage.Backend) Option { return func(m *Manager) { m.store = b } }

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// New returns a manager holding an empty layout.
func New(opts ...Option) *Manager {
	m := &Manager{
		root: layout.NewRoot(),
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.codec == nil {
		m.codec, _ = serializer.CodecFor("")
	}
	return m
}

// Layout returns the live layout.
func (m *Manager) Layout() *layout.Root { return m.root }

// SetLayout replaces the live layout and notifies OnLayoutChanged hooks.
// A nil root installs an empty layout.
func (m *Manager) SetLayout(root *layout.Root) {
	if root == nil {
		root = layout.NewRoot()
	}
	old := m.root
	m.root = root
	for _, fn := range m.onChanged {
		fn(old, root)
	}
}

// OnLayoutChanged registers fn to run after every SetLayout.
func (m *Manager) OnLayoutChanged(fn func(old, current *layout.Root)) {
	m.onChanged = append(m.onChanged, fn)
}

// SuspendBindings suspends the binder. Calls nest; only the outermost
// reaches the binder.
func (m *Manager) SuspendBindings() {
	m.suspended++
	if m.suspended == 1 && m.binder != nil {
		m.binder.Suspend()
	}
}

// ResumeBindings undoes one SuspendBindings.
func (m *Manager) ResumeBindings() {
	if m.suspended == 0 {
		return
	}
	m.suspended--
	if m.suspended == 0 && m.binder != nil {
		m.binder.Resume()
	}
}

// BindingsSuspended reports whether a suspension is in effect.
func (m *Manager) BindingsSuspended() bool { return m.suspended > 0 }

// AddDocument adds d to the document pane holding the active content, or
// else to the first document pane, creating one when the layout has none.
// The new document becomes selected.
func (m *Manager) AddDocument(d *layout.Document) error {
	pane := m.activeDocumentPane()
	if pane == nil {
		var ok bool
		if pane, ok = layout.First[*layout.DocumentPane](m.root.Descendants()); !ok {
			pane = layout.NewDocumentPane()
			if err := m.root.RootPanel().AddChild(pane); err != nil {
				return err
			}
		}
	}
	if err := pane.AddChild(d); err != nil {
		return err
	}
	selectOnly(pane, d)
	return nil
}

func (m *Manager) activeDocumentPane() *layout.DocumentPane {
	if c := m.root.ActiveContent(); c != nil {
		if p, ok := c.Parent().(*layout.DocumentPane); ok {
			return p
		}
	}
	return nil
}

// AddAnchorable adds a to the anchorable pane named paneName, creating it on
// the root panel when there is none. An empty paneName picks the first
// anchorable pane.
func (m *Manager) AddAnchorable(a *layout.Anchorable, paneName string) error {
	var pane *layout.AnchorablePane
	for p := range layout.OfType[*layout.AnchorablePane](m.root.Descendants()) {
		if paneName == "" || p.Name == paneName {
			pane = p
			break
		}
	}
	if pane == nil {
		pane = layout.NewAnchorablePane()
		pane.Name = paneName
		if err := m.root.RootPanel().InsertChild(0, pane); err != nil {
			return err
		}
	}
	if err := pane.AddChild(a); err != nil {
		return err
	}
	selectOnly(pane, a)
	return nil
}

func selectOnly(pane layout.Container, selected layout.Content) {
	for _, child := range pane.Children() {
		if c, ok := child.(layout.Content); ok {
			c.Base().IsSelected = c == selected
		}
	}
}

// FindContent returns the first anchorable or document with contentID.
func (m *Manager) FindContent(contentID string) layout.Content {
	for c := range layout.OfType[layout.Content](m.root.Descendants()) {
		if c.Base().ContentID == contentID {
			return c
		}
	}
	return nil
}

// Codec returns the codec used by SaveLayout and LoadLayout.
func (m *Manager) Codec() serializer.Codec { return m.codec }

func (m *Manager) newSerializer(codec serializer.Codec) (*serializer.Serializer, error) {
	return serializer.New(m, codec,
		serializer.WithResolver(m.resolve),
		serializer.WithLogger(m.log))
}

// SaveLayout writes the live layout.
func (m *Manager) SaveLayout(w io.Writer) error {
	s, err := m.newSerializer(m.codec)
	if err != nil {
		return err
	}
	return s.Serialize(w)
}

// LoadLayout restores a layout written by SaveLayout. On error the live
// layout is unchanged.
func (m *Manager) LoadLayout(r io.Reader) error {
	return m.load(m.codec, r)
}

func (m *Manager) load(codec serializer.Codec, r io.Reader) error {
	s, err := m.newSerializer(codec)
	if err != nil {
		return err
	}
	return s.Deserialize(r)
}

// Save stores the live layout under name and as storage.LastLayout, in one
// transaction.
func (m *Manager) Save(name string) error {
	if m.store == nil {
		return ErrNoStorage
	}
	var buf bytes.Buffer
	if err := m.SaveLayout(&buf); err != nil {
		return err
	}
	if err := storage.StoreLatest(m.store, &storage.LayoutData{Name: name, Format: m.codec.Name(), Data: buf.Bytes()}); err != nil {
		return err
	}
	m.log.Info("layout saved", zap.String("name", name), zap.Int("bytes", buf.Len()))
	return nil
}

// Restore loads the layout stored under name; an empty name restores the
// most recently saved one. The stored format decides the codec.
func (m *Manager) Restore(name string) error {
	if m.store == nil {
		return ErrNoStorage
	}
	if name == "" {
		name = storage.LastLayout
	}
	data, err := m.store.Load(name)
	if err != nil {
		return err
	}
	codec, err := serializer.CodecFor(data.Format)
	if err != nil {
		return err
	}
	if err := m.load(codec, bytes.NewReader(data.Data)); err != nil {
		return fmt.Errorf("restore layout %q: %w", name, err)
	}
	m.log.Info("layout restored", zap.String("name", name))
	return nil
}
