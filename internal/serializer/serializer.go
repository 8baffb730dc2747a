// Package serializer saves and restores docking layouts. Only the structure
// is persisted; after decoding, a fixup pass rebinds placeholders to live
// content by ContentId and prunes what could not be restored.
package serializer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/persist/jsoncodec"
	"github.com/zot/dock/internal/persist/xmlcodec"
)

var (
	// ErrNilHost is returned by New when no host is given.
	ErrNilHost = errors.New("serializer: nil host")

	// ErrNilCodec is returned by New when no codec is given.
	ErrNilCodec = errors.New("serializer: nil codec")

	// ErrNoLayout is returned by Serialize when the host has no layout.
	ErrNoLayout = errors.New("serializer: host has no layout")

	// ErrUnknownCodec is returned by CodecFor for an unsupported format name.
	ErrUnknownCodec = errors.New("unknown layout format")
)

// Codec reads and writes the structure of a layout.
type Codec interface {
	Name() string
	Encode(w io.Writer, root *layout.Root) error
	Decode(r io.Reader) (*layout.Root, error)
}

// CodecFor returns the codec registered under name ("xml" or "json").
// An empty name selects XML.
func CodecFor(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", xmlcodec.Name:
		return xmlcodec.New(), nil
	case jsoncodec.Name:
		return jsoncodec.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Host owns the live layout. SuspendBindings and ResumeBindings bracket a
// deserialization so the host can pause syncing its document and anchorable
// source collections into the tree.
type Host interface {
	Layout() *layout.Root
	SetLayout(root *layout.Root)
	SuspendBindings()
	ResumeBindings()
}

// Serializer saves and restores the layout of one host.
type Serializer struct {
	host     Host
	codec    Codec
	snapshot *Snapshot
	resolve  ResolveFunc
	log      *zap.Logger
}

// Option configures a Serializer.
type Option func(*Serializer)

// WithResolver registers the callback consulted for every restored element
// that has no content.
func WithResolver(fn ResolveFunc) Option {
	return func(s *Serializer) { s.resolve = fn }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Serializer) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a serializer for host. The host's current anchorables and
// documents are captured now; restored placeholders are matched against
// this snapshot.
func New(host Host, codec Codec, opts ...Option) (*Serializer, error) {
	if host == nil {
		return nil, ErrNilHost
	}
	if codec == nil {
		return nil, ErrNilCodec
	}
	s := &Serializer{
		host:  host,
		codec: codec,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snapshot = Capture(host.Layout())
	return s, nil
}

// Codec returns the codec in use.
func (s *Serializer) Codec() Codec { return s.codec }

// Snapshot returns the previous state captured by New.
func (s *Serializer) Snapshot() *Snapshot { return s.snapshot }

// Serialize writes the host's layout. Panes and anchor groups that have no
// identifier yet are given one in the live layout, so later saves reuse it.
func (s *Serializer) Serialize(w io.Writer) error {
	root := s.host.Layout()
	if root == nil {
		return ErrNoLayout
	}
	if err := s.codec.Encode(w, root); err != nil {
		return err
	}
	s.log.Debug("layout serialized", zap.String("format", s.codec.Name()))
	return nil
}

// Deserialize reads a layout, reconciles it and makes it the host's layout.
// When decoding or reconciliation fails the host keeps its current layout.
// Bindings are suspended for the whole call.
func (s *Serializer) Deserialize(r io.Reader) error {
	s.host.SuspendBindings()
	defer s.host.ResumeBindings()

	root, err := s.codec.Decode(r)
	if err != nil {
		return fmt.Errorf("decode layout: %w", err)
	}
	if err := s.Fixup(root); err != nil {
		s.log.Warn("layout rejected", zap.Error(err))
		return err
	}
	s.host.SetLayout(root)
	s.log.Debug("layout restored",
		zap.String("format", s.codec.Name()),
		zap.Int("anchorables", len(root.Anchorables())),
		zap.Int("documents", len(root.Documents())))
	return nil
}
