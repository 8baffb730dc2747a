package serializer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zot/dock/internal/layout"
)

// ErrContainerNotFound matches every *MissingContainerError.
var ErrContainerNotFound = errors.New("previous container not found")

// MissingContainerError reports a PreviousContainerId with no matching
// container in the restored layout.
type MissingContainerError struct {
	ID string
	// Holder is the element that referenced the container.
	Holder layout.Kind
}

func (e *MissingContainerError) Error() string {
	return fmt.Sprintf("%s references previous container %q, which is not in the layout", e.Holder, e.ID)
}

// Is reports whether target is ErrContainerNotFound.
func (e *MissingContainerError) Is(target error) bool {
	return target == ErrContainerNotFound
}

// Request is passed to a ResolveFunc for each restored element without
// content.
type Request struct {
	// Model is the restored *layout.Anchorable or *layout.Document. The
	// resolver may set its fields directly.
	Model layout.Content
	// Previous is the content of the live element with the same ContentId,
	// or nil.
	Previous any
}

// Response tells the fixup pass what to do with a Request's model.
type Response struct {
	// Cancel closes the element.
	Cancel bool
	// Content, when non-nil, becomes the element's content.
	Content any
}

// ResolveFunc supplies content for restored elements.
type ResolveFunc func(req Request) Response

// Fixup reconciles a freshly decoded layout: it refreshes cached roots,
// resolves previous container identifiers, binds anchorables and then
// documents to content, and collects garbage. Elements that already have
// content are left alone, so running Fixup again is a no-op.
func (s *Serializer) Fixup(root *layout.Root) error {
	root.FixCachedRoots()
	if err := resolvePreviousContainers(root); err != nil {
		return err
	}
	for _, a := range root.Anchorables() {
		if a.Content == nil {
			s.fixAnchorable(a)
		}
	}
	for _, d := range root.Documents() {
		if d.Content == nil {
			s.fixDocument(d)
		}
	}
	root.CollectGarbage()
	return nil
}

func resolvePreviousContainers(root *layout.Root) error {
	byID := make(map[string]layout.Container)
	for el := range root.Descendants() {
		c, ok := el.(layout.Container)
		if !ok {
			continue
		}
		idc, ok := el.(layout.Identified)
		if !ok {
			continue
		}
		if _, dup := byID[idc.ID()]; !dup {
			byID[idc.ID()] = c
		}
	}
	for h := range layout.OfType[layout.PreviousContainerHolder](root.Descendants()) {
		id := h.PreviousContainerID()
		if id == "" {
			continue
		}
		c, ok := byID[id]
		if !ok {
			return &MissingContainerError{ID: id, Holder: h.Kind()}
		}
		h.SetPreviousContainer(c)
	}
	return nil
}

func (s *Serializer) fixAnchorable(a *layout.Anchorable) {
	prev := s.snapshot.Anchorable(a.ContentID)
	if prev != nil && prev.Title != "" {
		a.Title = prev.Title
	}
	log := s.log.With(zap.String("contentId", a.ContentID))

	if s.resolve != nil {
		var previous any
		if prev != nil {
			previous = prev.Content
		}
		resp := s.resolve(Request{Model: a, Previous: previous})
		switch {
		case resp.Cancel:
			log.Debug("anchorable closed by resolver")
			a.Close()
		case resp.Content != nil:
			a.Content = resp.Content
		case a.Content != nil:
			// set on the model by the resolver
		default:
			log.Debug("anchorable hidden, resolver supplied no content")
			hide(log, a)
		}
		return
	}

	if prev == nil {
		log.Debug("anchorable hidden, no previous content")
		hide(log, a)
		return
	}
	a.Content = prev.Content
	a.IconSource = prev.IconSource
}

func (s *Serializer) fixDocument(d *layout.Document) {
	prev := s.snapshot.Document(d.ContentID)
	if prev != nil && prev.Title != "" {
		d.Title = prev.Title
	}
	log := s.log.With(zap.String("contentId", d.ContentID))

	if s.resolve != nil {
		var previous any
		if prev != nil {
			previous = prev.Content
		}
		resp := s.resolve(Request{Model: d, Previous: previous})
		switch {
		case resp.Cancel:
			log.Debug("document closed by resolver")
			d.Close()
		case resp.Content != nil:
			d.Content = resp.Content
		case d.Content != nil:
			// set on the model by the resolver
		default:
			log.Debug("document closed, resolver supplied no content")
			d.Close()
		}
		return
	}

	if prev == nil {
		log.Debug("document closed, no previous content")
		d.Close()
		return
	}
	d.Content = prev.Content
	d.IconSource = prev.IconSource
}

func hide(log *zap.Logger, a *layout.Anchorable) {
	if err := a.Hide(); err != nil {
		log.Warn("cannot hide anchorable", zap.Error(err))
	}
}
