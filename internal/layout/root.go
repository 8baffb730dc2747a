package layout

import (
	"fmt"
	"slices"
)

// Root owns a whole layout: the main panel, the four anchor sides, the
// floating windows and the hidden anchorables.
type Root struct {
	element
	rootPanel *Panel
	sides     [len(Sides)]*AnchorSide
	floating  []*FloatingWindow
	hidden    []*Anchorable
}

// NewRoot returns a layout with a horizontal root panel holding one empty
// document pane.
func NewRoot() *Root {
	r := &Root{}
	for _, s := range Sides {
		side := newAnchorSide(s)
		r.sides[s] = side
		side.parent = r
	}
	if err := r.SetRootPanel(NewPanel(Horizontal, NewDocumentPane())); err != nil {
		panic(err)
	}
	return r
}

func (r *Root) Kind() Kind { return KindRoot }

// Root returns r.
func (r *Root) Root() *Root { return r }

// RootPanel returns the main panel.
func (r *Root) RootPanel() *Panel { return r.rootPanel }

// SetRootPanel replaces the main panel.
func (r *Root) SetRootPanel(p *Panel) error {
	if p == nil {
		return fmt.Errorf("%w: nil root panel", ErrInvalidChild)
	}
	if old := p.Parent(); old != nil {
		old.RemoveChild(p)
	}
	if r.rootPanel != nil {
		detach(r.rootPanel)
	}
	r.rootPanel = p
	attach(r, p)
	return nil
}

// Side returns one of the four anchor sides.
func (r *Root) Side(s Side) *AnchorSide { return r.sides[s] }

// FloatingWindows returns a copy of the floating window list.
func (r *Root) FloatingWindows() []*FloatingWindow { return slices.Clone(r.floating) }

// AddFloatingWindow appends a floating window.
func (r *Root) AddFloatingWindow(w *FloatingWindow) error {
	return r.InsertChild(len(r.floating), w)
}

// Hidden returns a copy of the hidden anchorable list.
func (r *Root) Hidden() []*Anchorable { return slices.Clone(r.hidden) }

// Children returns the root panel, the sides, the floating windows and the
// hidden anchorables, in that order.
func (r *Root) Children() []Element {
	out := make([]Element, 0, 1+len(r.sides)+len(r.floating)+len(r.hidden))
	if r.rootPanel != nil {
		out = append(out, r.rootPanel)
	}
	for _, s := range r.sides {
		out = append(out, s)
	}
	for _, w := range r.floating {
		out = append(out, w)
	}
	for _, a := range r.hidden {
		out = append(out, a)
	}
	return out
}

// ChildrenCount returns len(Children()).
func (r *Root) ChildrenCount() int {
	n := len(r.sides) + len(r.floating) + len(r.hidden)
	if r.rootPanel != nil {
		n++
	}
	return n
}

// IndexOf returns the position of child in Children().
func (r *Root) IndexOf(child Element) int {
	return slices.IndexFunc(r.Children(), func(e Element) bool { return e == child })
}

func (r *Root) accepts(child Element) bool {
	switch child.(type) {
	case *Panel, *FloatingWindow, *Anchorable:
		return true
	}
	return false
}

// InsertChild adds a floating window or a hidden anchorable. The index is
// relative to the floating window list or the hidden list respectively. A
// panel replaces the root panel.
func (r *Root) InsertChild(index int, child Element) error {
	if child == nil || !r.accepts(child) {
		return fmt.Errorf("%w: %s cannot hold %v", ErrInvalidChild, KindRoot, kindOf(child))
	}
	switch c := child.(type) {
	case *Panel:
		return r.SetRootPanel(c)
	case *FloatingWindow:
		if index < 0 || index > len(r.floating) {
			return fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, index, len(r.floating))
		}
		if p := c.Parent(); p != nil {
			if i := slices.Index(r.floating, c); i >= 0 && i < index {
				index--
			}
			p.RemoveChild(c)
		}
		r.floating = slices.Insert(r.floating, index, c)
	case *Anchorable:
		if index < 0 || index > len(r.hidden) {
			return fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, index, len(r.hidden))
		}
		if p := c.Parent(); p != nil {
			if i := slices.Index(r.hidden, c); i >= 0 && i < index {
				index--
			}
			p.RemoveChild(c)
		}
		r.hidden = slices.Insert(r.hidden, index, c)
	}
	attach(r, child)
	return nil
}

// RemoveChild removes a floating window or a hidden anchorable. The root
// panel and the sides cannot be removed.
func (r *Root) RemoveChild(child Element) bool {
	switch c := child.(type) {
	case *FloatingWindow:
		i := slices.Index(r.floating, c)
		if i < 0 {
			return false
		}
		r.floating = slices.Delete(r.floating, i, i+1)
	case *Anchorable:
		i := slices.Index(r.hidden, c)
		if i < 0 {
			return false
		}
		r.hidden = slices.Delete(r.hidden, i, i+1)
	default:
		return false
	}
	detach(child)
	return true
}

// ReplaceChild swaps the root panel or a floating window.
func (r *Root) ReplaceChild(old, replacement Element) error {
	switch o := old.(type) {
	case *Panel:
		p, ok := replacement.(*Panel)
		if !ok || o != r.rootPanel {
			break
		}
		return r.SetRootPanel(p)
	case *FloatingWindow:
		w, ok := replacement.(*FloatingWindow)
		i := slices.Index(r.floating, o)
		if !ok || i < 0 {
			break
		}
		if p := w.Parent(); p != nil {
			p.RemoveChild(w)
			i = slices.Index(r.floating, o)
		}
		r.floating[i] = w
		detach(o)
		attach(r, w)
		return nil
	}
	return fmt.Errorf("%w: cannot replace %v with %v in %s", ErrInvalidChild, kindOf(old), kindOf(replacement), KindRoot)
}

// Anchorables returns every anchorable of the layout in traversal order.
func (r *Root) Anchorables() []*Anchorable {
	return slices.Collect(OfType[*Anchorable](r.Descendants()))
}

// Documents returns every document of the layout in traversal order.
func (r *Root) Documents() []*Document {
	return slices.Collect(OfType[*Document](r.Descendants()))
}

// ActiveContent returns the first content marked active, or nil.
func (r *Root) ActiveContent() Content {
	for c := range OfType[Content](r.Descendants()) {
		if c.Base().IsActive {
			return c
		}
	}
	return nil
}

// FixCachedRoots points the cached root of every descendant at r.
func (r *Root) FixCachedRoots() {
	for el := range r.Descendants() {
		el.node().root = r
	}
}

func kindOf(el Element) any {
	if el == nil {
		return "nil"
	}
	return el.Kind()
}
