// Package layout implements the docking layout model: a tree of panels,
// panes, anchor sides, floating windows, anchorables and documents owned by a
// single Root.
//
// The tree is not safe for concurrent use. It is meant to be owned by one
// goroutine (the one driving the host's UI).
package layout

import (
	"errors"
	"fmt"
	"slices"
)

// Kind identifies the variant of an Element.
type Kind int

const (
	KindRoot Kind = iota
	KindPanel
	KindDocumentPane
	KindAnchorablePane
	KindAnchorSide
	KindAnchorGroup
	KindDocumentFloatingWindow
	KindAnchorableFloatingWindow
	KindAnchorable
	KindDocument
)

var kindNames = [...]string{
	KindRoot:                     "LayoutRoot",
	KindPanel:                    "LayoutPanel",
	KindDocumentPane:             "LayoutDocumentPane",
	KindAnchorablePane:           "LayoutAnchorablePane",
	KindAnchorSide:               "LayoutAnchorSide",
	KindAnchorGroup:              "LayoutAnchorGroup",
	KindDocumentFloatingWindow:   "LayoutDocumentFloatingWindow",
	KindAnchorableFloatingWindow: "LayoutAnchorableFloatingWindow",
	KindAnchorable:               "LayoutAnchorable",
	KindDocument:                 "LayoutDocument",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var (
	// ErrInvalidChild is returned when a container is asked to hold an
	// element of a kind it does not accept.
	ErrInvalidChild = errors.New("invalid child")

	// ErrIndexOutOfRange is returned by InsertChild for a bad position.
	ErrIndexOutOfRange = errors.New("child index out of range")

	// ErrDetached is returned by operations that need the element to be
	// attached to a Root.
	ErrDetached = errors.New("element is not attached to a layout root")
)

// Element is any node of the layout tree.
type Element interface {
	Kind() Kind
	// Parent returns the owning container, nil for a Root or a detached element.
	Parent() Container
	// Root returns the cached root back-reference, walking the parent chain
	// when the cache is empty.
	Root() *Root

	node() *element
}

// Container is an element that owns an ordered list of children.
type Container interface {
	Element
	Children() []Element
	ChildrenCount() int
	IndexOf(child Element) int
	InsertChild(index int, child Element) error
	RemoveChild(child Element) bool
	ReplaceChild(old, replacement Element) error

	accepts(child Element) bool
}

// element holds the back-references every node carries.
type element struct {
	parent Container
	root   *Root
}

func (e *element) node() *element { return e }

// Parent returns the owning container.
func (e *element) Parent() Container { return e.parent }

// Root returns the root of the tree this element belongs to.
func (e *element) Root() *Root {
	if e.root != nil {
		return e.root
	}
	for p := e.parent; p != nil; p = p.Parent() {
		if r, ok := p.(*Root); ok {
			e.root = r
			return r
		}
	}
	return nil
}

// setRoots refreshes the cached root of el and its whole subtree.
func setRoots(el Element, root *Root) {
	if _, ok := el.(*Root); ok {
		return
	}
	el.node().root = root
	if c, ok := el.(Container); ok {
		for _, child := range c.Children() {
			setRoots(child, root)
		}
	}
}

// attach makes parent the owner of child. The caller has already removed
// child from its previous owner.
func attach(parent Container, child Element) {
	n := child.node()
	n.parent = parent
	setRoots(child, parent.Root())
}

func detach(child Element) {
	n := child.node()
	n.parent = nil
	setRoots(child, nil)
}

// group is the shared implementation of an ordered child list.
type group struct {
	element
	self     Container
	children []Element
}

// Children returns a copy of the child list.
func (g *group) Children() []Element { return slices.Clone(g.children) }

// ChildrenCount returns the number of children.
func (g *group) ChildrenCount() int { return len(g.children) }

// IndexOf returns the position of child or -1.
func (g *group) IndexOf(child Element) int {
	return slices.IndexFunc(g.children, func(e Element) bool { return e == child })
}

// InsertChild inserts child at index. A child owned by another container is
// moved.
func (g *group) InsertChild(index int, child Element) error {
	if child == nil {
		return fmt.Errorf("%w: nil element in %s", ErrInvalidChild, g.self.Kind())
	}
	if !g.self.accepts(child) {
		return fmt.Errorf("%w: %s cannot hold %s", ErrInvalidChild, g.self.Kind(), child.Kind())
	}
	if index < 0 || index > len(g.children) {
		return fmt.Errorf("%w: %d (count %d)", ErrIndexOutOfRange, index, len(g.children))
	}
	if old := child.Parent(); old != nil {
		if old == g.self {
			if i := g.IndexOf(child); i < index {
				index--
			}
		}
		old.RemoveChild(child)
	}
	g.children = slices.Insert(g.children, index, child)
	attach(g.self, child)
	return nil
}

// AddChild appends child.
func (g *group) AddChild(child Element) error {
	return g.self.InsertChild(len(g.children), child)
}

// RemoveChild removes child and clears its back-references.
func (g *group) RemoveChild(child Element) bool {
	i := g.IndexOf(child)
	if i < 0 {
		return false
	}
	g.children = slices.Delete(g.children, i, i+1)
	detach(child)
	return true
}

// ReplaceChild puts replacement where old was.
func (g *group) ReplaceChild(old, replacement Element) error {
	i := g.IndexOf(old)
	if i < 0 {
		return fmt.Errorf("%w: %s is not a child of %s", ErrInvalidChild, old.Kind(), g.self.Kind())
	}
	if !g.self.accepts(replacement) {
		return fmt.Errorf("%w: %s cannot hold %s", ErrInvalidChild, g.self.Kind(), replacement.Kind())
	}
	if p := replacement.Parent(); p != nil {
		p.RemoveChild(replacement)
		i = g.IndexOf(old)
	}
	g.children[i] = replacement
	detach(old)
	attach(g.self, replacement)
	return nil
}
