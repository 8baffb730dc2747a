package layout

import (
	"fmt"

	"github.com/google/uuid"
)

// Orientation is the direction in which a Panel lays out its children.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// ParseOrientation accepts "Horizontal" or "Vertical".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "Horizontal", "":
		return Horizontal, nil
	case "Vertical":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("invalid orientation %q", s)
}

// Side names one of the four anchor sides of a Root.
type Side int

const (
	SideTop Side = iota
	SideRight
	SideLeft
	SideBottom
)

// Sides lists the anchor sides in persisted order.
var Sides = [...]Side{SideTop, SideRight, SideLeft, SideBottom}

func (s Side) String() string {
	switch s {
	case SideTop:
		return "Top"
	case SideRight:
		return "Right"
	case SideLeft:
		return "Left"
	case SideBottom:
		return "Bottom"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Identified is implemented by containers that carry a persisted identifier,
// which is what PreviousContainerID refers to.
type Identified interface {
	Container
	// ID returns the identifier, generating one on first use.
	ID() string
	SetID(id string)
}

type identity struct {
	id string
}

// ID returns the identifier, generating a UUID the first time it is asked for.
func (i *identity) ID() string {
	if i.id == "" {
		i.id = uuid.NewString()
	}
	return i.id
}

// SetID sets the identifier.
func (i *identity) SetID(id string) { i.id = id }

// mustAdd is used by constructors that take initial children.
func mustAdd(c interface{ AddChild(Element) error }, children []Element) {
	for _, child := range children {
		if err := c.AddChild(child); err != nil {
			panic(err)
		}
	}
}

// Panel arranges panels and panes side by side.
type Panel struct {
	group
	Sizing
	Orientation Orientation
}

// NewPanel returns a panel holding children. It panics if a child is not a
// panel or a pane.
func NewPanel(o Orientation, children ...Element) *Panel {
	p := &Panel{Sizing: DefaultSizing(), Orientation: o}
	p.self = p
	mustAdd(p, children)
	return p
}

func (p *Panel) Kind() Kind { return KindPanel }

func (p *Panel) accepts(child Element) bool {
	switch child.(type) {
	case *Panel, *DocumentPane, *AnchorablePane:
		return true
	}
	return false
}

// IsRootPanel reports whether p is the main panel of its Root.
func (p *Panel) IsRootPanel() bool {
	r, ok := p.parent.(*Root)
	return ok && r.rootPanel == p
}

// pane is shared by document and anchorable panes.
type pane struct {
	group
	identity
	Sizing
}

// SelectedContent returns the selected child, or the first child when none
// is marked selected.
func (p *pane) SelectedContent() Content {
	var first Content
	for _, child := range p.children {
		c, ok := child.(Content)
		if !ok {
			continue
		}
		if c.Base().IsSelected {
			return c
		}
		if first == nil {
			first = c
		}
	}
	return first
}

// DocumentPane holds documents. Anchorables may be docked into it as well.
type DocumentPane struct {
	pane
}

// NewDocumentPane returns a pane holding children. It panics if a child is
// not a document or an anchorable.
func NewDocumentPane(children ...Element) *DocumentPane {
	p := &DocumentPane{}
	p.self = p
	p.Sizing = DefaultSizing()
	mustAdd(p, children)
	return p
}

func (p *DocumentPane) Kind() Kind { return KindDocumentPane }

func (p *DocumentPane) accepts(child Element) bool {
	switch child.(type) {
	case *Document, *Anchorable:
		return true
	}
	return false
}

// AnchorablePane holds tool windows.
type AnchorablePane struct {
	pane
	Name string
}

// NewAnchorablePane returns a pane holding anchorables. It panics if a child
// is not an anchorable.
func NewAnchorablePane(children ...Element) *AnchorablePane {
	p := &AnchorablePane{}
	p.self = p
	p.Sizing = DefaultSizing()
	mustAdd(p, children)
	return p
}

func (p *AnchorablePane) Kind() Kind { return KindAnchorablePane }

func (p *AnchorablePane) accepts(child Element) bool {
	_, ok := child.(*Anchorable)
	return ok
}

// AnchorSide is one edge of the docking surface; it holds auto-hidden groups.
type AnchorSide struct {
	group
	Side Side
}

func newAnchorSide(side Side) *AnchorSide {
	s := &AnchorSide{Side: side}
	s.self = s
	return s
}

func (s *AnchorSide) Kind() Kind { return KindAnchorSide }

func (s *AnchorSide) accepts(child Element) bool {
	_, ok := child.(*AnchorGroup)
	return ok
}

// AnchorGroup is a set of auto-hidden anchorables. It remembers the pane it
// was collapsed from.
type AnchorGroup struct {
	group
	identity
	previous
}

// NewAnchorGroup returns a group holding anchorables. It panics if a child is
// not an anchorable.
func NewAnchorGroup(children ...Element) *AnchorGroup {
	g := &AnchorGroup{}
	g.self = g
	mustAdd(g, children)
	return g
}

func (g *AnchorGroup) Kind() Kind { return KindAnchorGroup }

func (g *AnchorGroup) accepts(child Element) bool {
	_, ok := child.(*Anchorable)
	return ok
}

// FloatingWindow is a container detached from the main docking surface. It
// holds exactly one panel.
type FloatingWindow struct {
	group
	kind        Kind
	Left        float64
	Top         float64
	Width       float64
	Height      float64
	IsMaximized bool
}

// NewAnchorableFloatingWindow returns a floating window for tool windows.
func NewAnchorableFloatingWindow(panel *Panel) *FloatingWindow {
	return newFloatingWindow(KindAnchorableFloatingWindow, panel)
}

// NewDocumentFloatingWindow returns a floating window for documents.
func NewDocumentFloatingWindow(panel *Panel) *FloatingWindow {
	return newFloatingWindow(KindDocumentFloatingWindow, panel)
}

func newFloatingWindow(kind Kind, panel *Panel) *FloatingWindow {
	w := &FloatingWindow{kind: kind}
	w.self = w
	if panel != nil {
		mustAdd(w, []Element{panel})
	}
	return w
}

func (w *FloatingWindow) Kind() Kind { return w.kind }

func (w *FloatingWindow) accepts(child Element) bool {
	_, ok := child.(*Panel)
	return ok
}

// InsertChild sets the window's panel. A window holds a single panel.
func (w *FloatingWindow) InsertChild(index int, child Element) error {
	if len(w.children) > 0 && child != nil && child.Parent() != Container(w) {
		return fmt.Errorf("%w: %s already has a panel", ErrInvalidChild, w.kind)
	}
	return w.group.InsertChild(index, child)
}

// RootPanel returns the window's panel, or nil.
func (w *FloatingWindow) RootPanel() *Panel {
	if len(w.children) == 0 {
		return nil
	}
	return w.children[0].(*Panel)
}

// IsEmpty reports whether the window holds no content at all.
func (w *FloatingWindow) IsEmpty() bool {
	p := w.RootPanel()
	if p == nil {
		return true
	}
	for el := range Descendants(p) {
		if _, ok := el.(Content); ok {
			return false
		}
	}
	return true
}
