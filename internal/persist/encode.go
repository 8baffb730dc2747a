package persist

import (
	"strconv"

	"github.com/zot/dock/internal/layout"
)

// Element names of the persisted form.
const (
	ElemRoot                     = "LayoutRoot"
	ElemRootPanel                = "RootPanel"
	ElemPanel                    = "LayoutPanel"
	ElemDocumentPane             = "LayoutDocumentPane"
	ElemAnchorablePane           = "LayoutAnchorablePane"
	ElemAnchorGroup              = "LayoutAnchorGroup"
	ElemFloatingWindows          = "FloatingWindows"
	ElemAnchorableFloatingWindow = "LayoutAnchorableFloatingWindow"
	ElemDocumentFloatingWindow   = "LayoutDocumentFloatingWindow"
	ElemHidden                   = "Hidden"
	ElemAnchorable               = "LayoutAnchorable"
	ElemDocument                 = "LayoutDocument"
)

var sideElems = map[layout.Side]string{
	layout.SideTop:    "TopSide",
	layout.SideRight:  "RightSide",
	layout.SideLeft:   "LeftSide",
	layout.SideBottom: "BottomSide",
}

var defaultSizing = layout.DefaultSizing()

// Encode converts the structure of root to a node tree. Panes without an
// identifier are given one, and keep it.
//
// A previous container that is no longer part of root is not written: it
// could not be resolved when the layout is read back.
func Encode(root *layout.Root) *Node {
	e := encoder{root: root}
	n := NewNode(ElemRoot)
	if p := root.RootPanel(); p != nil {
		n.Add(e.panel(ElemRootPanel, p))
	}
	for _, s := range layout.Sides {
		side := NewNode(sideElems[s])
		for _, child := range root.Side(s).Children() {
			side.Add(e.anchorGroup(child.(*layout.AnchorGroup)))
		}
		n.Add(side)
	}
	windows := NewNode(ElemFloatingWindows)
	for _, w := range root.FloatingWindows() {
		windows.Add(e.floatingWindow(w))
	}
	n.Add(windows)
	hidden := NewNode(ElemHidden)
	for _, a := range root.Hidden() {
		hidden.Add(e.anchorable(a))
	}
	n.Add(hidden)
	return n
}

type encoder struct {
	root *layout.Root
}

func (e encoder) element(el layout.Element) *Node {
	switch v := el.(type) {
	case *layout.Panel:
		return e.panel(ElemPanel, v)
	case *layout.DocumentPane:
		return e.documentPane(v)
	case *layout.AnchorablePane:
		return e.anchorablePane(v)
	case *layout.Anchorable:
		return e.anchorable(v)
	case *layout.Document:
		return e.document(v)
	}
	return NewNode(el.Kind().String())
}

func (e encoder) children(n *Node, c layout.Container) {
	for _, child := range c.Children() {
		n.Add(e.element(child))
	}
}

// previous writes the previous container reference of h, unless it points
// outside the layout.
func (e encoder) previous(n *Node, h layout.PreviousContainerHolder, withIndex bool) {
	if pc := h.PreviousContainer(); pc != nil && pc.Root() != e.root {
		return
	}
	id := h.PreviousContainerID()
	if id == "" {
		return
	}
	n.SetAttr("PreviousContainerId", id)
	if withIndex {
		n.SetAttr("PreviousContainerIndex", strconv.Itoa(h.PreviousContainerIndex()))
	}
}

func (e encoder) panel(name string, p *layout.Panel) *Node {
	n := NewNode(name)
	n.SetAttr("Orientation", p.Orientation.String())
	encodeSizing(n, &p.Sizing)
	e.children(n, p)
	return n
}

func (e encoder) documentPane(p *layout.DocumentPane) *Node {
	n := NewNode(ElemDocumentPane)
	n.SetAttr("Id", p.ID())
	encodeSizing(n, &p.Sizing)
	e.children(n, p)
	return n
}

func (e encoder) anchorablePane(p *layout.AnchorablePane) *Node {
	n := NewNode(ElemAnchorablePane)
	n.SetAttr("Id", p.ID())
	if p.Name != "" {
		n.SetAttr("Name", p.Name)
	}
	encodeSizing(n, &p.Sizing)
	e.children(n, p)
	return n
}

func (e encoder) anchorGroup(g *layout.AnchorGroup) *Node {
	n := NewNode(ElemAnchorGroup)
	n.SetAttr("Id", g.ID())
	e.previous(n, g, false)
	e.children(n, g)
	return n
}

func (e encoder) floatingWindow(w *layout.FloatingWindow) *Node {
	name := ElemAnchorableFloatingWindow
	if w.Kind() == layout.KindDocumentFloatingWindow {
		name = ElemDocumentFloatingWindow
	}
	n := NewNode(name)
	setFloat(n, "Left", w.Left)
	setFloat(n, "Top", w.Top)
	setFloat(n, "Width", w.Width)
	setFloat(n, "Height", w.Height)
	setBool(n, "IsMaximized", w.IsMaximized, false)
	if p := w.RootPanel(); p != nil {
		n.Add(e.panel(ElemRootPanel, p))
	}
	return n
}

func (e encoder) content(name string, h layout.Content) *Node {
	c := h.Base()
	n := NewNode(name)
	n.SetAttr("ContentId", c.ContentID)
	setBool(n, "IsSelected", c.IsSelected, false)
	setBool(n, "IsActive", c.IsActive, false)
	setBool(n, "CanClose", c.CanClose, true)
	setBool(n, "CanFloat", c.CanFloat, true)
	setFloat(n, "FloatingLeft", c.FloatingLeft)
	setFloat(n, "FloatingTop", c.FloatingTop)
	setFloat(n, "FloatingWidth", c.FloatingWidth)
	setFloat(n, "FloatingHeight", c.FloatingHeight)
	e.previous(n, h, true)
	return n
}

func (e encoder) anchorable(a *layout.Anchorable) *Node {
	n := e.content(ElemAnchorable, a)
	setBool(n, "CanHide", a.CanHide, true)
	setBool(n, "CanAutoHide", a.CanAutoHide, true)
	setFloat(n, "AutoHideWidth", a.AutoHideWidth)
	setFloat(n, "AutoHideHeight", a.AutoHideHeight)
	return n
}

func (e encoder) document(d *layout.Document) *Node {
	return e.content(ElemDocument, d)
}

func encodeSizing(n *Node, s *layout.Sizing) {
	if s.DockWidth != defaultSizing.DockWidth {
		n.SetAttr("DockWidth", s.DockWidth.String())
	}
	if s.DockHeight != defaultSizing.DockHeight {
		n.SetAttr("DockHeight", s.DockHeight.String())
	}
	if s.DockMinWidth != defaultSizing.DockMinWidth {
		n.SetAttr("DockMinWidth", formatFloat(s.DockMinWidth))
	}
	if s.DockMinHeight != defaultSizing.DockMinHeight {
		n.SetAttr("DockMinHeight", formatFloat(s.DockMinHeight))
	}
}

func setBool(n *Node, key string, v, def bool) {
	if v != def {
		n.SetAttr(key, strconv.FormatBool(v))
	}
}

func setFloat(n *Node, key string, v float64) {
	if v != 0 {
		n.SetAttr(key, formatFloat(v))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
