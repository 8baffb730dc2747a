package persist

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/zot/dock/internal/layout"
)

var (
	// ErrUnknownElement is returned for a node name that has no meaning at
	// its position.
	ErrUnknownElement = errors.New("unknown layout element")

	// ErrInvalidAttribute is returned for an attribute value that does not parse.
	ErrInvalidAttribute = errors.New("invalid layout attribute")
)

// Build reconstructs a layout tree from n. The result carries structure only:
// every anchorable and document has nil Content, and previous containers are
// recorded as identifiers waiting to be resolved.
func Build(n *Node) (*layout.Root, error) {
	if n == nil || n.Name != ElemRoot {
		return nil, unknown(n, "document root")
	}
	r := layout.NewRoot()
	for _, c := range n.Children {
		switch c.Name {
		case ElemRootPanel:
			p, err := buildPanel(c)
			if err != nil {
				return nil, err
			}
			if err := r.SetRootPanel(p); err != nil {
				return nil, err
			}
		case ElemFloatingWindows:
			for _, wn := range c.Children {
				w, err := buildFloatingWindow(wn)
				if err != nil {
					return nil, err
				}
				if err := r.AddFloatingWindow(w); err != nil {
					return nil, err
				}
			}
		case ElemHidden:
			for _, an := range c.Children {
				if an.Name != ElemAnchorable {
					return nil, unknown(an, ElemHidden)
				}
				a, err := buildAnchorable(an)
				if err != nil {
					return nil, err
				}
				if err := r.InsertChild(len(r.Hidden()), a); err != nil {
					return nil, err
				}
			}
		default:
			side, ok := sideOf(c.Name)
			if !ok {
				return nil, unknown(c, ElemRoot)
			}
			for _, gn := range c.Children {
				if gn.Name != ElemAnchorGroup {
					return nil, unknown(gn, c.Name)
				}
				g, err := buildAnchorGroup(gn)
				if err != nil {
					return nil, err
				}
				if err := r.Side(side).AddChild(g); err != nil {
					return nil, err
				}
			}
		}
	}
	return r, nil
}

func sideOf(name string) (layout.Side, bool) {
	for s, n := range sideElems {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

func unknown(n *Node, where string) error {
	if n == nil {
		return fmt.Errorf("%w: missing %s", ErrUnknownElement, where)
	}
	return fmt.Errorf("%w: %q in %s", ErrUnknownElement, n.Name, where)
}

// attrReader reads typed attributes and keeps the first error.
type attrReader struct {
	n   *Node
	err error
}

func (a *attrReader) fail(key string, err error) {
	if a.err == nil {
		a.err = fmt.Errorf("%w: %s.%s: %v", ErrInvalidAttribute, a.n.Name, key, err)
	}
}

func (a *attrReader) str(key string) string {
	v, _ := a.n.Attr(key)
	return v
}

func (a *attrReader) boolean(key string, def bool) bool {
	v, ok := a.n.Attr(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		a.fail(key, err)
		return def
	}
	return b
}

func (a *attrReader) float(key string) float64 {
	v, ok := a.n.Attr(key)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		a.fail(key, err)
	}
	return f
}

func (a *attrReader) integer(key string) int {
	v, ok := a.n.Attr(key)
	if !ok {
		return 0
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		a.fail(key, err)
	}
	return i
}

func (a *attrReader) length(key string, def layout.Length) layout.Length {
	v, ok := a.n.Attr(key)
	if !ok {
		return def
	}
	l, err := layout.ParseLength(v)
	if err != nil {
		a.fail(key, err)
		return def
	}
	return l
}

func (a *attrReader) sizing(s *layout.Sizing) {
	def := layout.DefaultSizing()
	s.DockWidth = a.length("DockWidth", def.DockWidth)
	s.DockHeight = a.length("DockHeight", def.DockHeight)
	if _, ok := a.n.Attr("DockMinWidth"); ok {
		s.DockMinWidth = a.float("DockMinWidth")
	}
	if _, ok := a.n.Attr("DockMinHeight"); ok {
		s.DockMinHeight = a.float("DockMinHeight")
	}
}

func buildPanel(n *Node) (*layout.Panel, error) {
	a := &attrReader{n: n}
	o, err := layout.ParseOrientation(a.str("Orientation"))
	if err != nil {
		a.fail("Orientation", err)
	}
	p := layout.NewPanel(o)
	a.sizing(&p.Sizing)
	if a.err != nil {
		return nil, a.err
	}
	for _, c := range n.Children {
		var child layout.Element
		var err error
		switch c.Name {
		case ElemPanel:
			child, err = buildPanel(c)
		case ElemDocumentPane:
			child, err = buildDocumentPane(c)
		case ElemAnchorablePane:
			child, err = buildAnchorablePane(c)
		default:
			return nil, unknown(c, n.Name)
		}
		if err != nil {
			return nil, err
		}
		if err := p.AddChild(child); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func buildDocumentPane(n *Node) (*layout.DocumentPane, error) {
	a := &attrReader{n: n}
	p := layout.NewDocumentPane()
	p.SetID(a.str("Id"))
	a.sizing(&p.Sizing)
	if a.err != nil {
		return nil, a.err
	}
	for _, c := range n.Children {
		var child layout.Element
		var err error
		switch c.Name {
		case ElemDocument:
			child, err = buildDocument(c)
		case ElemAnchorable:
			child, err = buildAnchorable(c)
		default:
			return nil, unknown(c, n.Name)
		}
		if err != nil {
			return nil, err
		}
		if err := p.AddChild(child); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func buildAnchorablePane(n *Node) (*layout.AnchorablePane, error) {
	a := &attrReader{n: n}
	p := layout.NewAnchorablePane()
	p.SetID(a.str("Id"))
	p.Name = a.str("Name")
	a.sizing(&p.Sizing)
	if a.err != nil {
		return nil, a.err
	}
	if err := addAnchorables(p, n); err != nil {
		return nil, err
	}
	return p, nil
}

func buildAnchorGroup(n *Node) (*layout.AnchorGroup, error) {
	a := &attrReader{n: n}
	g := layout.NewAnchorGroup()
	g.SetID(a.str("Id"))
	g.SetPreviousContainerID(a.str("PreviousContainerId"))
	if err := addAnchorables(g, n); err != nil {
		return nil, err
	}
	return g, nil
}

func addAnchorables(c interface{ AddChild(layout.Element) error }, n *Node) error {
	for _, cn := range n.Children {
		if cn.Name != ElemAnchorable {
			return unknown(cn, n.Name)
		}
		an, err := buildAnchorable(cn)
		if err != nil {
			return err
		}
		if err := c.AddChild(an); err != nil {
			return err
		}
	}
	return nil
}

func buildFloatingWindow(n *Node) (*layout.FloatingWindow, error) {
	var w *layout.FloatingWindow
	switch n.Name {
	case ElemAnchorableFloatingWindow:
		w = layout.NewAnchorableFloatingWindow(nil)
	case ElemDocumentFloatingWindow:
		w = layout.NewDocumentFloatingWindow(nil)
	default:
		return nil, unknown(n, ElemFloatingWindows)
	}
	a := &attrReader{n: n}
	w.Left = a.float("Left")
	w.Top = a.float("Top")
	w.Width = a.float("Width")
	w.Height = a.float("Height")
	w.IsMaximized = a.boolean("IsMaximized", false)
	if a.err != nil {
		return nil, a.err
	}
	for _, c := range n.Children {
		if c.Name != ElemRootPanel && c.Name != ElemPanel {
			return nil, unknown(c, n.Name)
		}
		p, err := buildPanel(c)
		if err != nil {
			return nil, err
		}
		if err := w.AddChild(p); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func readContent(a *attrReader, c *layout.LayoutContent) {
	c.ContentID = a.str("ContentId")
	c.IsSelected = a.boolean("IsSelected", false)
	c.IsActive = a.boolean("IsActive", false)
	c.CanClose = a.boolean("CanClose", true)
	c.CanFloat = a.boolean("CanFloat", true)
	c.FloatingLeft = a.float("FloatingLeft")
	c.FloatingTop = a.float("FloatingTop")
	c.FloatingWidth = a.float("FloatingWidth")
	c.FloatingHeight = a.float("FloatingHeight")
	c.SetPreviousContainerID(a.str("PreviousContainerId"))
	c.SetPreviousContainerIndex(a.integer("PreviousContainerIndex"))
}

func buildAnchorable(n *Node) (*layout.Anchorable, error) {
	a := &attrReader{n: n}
	an := layout.NewAnchorable("")
	readContent(a, &an.LayoutContent)
	an.CanHide = a.boolean("CanHide", true)
	an.CanAutoHide = a.boolean("CanAutoHide", true)
	an.AutoHideWidth = a.float("AutoHideWidth")
	an.AutoHideHeight = a.float("AutoHideHeight")
	if a.err != nil {
		return nil, a.err
	}
	return an, nil
}

func buildDocument(n *Node) (*layout.Document, error) {
	a := &attrReader{n: n}
	d := layout.NewDocument("")
	readContent(a, &d.LayoutContent)
	if a.err != nil {
		return nil, a.err
	}
	return d, nil
}
