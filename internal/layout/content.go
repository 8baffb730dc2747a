package layout

// PreviousContainerHolder is implemented by elements that remember the
// container they were moved out of. The reference cannot be persisted
// directly, so it is written as an identifier and resolved after loading.
type PreviousContainerHolder interface {
	Element
	PreviousContainer() Container
	SetPreviousContainer(c Container)
	PreviousContainerID() string
	SetPreviousContainerID(id string)
	PreviousContainerIndex() int
	SetPreviousContainerIndex(i int)
}

type previous struct {
	container Container
	id        string
	index     int
}

// PreviousContainer returns the resolved container, if any.
func (p *previous) PreviousContainer() Container { return p.container }

// SetPreviousContainer sets the container reference. The pending identifier
// is dropped; PreviousContainerID now derives from c.
func (p *previous) SetPreviousContainer(c Container) {
	p.container = c
	p.id = ""
}

// PreviousContainerID returns the identifier of the previous container: the
// resolved container's ID when there is one, else the pending identifier.
func (p *previous) PreviousContainerID() string {
	if p.container != nil {
		if idc, ok := p.container.(Identified); ok {
			return idc.ID()
		}
	}
	return p.id
}

// SetPreviousContainerID records an identifier to be resolved later.
func (p *previous) SetPreviousContainerID(id string) { p.id = id }

// PreviousContainerIndex is the position the element had in its previous container.
func (p *previous) PreviousContainerIndex() int { return p.index }

// SetPreviousContainerIndex sets the remembered position.
func (p *previous) SetPreviousContainerIndex(i int) { p.index = i }

func (p *previous) clearPrevious() {
	p.container = nil
	p.id = ""
	p.index = 0
}

// Content is a leaf that carries host content: an Anchorable or a Document.
type Content interface {
	PreviousContainerHolder
	Base() *LayoutContent
	Close()
}

// LayoutContent holds the state shared by anchorables and documents.
//
// Content, Title, IconSource and ToolTip belong to the running application
// and are never persisted.
type LayoutContent struct {
	element
	previous
	self Content

	ContentID  string
	Title      string
	IconSource any
	ToolTip    any
	Content    any

	IsSelected bool
	IsActive   bool
	CanClose   bool
	CanFloat   bool

	FloatingLeft   float64
	FloatingTop    float64
	FloatingWidth  float64
	FloatingHeight float64
}

func newLayoutContent(self Content, contentID string) LayoutContent {
	return LayoutContent{
		self:      self,
		ContentID: contentID,
		CanClose:  true,
		CanFloat:  true,
	}
}

// Base returns the shared content state.
func (c *LayoutContent) Base() *LayoutContent { return c }

// Close removes the element from the tree and forgets its previous container.
func (c *LayoutContent) Close() {
	if p := c.parent; p != nil {
		p.RemoveChild(c.self)
	}
	c.clearPrevious()
}

// Anchorable is a tool window: it can be hidden and shown again later.
type Anchorable struct {
	LayoutContent
	CanHide        bool
	CanAutoHide    bool
	AutoHideWidth  float64
	AutoHideHeight float64
}

// NewAnchorable returns a detached anchorable.
func NewAnchorable(contentID string) *Anchorable {
	a := &Anchorable{CanHide: true, CanAutoHide: true}
	a.LayoutContent = newLayoutContent(a, contentID)
	return a
}

func (a *Anchorable) Kind() Kind { return KindAnchorable }

// IsHidden reports whether the anchorable sits in its root's hidden list.
func (a *Anchorable) IsHidden() bool {
	_, ok := a.parent.(*Root)
	return ok
}

// IsAutoHidden reports whether the anchorable is collapsed to an anchor side.
func (a *Anchorable) IsAutoHidden() bool {
	_, ok := a.parent.(*AnchorGroup)
	return ok
}

// Hide moves the anchorable to the root's hidden list, remembering where it
// was. Hiding a hidden anchorable does nothing.
func (a *Anchorable) Hide() error {
	if a.IsHidden() {
		return nil
	}
	root := a.Root()
	if root == nil {
		return ErrDetached
	}
	if parent := a.parent; parent != nil {
		idx := parent.IndexOf(a)
		a.SetPreviousContainer(parent)
		a.index = idx
	}
	return root.InsertChild(len(root.hidden), a)
}

// Show brings a hidden anchorable back into its previous container when that
// container is still part of the layout, otherwise into the first anchorable
// pane (creating one on the root panel when there is none).
func (a *Anchorable) Show() error {
	if !a.IsHidden() {
		return nil
	}
	root := a.Root()
	prev, idx := a.container, a.index
	a.clearPrevious()
	if prev != nil && prev.Root() == root && prev.accepts(a) {
		idx = min(max(idx, 0), prev.ChildrenCount())
		return prev.InsertChild(idx, a)
	}
	pane, ok := First[*AnchorablePane](root.Descendants())
	if !ok {
		pane = NewAnchorablePane()
		if err := root.RootPanel().AddChild(pane); err != nil {
			return err
		}
	}
	return pane.AddChild(a)
}

// ToggleAutoHide collapses the anchorable's pane to the given side, or, when
// the anchorable is already auto-hidden, docks its group back into the pane it
// came from. Every anchorable of the pane or group moves together.
func (a *Anchorable) ToggleAutoHide(side Side) error {
	root := a.Root()
	if root == nil {
		return ErrDetached
	}
	switch parent := a.parent.(type) {
	case *AnchorablePane:
		g := NewAnchorGroup()
		g.SetPreviousContainer(parent)
		for _, child := range parent.Children() {
			if err := g.AddChild(child); err != nil {
				return err
			}
		}
		return root.Side(side).AddChild(g)
	case *AnchorGroup:
		target, ok := parent.container.(*AnchorablePane)
		if !ok || target.Root() != root {
			target = NewAnchorablePane()
			if err := root.RootPanel().AddChild(target); err != nil {
				return err
			}
		}
		for _, child := range parent.Children() {
			if err := target.AddChild(child); err != nil {
				return err
			}
		}
		if s := parent.Parent(); s != nil {
			s.RemoveChild(parent)
		}
		return nil
	}
	return nil
}

// Document is a content pane such as an open file. Documents are closed, not
// hidden, when their content goes away.
type Document struct {
	LayoutContent
	Description string
}

// NewDocument returns a detached document.
func NewDocument(contentID string) *Document {
	d := &Document{}
	d.LayoutContent = newLayoutContent(d, contentID)
	return d
}

func (d *Document) Kind() Kind { return KindDocument }
