package layout

import "slices"

// CollectGarbage prunes what mutations leave behind: references to
// containers that are gone, empty panes and groups nobody will return to,
// empty panels and floating windows, and panels wrapping a single panel.
// It runs until the tree stops changing. The root panel, the anchor sides and
// the last document pane are always kept.
func (r *Root) CollectGarbage() {
	for r.collectOnce() {
	}
}

func (r *Root) collectOnce() bool {
	changed := false

	referenced := make(map[Container]bool)
	for h := range OfType[PreviousContainerHolder](r.Descendants()) {
		pc := h.PreviousContainer()
		if pc == nil {
			continue
		}
		if pc.Root() != r {
			h.SetPreviousContainer(nil)
			h.SetPreviousContainerIndex(0)
			changed = true
			continue
		}
		referenced[pc] = true
	}

	for _, el := range slices.Collect(r.Descendants()) {
		if el.Root() != r {
			continue
		}
		parent := el.Parent()
		switch c := el.(type) {
		case *AnchorablePane:
			if c.ChildrenCount() == 0 && !referenced[c] {
				changed = parent.RemoveChild(c) || changed
			}
		case *AnchorGroup:
			if c.ChildrenCount() == 0 && !referenced[c] {
				changed = parent.RemoveChild(c) || changed
			}
		case *DocumentPane:
			if c.ChildrenCount() == 0 && !referenced[c] && r.countDocumentPanes() > 1 {
				changed = parent.RemoveChild(c) || changed
			}
		case *Panel:
			if c.IsRootPanel() {
				continue
			}
			if w, ok := parent.(*FloatingWindow); ok {
				if w.IsEmpty() && !r.referencesAny(w, referenced) {
					changed = r.RemoveChild(w) || changed
				}
				continue
			}
			switch c.ChildrenCount() {
			case 0:
				changed = parent.RemoveChild(c) || changed
			case 1:
				if only, ok := c.children[0].(*Panel); ok {
					if err := parent.ReplaceChild(c, only); err == nil {
						changed = true
					}
				}
			}
		case *FloatingWindow:
			if c.RootPanel() == nil {
				changed = r.RemoveChild(c) || changed
			}
		}
	}
	return changed
}

func (r *Root) countDocumentPanes() int {
	n := 0
	for range OfType[*DocumentPane](r.Descendants()) {
		n++
	}
	return n
}

// referencesAny reports whether some container inside c is a previous
// container of a live element.
func (r *Root) referencesAny(c Container, referenced map[Container]bool) bool {
	for el := range Descendants(c) {
		if cc, ok := el.(Container); ok && referenced[cc] {
			return true
		}
	}
	return false
}
