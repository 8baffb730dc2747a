package layout

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes an indented outline of the tree below c.
func Dump(w io.Writer, c Container) error {
	if _, err := fmt.Fprintln(w, describe(c)); err != nil {
		return err
	}
	return dump(w, c, 1)
}

func dump(w io.Writer, c Container, depth int) error {
	for _, child := range c.Children() {
		if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), describe(child)); err != nil {
			return err
		}
		if cc, ok := child.(Container); ok {
			if err := dump(w, cc, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

func describe(el Element) string {
	switch e := el.(type) {
	case *Panel:
		return fmt.Sprintf("Panel %s", e.Orientation)
	case *DocumentPane:
		return fmt.Sprintf("DocumentPane %s", e.ID())
	case *AnchorablePane:
		if e.Name != "" {
			return fmt.Sprintf("AnchorablePane %s (%s)", e.ID(), e.Name)
		}
		return fmt.Sprintf("AnchorablePane %s", e.ID())
	case *AnchorSide:
		return fmt.Sprintf("Side %s", e.Side)
	case *AnchorGroup:
		return fmt.Sprintf("AnchorGroup %s", e.ID())
	case *FloatingWindow:
		return fmt.Sprintf("%s %gx%g@%g,%g", e.Kind(), e.Width, e.Height, e.Left, e.Top)
	case *Anchorable:
		state := ""
		switch {
		case e.IsHidden():
			state = " [hidden]"
		case e.IsAutoHidden():
			state = " [auto-hide]"
		}
		return fmt.Sprintf("Anchorable %q %q%s", e.ContentID, e.Title, state)
	case *Document:
		return fmt.Sprintf("Document %q %q", e.ContentID, e.Title)
	}
	return el.Kind().String()
}
