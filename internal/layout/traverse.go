package layout

import "iter"

// Descendants returns a depth-first, pre-order sequence of every element
// below c. Children are read as the walk reaches them, so the sequence may be
// ranged over again after the tree changes.
func Descendants(c Container) iter.Seq[Element] {
	return func(yield func(Element) bool) {
		walk(c, yield)
	}
}

func walk(c Container, yield func(Element) bool) bool {
	for _, child := range c.Children() {
		if !yield(child) {
			return false
		}
		if cc, ok := child.(Container); ok {
			if !walk(cc, yield) {
				return false
			}
		}
	}
	return true
}

// Descendants returns every element of the layout, depth first.
func (r *Root) Descendants() iter.Seq[Element] { return Descendants(r) }

// OfType filters a sequence down to the elements implementing T.
func OfType[T any](seq iter.Seq[Element]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for el := range seq {
			if t, ok := el.(T); ok {
				if !yield(t) {
					return
				}
			}
		}
	}
}

// First returns the first element of seq implementing T.
func First[T any](seq iter.Seq[Element]) (T, bool) {
	for t := range OfType[T](seq) {
		return t, true
	}
	var zero T
	return zero, false
}

// Contains reports whether el is part of the tree below c.
func Contains(c Container, el Element) bool {
	for d := range Descendants(c) {
		if d == el {
			return true
		}
	}
	return false
}
