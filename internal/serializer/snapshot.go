package serializer

import (
	"slices"

	"github.com/zot/dock/internal/layout"
)

// Snapshot is the set of anchorables and documents that were live before a
// layout was restored. It is read-only once captured.
type Snapshot struct {
	anchorables []*layout.Anchorable
	documents   []*layout.Document
}

// Capture records every anchorable and document of root in traversal order.
// A nil root gives an empty snapshot.
func Capture(root *layout.Root) *Snapshot {
	if root == nil {
		return &Snapshot{}
	}
	return &Snapshot{
		anchorables: root.Anchorables(),
		documents:   root.Documents(),
	}
}

// Anchorable returns the first captured anchorable with contentID, or nil.
func (s *Snapshot) Anchorable(contentID string) *layout.Anchorable {
	return find(s.anchorables, contentID)
}

// Document returns the first captured document with contentID, or nil.
func (s *Snapshot) Document(contentID string) *layout.Document {
	return find(s.documents, contentID)
}

// Anchorables returns the captured anchorables.
func (s *Snapshot) Anchorables() []*layout.Anchorable { return slices.Clone(s.anchorables) }

// Documents returns the captured documents.
func (s *Snapshot) Documents() []*layout.Document { return slices.Clone(s.documents) }

func find[T layout.Content](items []T, contentID string) T {
	for _, it := range items {
		if it.Base().ContentID == contentID {
			return it
		}
	}
	var zero T
	return zero
}
