// Package xmlcodec reads and writes layouts as XML documents rooted at
// <LayoutRoot>.
package xmlcodec

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/persist"
)

// Name is the codec name used in configuration.
const Name = "xml"

// Codec is the XML layout codec.
type Codec struct {
	// Indent is the number of spaces per nesting level; 0 writes a single line.
	Indent int
}

// New returns a codec writing two-space indented XML.
func New() *Codec {
	return &Codec{Indent: 2}
}

// Name returns "xml".
func (c *Codec) Name() string { return Name }

// Encode writes the structure of root.
func (c *Codec) Encode(w io.Writer, root *layout.Root) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.SetRoot(toElement(persist.Encode(root)))
	if c.Indent > 0 {
		doc.Indent(c.Indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write layout xml: %w", err)
	}
	return nil
}

// Decode reads a layout written by Encode.
func (c *Codec) Decode(r io.Reader) (*layout.Root, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse layout xml: %w", err)
	}
	el := doc.Root()
	if el == nil {
		return nil, fmt.Errorf("%w: empty xml document", persist.ErrUnknownElement)
	}
	return persist.Build(fromElement(el))
}

func toElement(n *persist.Node) *etree.Element {
	el := etree.NewElement(n.Name)
	for _, a := range n.Attrs {
		el.CreateAttr(a.Key, a.Value)
	}
	for _, child := range n.Children {
		el.AddChild(toElement(child))
	}
	return el
}

func fromElement(el *etree.Element) *persist.Node {
	n := persist.NewNode(el.Tag)
	for _, a := range el.Attr {
		n.SetAttr(a.Key, a.Value)
	}
	for _, child := range el.ChildElements() {
		n.Add(fromElement(child))
	}
	return n
}
