// Package jsoncodec reads and writes layouts as JSON.
package jsoncodec

import (
	"fmt"
	"io"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/zot/dock/internal/layout"
	"github.com/zot/dock/internal/persist"
)

// Name is the codec name used in configuration.
const Name = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// node is the JSON shape of a persist.Node. Map keys are written sorted.
type node struct {
	Type     string            `json:"type"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Children []*node           `json:"children,omitempty"`
}

// Codec is the JSON layout codec.
type Codec struct {
	// Indent is the indentation string; empty writes compact JSON.
	Indent string
}

// New returns a codec writing two-space indented JSON.
func New() *Codec {
	return &Codec{Indent: "  "}
}

// Name returns "json".
func (c *Codec) Name() string { return Name }

// Encode writes the structure of root.
func (c *Codec) Encode(w io.Writer, root *layout.Root) error {
	enc := json.NewEncoder(w)
	if c.Indent != "" {
		enc.SetIndent("", c.Indent)
	}
	if err := enc.Encode(toJSON(persist.Encode(root))); err != nil {
		return fmt.Errorf("write layout json: %w", err)
	}
	return nil
}

// Decode reads a layout written by Encode.
func (c *Codec) Decode(r io.Reader) (*layout.Root, error) {
	var n node
	if err := json.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("parse layout json: %w", err)
	}
	return persist.Build(fromJSON(&n))
}

func toJSON(n *persist.Node) *node {
	out := &node{Type: n.Name}
	if len(n.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(n.Attrs))
		for _, a := range n.Attrs {
			out.Attrs[a.Key] = a.Value
		}
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, toJSON(child))
	}
	return out
}

func fromJSON(n *node) *persist.Node {
	out := persist.NewNode(n.Type)
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out.SetAttr(k, n.Attrs[k])
	}
	for _, child := range n.Children {
		if child != nil {
			out.Add(fromJSON(child))
		}
	}
	return out
}
