// Package persist maps a layout tree to and from a neutral node tree that the
// codecs (XML, JSON) write and read. Only structure is persisted: content,
// titles and icons belong to the running application.
package persist

// Attr is a single persisted attribute.
type Attr struct {
	Key   string
	Value string
}

// Node is one persisted element. Attribute order is kept so encoded output
// is stable.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
}

// NewNode returns a node with the given name.
func NewNode(name string) *Node {
	return &Node{Name: name}
}

// Attr returns the value of key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets key, replacing an existing value, and returns n.
func (n *Node) SetAttr(key, value string) *Node {
	for i := range n.Attrs {
		if n.Attrs[i].Key == key {
			n.Attrs[i].Value = value
			return n
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Value: value})
	return n
}

// Add appends children and returns n.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}
