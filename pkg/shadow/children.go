package shadow

import "github.com/vango-dev/shadowtree/internal/errors"

// ChildList is an ordered list of child nodes. A ChildList may be aliased
// by several node instances; it is never mutated while shared. Nodes copy
// it before their first child mutation.
type ChildList struct {
	nodes []*Node
}

// emptyChildList is the canonical list used by nodes constructed without
// children. Every node starts out treating its list as shared, so this one
// is never written to.
var emptyChildList = &ChildList{}

// EmptyChildList returns the shared canonical empty list.
func EmptyChildList() *ChildList {
	return emptyChildList
}

// NewChildList returns a list holding nodes in order.
// It panics if any node is nil.
func NewChildList(nodes ...*Node) *ChildList {
	if len(nodes) == 0 {
		return emptyChildList
	}
	for _, n := range nodes {
		if n == nil {
			panic(errors.Invariant(errors.CodeNilChild, "shadow.NewChildList"))
		}
	}
	list := make([]*Node, len(nodes))
	copy(list, nodes)
	return &ChildList{nodes: list}
}

// Len returns the number of children.
func (l *ChildList) Len() int {
	return len(l.nodes)
}

// At returns the child at index i.
func (l *ChildList) At(i int) *Node {
	return l.nodes[i]
}

// Nodes returns the children in order. The slice must not be modified.
func (l *ChildList) Nodes() []*Node {
	return l.nodes
}

// clone returns a private shallow copy of the list with room for one more
// element, since a copy is always followed by a mutation.
func (l *ChildList) clone() *ChildList {
	list := make([]*Node, len(l.nodes), len(l.nodes)+1)
	copy(list, l.nodes)
	return &ChildList{nodes: list}
}
