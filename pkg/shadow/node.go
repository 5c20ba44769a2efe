package shadow

import (
	"sync/atomic"

	"github.com/vango-dev/shadowtree/internal/errors"
)

// Seal states. sealTree implies sealNode.
const (
	sealOpen uint32 = iota
	sealNode        // this node and its props are frozen
	sealTree        // every node reachable from this one is frozen too
)

// Node is one element of a shadow tree.
//
// A Node is mutable only until it is sealed. Ownership is shared: the same
// node may be a child in several tree generations at once, so a Node never
// records its parent.
type Node struct {
	tag          Tag
	rootTag      Tag
	props        Props
	eventEmitter EventEmitter
	children     *ChildList
	localData    LocalData
	kind         Kind
	revision     int

	// childrenAreShared is true while children may be aliased by another
	// owner. Only the building goroutine reads or writes it.
	childrenAreShared bool

	seal atomic.Uint32
}

// New constructs a node from scratch. Absent children default to the shared
// empty list. The revision starts at 1.
//
// New panics with E100 if fragment.Props is nil. A nil kind is allowed, but
// such a node cannot be cloned.
func New(fragment Fragment, kind Kind) *Node {
	n := &Node{
		tag:               fragment.Tag,
		rootTag:           fragment.RootTag,
		props:             fragment.Props,
		eventEmitter:      fragment.EventEmitter,
		children:          fragment.Children,
		localData:         fragment.LocalData,
		kind:              kind,
		childrenAreShared: true,
		revision:          1,
	}
	if n.children == nil {
		n.children = emptyChildList
	}
	n.assertConstructed("shadow.New")
	observe().NodeCreated(OriginFresh)
	return n
}

// Derive constructs the successor of source. Fields present in fragment
// replace those of source; absent fields, including children and local
// data, are inherited by reference. The kind is always inherited and the
// revision is source's plus one.
//
// Derive is the building block of CloneFunc implementations. Callers
// building trees use Clone so that the concrete kind is preserved.
func Derive(source *Node, fragment Fragment) *Node {
	if source == nil {
		panic(errors.Invariant(errors.CodeNilSource, "shadow.Derive").WithTag(int32(fragment.Tag)))
	}
	n := &Node{
		tag:               source.tag,
		rootTag:           source.rootTag,
		props:             source.props,
		eventEmitter:      source.eventEmitter,
		children:          source.children,
		localData:         source.localData,
		kind:              source.kind,
		childrenAreShared: true,
		revision:          source.revision + 1,
	}
	if fragment.Tag != 0 {
		n.tag = fragment.Tag
	}
	if fragment.RootTag != 0 {
		n.rootTag = fragment.RootTag
	}
	if fragment.Props != nil {
		n.props = fragment.Props
	}
	if fragment.EventEmitter != nil {
		n.eventEmitter = fragment.EventEmitter
	}
	if fragment.Children != nil {
		n.children = fragment.Children
	} else if !source.Sealed() {
		// The list now has two owners. An unsealed source that already
		// privatised it must copy again before its next mutation.
		source.childrenAreShared = true
	}
	if fragment.LocalData != nil {
		n.localData = fragment.LocalData
	}
	n.assertConstructed("shadow.Derive")
	observe().NodeCreated(OriginDerived)
	return n
}

func (n *Node) assertConstructed(op string) {
	if n.props == nil {
		panic(errors.Invariant(errors.CodePropsMissing, op).WithTag(int32(n.tag)))
	}
	if n.children == nil {
		panic(errors.Invariant(errors.CodeChildrenMissing, op).WithTag(int32(n.tag)))
	}
}

// Clone returns a new node of the same kind as n with the fields present
// in fragment overridden. It never mutates n.
//
// Clone panics with E102 if n was constructed without a kind.
func (n *Node) Clone(fragment Fragment) *Node {
	if n.kind == nil {
		panic(errors.Invariant(errors.CodeCloneMissing, "shadow.Clone").WithTag(int32(n.tag)))
	}
	return n.kind.Clone(n, fragment)
}

// Getters

// Tag returns the node's identity within its tree generation.
func (n *Node) Tag() Tag {
	return n.tag
}

// RootTag returns the tag of the root tree this node belongs to.
func (n *Node) RootTag() Tag {
	return n.rootTag
}

// Props returns the node's props.
func (n *Node) Props() Props {
	return n.props
}

// EventEmitter returns the node's event emitter, which may be nil.
func (n *Node) EventEmitter() EventEmitter {
	return n.eventEmitter
}

// Children returns the node's children in order. The slice must not be
// modified; use AppendChild and ReplaceChild.
func (n *Node) Children() []*Node {
	return n.children.nodes
}

// ChildList returns the children list handle, which may be shared with
// other node instances. Handing the list out gives it a second owner, so
// an unsealed n copies it again before its next child mutation.
func (n *Node) ChildList() *ChildList {
	if !n.Sealed() {
		n.childrenAreShared = true
	}
	return n.children
}

// LocalData returns the node's local data, or nil.
func (n *Node) LocalData() LocalData {
	return n.localData
}

// Kind returns the node's kind, or nil.
func (n *Node) Kind() Kind {
	return n.kind
}

// Revision returns the number of derivations since the node's lineage was
// constructed, starting at 1. It is for ordering and debugging only.
func (n *Node) Revision() int {
	return n.revision
}

// Sealed reports whether the node has been sealed.
func (n *Node) Sealed() bool {
	return n.seal.Load() != sealOpen
}

// Mutating methods

// AppendChild adds child after the existing children.
func (n *Node) AppendChild(child *Node) {
	n.ensureUnsealed("shadow.AppendChild")
	if child == nil {
		panic(errors.Invariant(errors.CodeNilChild, "shadow.AppendChild").WithTag(int32(n.tag)))
	}

	n.cloneChildrenIfShared()
	n.children.nodes = append(n.children.nodes, child)
}

// ReplaceChild replaces oldChild with newChild. Children are compared by
// pointer identity.
//
// If suggestedIndex is in range and holds oldChild, only that slot is
// replaced. Otherwise every slot holding oldChild is replaced. A stale or
// negative suggestedIndex is not an error; pass -1 when no hint is known.
func (n *Node) ReplaceChild(oldChild, newChild *Node, suggestedIndex int) {
	n.ensureUnsealed("shadow.ReplaceChild")
	if newChild == nil {
		panic(errors.Invariant(errors.CodeNilChild, "shadow.ReplaceChild").WithTag(int32(n.tag)))
	}

	n.cloneChildrenIfShared()
	nodes := n.children.nodes

	if suggestedIndex >= 0 && suggestedIndex < len(nodes) && nodes[suggestedIndex] == oldChild {
		nodes[suggestedIndex] = newChild
		return
	}

	observe().ReplaceFallback()
	for i, child := range nodes {
		if child == oldChild {
			nodes[i] = newChild
		}
	}
}

// SetLocalData attaches data to the node.
func (n *Node) SetLocalData(data LocalData) {
	n.ensureUnsealed("shadow.SetLocalData")
	n.localData = data
}

// SetMounted enables or disables the node's event emitter. It changes no
// node state and may be called on sealed nodes.
func (n *Node) SetMounted(mounted bool) {
	if n.eventEmitter == nil {
		return
	}
	n.eventEmitter.SetEnabled(mounted)
}

// cloneChildrenIfShared gives n a private copy of its children list the
// first time it is mutated.
func (n *Node) cloneChildrenIfShared() {
	if !n.childrenAreShared {
		return
	}
	observe().ChildrenCopied(len(n.children.nodes))
	n.childrenAreShared = false
	n.children = n.children.clone()
}

func (n *Node) ensureUnsealed(op string) {
	if n.Sealed() {
		panic(errors.Invariant(errors.CodeMutationSealed, op).WithTag(int32(n.tag)))
	}
}

// Sealing

// Seal freezes the node and its props. Children are not affected.
// Seal is idempotent.
func (n *Node) Seal() {
	if !n.seal.CompareAndSwap(sealOpen, sealNode) {
		return
	}
	n.props.Seal()
	observe().NodeSealed()
}

// SealRecursive freezes the node, its props and every node reachable
// through its children. It returns immediately for a node whose subtree is
// already sealed, so sealing a generation that shares most of its nodes
// with the previous one only visits the new nodes.
func (n *Node) SealRecursive() {
	if n.seal.Load() == sealTree {
		return
	}
	n.Seal()
	for _, child := range n.children.nodes {
		child.SealRecursive()
	}
	n.seal.Store(sealTree)
}

// InvariantCode reports the error code carried by a value recovered from a
// panic raised by this package, such as "E101" for a mutation of a sealed
// node.
func InvariantCode(recovered any) (string, bool) {
	te, ok := errors.AsTreeError(recovered)
	if !ok || te.Category != errors.CategoryInvariant {
		return "", false
	}
	return te.Code, true
}
