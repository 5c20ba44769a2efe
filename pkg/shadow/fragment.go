package shadow

import "github.com/vango-dev/shadowtree/internal/errors"

// Tag identifies a node within a tree generation. Tag 0 is reserved and
// means "absent" in a Fragment.
type Tag int32

// Props is the style and behavior payload of a node. Implementations must
// make Seal idempotent and refuse mutation once sealed.
type Props interface {
	Seal()
	DebugProps() []DebugProp
}

// EventEmitter dispatches UI events for one logical element.
type EventEmitter interface {
	SetEnabled(enabled bool)
}

// LocalData is an opaque side-channel payload, such as measured layout
// results, attached to a node after construction.
type LocalData any

// Fragment holds the fields used to construct or derive a node.
// Zero-valued fields are absent; on derivation they are inherited by
// reference from the source node.
type Fragment struct {
	Tag          Tag
	RootTag      Tag
	Props        Props
	EventEmitter EventEmitter
	Children     *ChildList
	LocalData    LocalData
}

// CloneFunc produces a node of the same concrete kind as source, with the
// fields present in fragment overriding those of source.
type CloneFunc func(source *Node, fragment Fragment) *Node

// Kind describes a concrete node type. It is captured when a node is
// first constructed and propagated unchanged through every derivation.
type Kind interface {
	// Name returns the component name, e.g. "View".
	Name() string

	// Clone derives a node of this kind from source.
	Clone(source *Node, fragment Fragment) *Node
}

type funcKind struct {
	name  string
	clone CloneFunc
}

func (k *funcKind) Name() string { return k.name }

func (k *funcKind) Clone(source *Node, fragment Fragment) *Node {
	if k.clone == nil {
		panic(errors.Invariant(errors.CodeCloneMissing, "shadow.Clone").
			WithTag(int32(source.Tag())).
			WithDetailf("kind %q has no clone function", k.name))
	}
	return k.clone(source, fragment)
}

// NewKind returns a Kind with the given component name and clone function.
func NewKind(name string, clone CloneFunc) Kind {
	return &funcKind{name: name, clone: clone}
}

// DeriveFunc is the CloneFunc of kinds that add no behavior of their own.
func DeriveFunc(source *Node, fragment Fragment) *Node {
	return Derive(source, fragment)
}
