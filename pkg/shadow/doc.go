// Package shadow provides the shadow tree: an immutable, versioned tree of
// nodes describing a UI component hierarchy at one point in time.
//
// Each render pass produces a new tree generation by cloning only the path
// from a mutated node up to the root. Unchanged subtrees are shared with the
// previous generation by reference. When the generation is complete it is
// sealed with SealRecursive, after which it may be handed to any number of
// goroutines (layout, diffing, inspection) while the next generation is
// built.
//
// # Core Types
//
// Node is the unit of the tree. It carries a Tag (the external handle other
// subsystems use), a Props object, an EventEmitter, an ordered ChildList and
// optional local data such as layout results.
//
// Fragment is the partial-override record used both to construct and to
// derive nodes. Zero fields are absent and are inherited from the source
// node on derivation.
//
// Kind supplies the clone operation and component name of a concrete node
// type (views, text, images, ...). It is captured at construction and
// inherited unchanged by every derived node.
//
// # Building a Generation
//
//	root := shadow.New(shadow.Fragment{Tag: 1, RootTag: 1, Props: p}, rootKind)
//	root.AppendChild(child)
//	root.SealRecursive()
//
//	next := root.Clone(shadow.Fragment{})
//	next.ReplaceChild(child, child.Clone(shadow.Fragment{Props: p2}), 0)
//	next.SealRecursive()
//
// # Copy-on-write Children
//
// A derived node aliases its predecessor's ChildList until its first child
// mutation, which makes exactly one shallow copy of the child pointers. Nodes
// that never mutate their children pay nothing.
//
// # Invariant Violations
//
// Mutating a sealed node, constructing a node without props and cloning a
// node without a clone operation are programming errors. They panic with a
// coded *errors.TreeError (see InvariantCode).
//
// # Concurrency
//
// A tree is built by a single goroutine without locking. Once SealRecursive
// returns, every reachable node is immutable and safe for concurrent reads.
package shadow
