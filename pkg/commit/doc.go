// Package commit holds the published generations of a shadow tree.
//
// A producer builds the next generation on its own goroutine, deriving
// changed nodes from the current root and sharing everything else, then
// commits it. Commit seals the whole generation, numbers it, and publishes
// it atomically; from then on any number of goroutines may read it through
// Current without locking.
//
//	tree := commit.New(1, commit.WithLogger(logger), commit.WithMountSignaling(true))
//
//	gen, err := tree.Update(ctx, func(prev *shadow.Node) *shadow.Node {
//	    next := prev.Clone(shadow.Fragment{})
//	    next.AppendChild(b.Text("new row"))
//	    return next
//	})
//
// With mount signaling enabled, a commit enables the event emitters of
// every node in the new generation and disables those of tags that left
// the tree.
//
// Subscribers run synchronously on the committing goroutine, in commit
// order, after the generation is visible through Current. A subscriber
// must not commit to the tree that notified it.
package commit
