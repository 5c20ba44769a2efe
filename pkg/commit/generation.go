package commit

import (
	"time"

	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Generation is one committed, sealed tree.
type Generation struct {
	// Number counts commits to the tree, starting at 1.
	Number uint64

	// Root is the sealed root node.
	Root *shadow.Node

	// CommittedAt is when the generation was published.
	CommittedAt time.Time

	nodes map[shadow.Tag]*shadow.Node
}

// Len returns the number of distinct tags reachable from the root.
func (g *Generation) Len() int {
	return len(g.nodes)
}

// Lookup returns the node with the given tag.
func (g *Generation) Lookup(tag shadow.Tag) (*shadow.Node, bool) {
	n, ok := g.nodes[tag]
	return n, ok
}

// indexTags maps every tag reachable from root to its node. A subtree
// reached twice is walked once.
func indexTags(root *shadow.Node) map[shadow.Tag]*shadow.Node {
	nodes := make(map[shadow.Tag]*shadow.Node)
	var walk func(n *shadow.Node)
	walk = func(n *shadow.Node) {
		if _, seen := nodes[n.Tag()]; seen {
			return
		}
		nodes[n.Tag()] = n
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
	return nodes
}
