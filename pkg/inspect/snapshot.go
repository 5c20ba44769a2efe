package inspect

import (
	"time"

	"github.com/vango-dev/shadowtree/pkg/commit"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// maxDepth limits recursion depth for malformed trees.
const maxDepth = 500

// Snapshot is a serializable copy of a node and its subtree.
type Snapshot struct {
	Tag       int32              `json:"tag" yaml:"tag"`
	Component string             `json:"component" yaml:"component"`
	Revision  int                `json:"revision" yaml:"revision"`
	Sealed    bool               `json:"sealed" yaml:"sealed"`
	Props     []shadow.DebugProp `json:"props,omitempty" yaml:"props,omitempty"`
	Children  []*Snapshot        `json:"children,omitempty" yaml:"children,omitempty"`
}

// GenerationSnapshot is a serializable copy of a committed generation.
type GenerationSnapshot struct {
	Generation  uint64    `json:"generation" yaml:"generation"`
	CommittedAt time.Time `json:"committedAt" yaml:"committedAt"`
	Nodes       int       `json:"nodes" yaml:"nodes"`
	Root        *Snapshot `json:"root" yaml:"root"`
}

// NodeRef identifies a node without its subtree.
type NodeRef struct {
	Tag       int32  `json:"tag" yaml:"tag"`
	Component string `json:"component" yaml:"component"`
}

// Capture copies n and its subtree into a Snapshot.
func Capture(n *shadow.Node) *Snapshot {
	return capture(n, 0)
}

func capture(n *shadow.Node, depth int) *Snapshot {
	s := &Snapshot{
		Tag:       int32(n.Tag()),
		Component: n.ComponentName(),
		Revision:  n.Revision(),
		Sealed:    n.Sealed(),
	}
	if props := n.Props().DebugProps(); len(props) > 0 {
		s.Props = props
	}
	if depth >= maxDepth {
		return s
	}
	children := n.DebugChildren()
	if len(children) > 0 {
		s.Children = make([]*Snapshot, len(children))
		for i, child := range children {
			s.Children[i] = capture(child, depth+1)
		}
	}
	return s
}

// CaptureGeneration copies a committed generation.
func CaptureGeneration(gen *commit.Generation) *GenerationSnapshot {
	return &GenerationSnapshot{
		Generation:  gen.Number,
		CommittedAt: gen.CommittedAt,
		Nodes:       gen.Len(),
		Root:        Capture(gen.Root),
	}
}

// Ref returns the NodeRef of n.
func Ref(n *shadow.Node) NodeRef {
	return NodeRef{Tag: int32(n.Tag()), Component: n.ComponentName()}
}

// Walk calls fn for n and every node below it in depth-first pre-order.
// If fn returns false, the children of that node are skipped. A node
// reached through several parents is visited once per path.
func Walk(n *shadow.Node, fn func(n *shadow.Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *shadow.Node, depth int, fn func(*shadow.Node, int) bool) {
	if !fn(n, depth) || depth >= maxDepth {
		return
	}
	for _, child := range n.Children() {
		walk(child, depth+1, fn)
	}
}

// Count returns the number of node positions in n's subtree, n included.
func Count(n *shadow.Node) int {
	count := 0
	Walk(n, func(*shadow.Node, int) bool {
		count++
		return true
	})
	return count
}

// Find returns the first node with the given tag in n's subtree.
func Find(n *shadow.Node, tag shadow.Tag) (*shadow.Node, bool) {
	var found *shadow.Node
	Walk(n, func(node *shadow.Node, _ int) bool {
		if found != nil {
			return false
		}
		if node.Tag() == tag {
			found = node
			return false
		}
		return true
	})
	return found, found != nil
}
