package shadow

// AncestorPath returns the nodes between ancestor and n, ordered from n's
// nearest ancestor up to and including ancestor, and whether n was found
// under ancestor at all. Nodes are compared by pointer identity. On failure
// the path is nil. If n is ancestor, the path is empty and found is true.
//
// Nodes keep no parent pointers because a shared node has a different
// parent in every generation that reaches it, so this is a depth-first
// search costing O(size of ancestor's subtree).
//
// TODO: cache per-generation parent maps in commit.Generation so repeated
// event dispatch on a large tree stops paying for the search.
func (n *Node) AncestorPath(ancestor *Node) ([]*Node, bool) {
	var path []*Node
	if !n.constructAncestorPath(ancestor, &path) {
		return nil, false
	}
	if path == nil {
		path = []*Node{}
	}
	return path, true
}

func (n *Node) constructAncestorPath(ancestor *Node, path *[]*Node) bool {
	if n == ancestor {
		return true
	}
	for _, child := range ancestor.children.nodes {
		if n.constructAncestorPath(child, path) {
			*path = append(*path, ancestor)
			return true
		}
	}
	return false
}
