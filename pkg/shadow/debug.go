package shadow

import (
	"fmt"
	"strconv"
)

// DebugProp is a name/value pair shown by inspection tooling.
type DebugProp struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ComponentName returns the name of the node's kind, or "Node" if it has
// none.
func (n *Node) ComponentName() string {
	if n.kind == nil {
		return "Node"
	}
	return n.kind.Name()
}

// DebugName returns the label tooling shows for the node.
func (n *Node) DebugName() string {
	return n.ComponentName()
}

// DebugValue returns the revision and seal state, e.g. "r3/sealed".
func (n *Node) DebugValue() string {
	v := "r" + strconv.Itoa(n.revision)
	if n.Sealed() {
		v += "/sealed"
	}
	return v
}

// DebugProps returns the props' debug pairs followed by the node's tag.
func (n *Node) DebugProps() []DebugProp {
	props := n.props.DebugProps()
	out := make([]DebugProp, 0, len(props)+1)
	out = append(out, props...)
	return append(out, DebugProp{Name: "tag", Value: strconv.Itoa(int(n.tag))})
}

// DebugChildren returns the node's children.
func (n *Node) DebugChildren() []*Node {
	return n.children.nodes
}

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s#%d %s", n.ComponentName(), n.tag, n.DebugValue())
}
