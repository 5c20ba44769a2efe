package shadow

import (
	"sync"
	"testing"
)

// buildChain returns a chain of depth nodes, root first.
func buildChain(depth int) []*Node {
	nodes := make([]*Node, depth)
	for i := depth - 1; i >= 0; i-- {
		if i == depth-1 {
			nodes[i] = newTestNode(Tag(i + 1))
		} else {
			nodes[i] = newTestNode(Tag(i+1), nodes[i+1])
		}
	}
	return nodes
}

func TestSeal_SealsNodeAndProps(t *testing.T) {
	child := newTestNode(2)
	n := newTestNode(1, child)

	n.Seal()

	if !n.Sealed() {
		t.Error("node should be sealed")
	}
	if !n.Props().(*testProps).Sealed() {
		t.Error("props should be sealed")
	}
	if child.Sealed() {
		t.Error("Seal should not seal children")
	}

	n.Seal() // idempotent
	if !n.Sealed() {
		t.Error("second Seal should keep the node sealed")
	}
}

func TestSeal_PropsRefuseMutation(t *testing.T) {
	n := newTestNode(1)
	props := n.Props().(*testProps)
	n.SealRecursive()

	expectInvariant(t, "E101", func() {
		props.set("color", "blue")
	})
}

func TestSealRecursive_SealsEveryNode(t *testing.T) {
	chain := buildChain(6)
	chain[0].AppendChild(newTestNode(100))

	chain[0].SealRecursive()

	for _, n := range chain {
		if !n.Sealed() {
			t.Errorf("node %d not sealed", n.Tag())
		}
		if !n.Props().(*testProps).Sealed() {
			t.Errorf("props of node %d not sealed", n.Tag())
		}
	}
	if !chain[0].Children()[1].Sealed() {
		t.Error("appended child not sealed")
	}
}

func TestSealRecursive_Idempotent(t *testing.T) {
	obs := observeCounts(t)
	chain := buildChain(8)

	chain[0].SealRecursive()
	if obs.sealed != 8 {
		t.Fatalf("first SealRecursive sealed %d nodes, want 8", obs.sealed)
	}

	chain[0].SealRecursive()
	if obs.sealed != 8 {
		t.Errorf("second SealRecursive sealed %d more nodes, want 0", obs.sealed-8)
	}
}

func TestSealRecursive_AfterShallowSeal(t *testing.T) {
	chain := buildChain(3)

	chain[0].Seal()
	chain[0].SealRecursive()

	for _, n := range chain {
		if !n.Sealed() {
			t.Errorf("node %d not sealed after SealRecursive on a shallow-sealed root", n.Tag())
		}
	}
}

func TestSealRecursive_SharedSubtreeVisitedOnce(t *testing.T) {
	shared := buildChain(5)
	root := newTestNode(100, shared[0])
	root.SealRecursive()

	obs := observeCounts(t)

	next := root.Clone(Fragment{})
	next.AppendChild(newTestNode(200))
	next.SealRecursive()

	if obs.sealed != 2 {
		t.Errorf("sealed %d nodes, want 2 (new root and new child)", obs.sealed)
	}
}

func TestSealedTree_ConcurrentReaders(t *testing.T) {
	root := newTestNode(1)
	for i := 0; i < 50; i++ {
		child := newTestNode(Tag(100 + i))
		for j := 0; j < 5; j++ {
			child.AppendChild(newTestNode(Tag(1000 + i*10 + j)))
		}
		root.AppendChild(child)
	}
	root.SealRecursive()

	var count func(n *Node) int
	count = func(n *Node) int {
		total := 1
		for _, c := range n.Children() {
			if !c.Sealed() {
				return -1
			}
			total += count(c)
		}
		_ = n.DebugProps()
		_ = n.DebugValue()
		return total
	}

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = count(root)
		}(i)
	}

	// Building the next generation while readers run must not disturb them.
	next := root.Clone(Fragment{})
	next.AppendChild(newTestNode(9999))

	wg.Wait()

	for i, got := range results {
		if got != 301 {
			t.Errorf("reader %d counted %d nodes, want 301", i, got)
		}
	}
	if len(root.Children()) != 50 {
		t.Errorf("sealed root children = %d, want 50", len(root.Children()))
	}
}
