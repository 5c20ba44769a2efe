package shadow

import (
	"sort"
	"sync"
	"testing"
)

// testProps is a minimal Props implementation.
type testProps struct {
	Sealable
	values map[string]string
}

func newTestProps(kv ...string) *testProps {
	p := &testProps{values: make(map[string]string)}
	for i := 0; i+1 < len(kv); i += 2 {
		p.values[kv[i]] = kv[i+1]
	}
	return p
}

func (p *testProps) set(key, value string) {
	p.EnsureUnsealed("testProps.set")
	p.values[key] = value
}

func (p *testProps) DebugProps() []DebugProp {
	out := make([]DebugProp, 0, len(p.values))
	for k, v := range p.values {
		out = append(out, DebugProp{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// testEmitter records SetEnabled calls.
type testEmitter struct {
	mu      sync.Mutex
	enabled bool
	calls   int
}

func (e *testEmitter) SetEnabled(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = enabled
	e.calls++
}

// countingObserver counts structural events.
type countingObserver struct {
	mu        sync.Mutex
	fresh     int
	derived   int
	copies    int
	sealed    int
	fallbacks int
}

func (o *countingObserver) NodeCreated(origin Origin) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if origin == OriginFresh {
		o.fresh++
	} else {
		o.derived++
	}
}

func (o *countingObserver) ChildrenCopied(int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.copies++
}

func (o *countingObserver) NodeSealed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sealed++
}

func (o *countingObserver) ReplaceFallback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks++
}

// observeCounts installs a countingObserver for the duration of the test.
func observeCounts(t *testing.T) *countingObserver {
	t.Helper()
	o := &countingObserver{}
	prev := SetObserver(o)
	t.Cleanup(func() { SetObserver(prev) })
	return o
}

var testKind = NewKind("View", DeriveFunc)

// newTestNode returns an unsealed node with the given tag and children.
func newTestNode(tag Tag, children ...*Node) *Node {
	return New(Fragment{
		Tag:      tag,
		RootTag:  1,
		Props:    newTestProps(),
		Children: NewChildList(children...),
	}, testKind)
}

// expectInvariant runs fn and fails unless it panics with code.
func expectInvariant(t *testing.T, code string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic with %s, got none", code)
		}
		got, ok := InvariantCode(r)
		if !ok || got != code {
			t.Fatalf("panic = %v, want invariant %s", r, code)
		}
	}()
	fn()
}

func tagsOf(nodes []*Node) []Tag {
	tags := make([]Tag, len(nodes))
	for i, n := range nodes {
		tags[i] = n.Tag()
	}
	return tags
}

func equalTags(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
