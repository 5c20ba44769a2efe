package shadow

import "sync/atomic"

// Origin tells an Observer how a node came to exist.
type Origin uint8

const (
	OriginFresh   Origin = iota // constructed with New
	OriginDerived               // derived from a predecessor
)

// String returns the string representation of the Origin.
func (o Origin) String() string {
	switch o {
	case OriginFresh:
		return "fresh"
	case OriginDerived:
		return "derived"
	default:
		return "unknown"
	}
}

// Observer receives structural events from every tree in the process.
// Implementations must be safe for concurrent use and cheap: they run on
// the tree-building hot path.
type Observer interface {
	// NodeCreated is called once per constructed or derived node.
	NodeCreated(origin Origin)

	// ChildrenCopied is called when a node privatises a shared children
	// list of the given length.
	ChildrenCopied(length int)

	// NodeSealed is called when a node transitions from unsealed to sealed.
	NodeSealed()

	// ReplaceFallback is called when ReplaceChild falls back to a linear scan.
	ReplaceFallback()
}

type nopObserver struct{}

func (nopObserver) NodeCreated(Origin) {}
func (nopObserver) ChildrenCopied(int) {}
func (nopObserver) NodeSealed() {}
func (nopObserver) ReplaceFallback() {}

type observerHolder struct {
	Observer
}

var currentObserver atomic.Pointer[observerHolder]

func init() {
	currentObserver.Store(&observerHolder{nopObserver{}})
}

// SetObserver installs o as the process-wide observer and returns the
// previous one. Pass nil to remove observation.
func SetObserver(o Observer) Observer {
	if o == nil {
		o = nopObserver{}
	}
	prev := currentObserver.Swap(&observerHolder{o})
	return prev.Observer
}

func observe() Observer {
	return currentObserver.Load().Observer
}
