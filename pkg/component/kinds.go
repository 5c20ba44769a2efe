package component

import (
	"github.com/vango-dev/shadowtree/internal/errors"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Built-in kinds.
var (
	ViewKind       = shadow.NewKind("View", shadow.DeriveFunc)
	ScrollViewKind = shadow.NewKind("ScrollView", shadow.DeriveFunc)
	TextKind       = shadow.NewKind("Text", cloneMeasured)
	ImageKind      = shadow.NewKind("Image", cloneMeasured)
	RootKind       = shadow.NewKind("Root", cloneRoot)
)

// Measurement is the local data attached to Text and Image nodes once they
// have been measured.
type Measurement struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// MeasurementOf returns the measurement attached to n, if any.
func MeasurementOf(n *shadow.Node) (Measurement, bool) {
	m, ok := n.LocalData().(Measurement)
	return m, ok
}

// cloneMeasured derives a node and drops inherited local data when the
// props change, unless the fragment brings its own.
func cloneMeasured(source *shadow.Node, fragment shadow.Fragment) *shadow.Node {
	n := shadow.Derive(source, fragment)
	if fragment.Props != nil && fragment.LocalData == nil && n.LocalData() != nil {
		n.SetLocalData(nil)
	}
	return n
}

func cloneRoot(source *shadow.Node, fragment shadow.Fragment) *shadow.Node {
	n := shadow.Derive(source, fragment)
	assertRoot(n, "component.Root.Clone")
	return n
}

func assertRoot(n *shadow.Node, op string) {
	if n.Tag() != n.RootTag() {
		panic(errors.Invariant(errors.CodeRootTagMismatch, op).
			WithTag(int32(n.Tag())).
			WithDetailf("root tag is %d", n.RootTag()))
	}
}
