package events

import (
	"sync"
	"testing"

	"github.com/vango-dev/shadowtree/pkg/props"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

var viewKind = shadow.NewKind("View", shadow.DeriveFunc)

func node(tag shadow.Tag, emitter shadow.EventEmitter, children ...*shadow.Node) *shadow.Node {
	return shadow.New(shadow.Fragment{
		Tag:          tag,
		RootTag:      1,
		Props:        props.New(),
		EventEmitter: emitter,
		Children:     shadow.NewChildList(children...),
	}, viewKind)
}

func TestDispatchRequiresEnabled(t *testing.T) {
	calls := 0
	e := NewEmitter(7, OnPress(func(*Event) { calls++ }))

	if e.Dispatch(NewEvent("press", nil)) {
		t.Fatal("Dispatch on disabled emitter = true")
	}
	e.SetEnabled(true)
	ev := NewEvent("press", nil)
	if !e.Dispatch(ev) {
		t.Fatal("Dispatch on enabled emitter = false")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if ev.Target != 7 || ev.CurrentTarget() != 7 {
		t.Errorf("Target = %d, CurrentTarget = %d, want 7", ev.Target, ev.CurrentTarget())
	}

	e.SetEnabled(false)
	e.Dispatch(NewEvent("press", nil))
	if calls != 1 {
		t.Errorf("calls after disable = %d, want 1", calls)
	}
}

func TestDispatchUnhandledEvent(t *testing.T) {
	e := NewEmitter(1, OnLayout(func(*Event) {}), Handler{Event: "onpress"})
	e.SetEnabled(true)

	if e.Handles("press") {
		t.Error("Handles(press) = true for nil handler")
	}
	if !e.Handles("layout") {
		t.Error("Handles(layout) = false")
	}
	if e.Dispatch(NewEvent("scroll", nil)) {
		t.Error("Dispatch(scroll) = true")
	}
}

func TestHandlerNames(t *testing.T) {
	tests := []struct {
		handler Handler
		want    string
	}{
		{OnPress(nil), "onpress"},
		{OnLongPress(nil), "onlongpress"},
		{OnTouchStart(nil), "ontouchstart"},
		{OnTouchEnd(nil), "ontouchend"},
		{OnFocus(nil), "onfocus"},
		{OnBlur(nil), "onblur"},
		{OnLayout(nil), "onlayout"},
		{OnScroll(nil), "onscroll"},
		{OnLoad(nil), "onload"},
		{OnError(nil), "onerror"},
		{On("swipe", nil), "onswipe"},
	}
	for _, tt := range tests {
		if tt.handler.Event != tt.want {
			t.Errorf("Event = %q, want %q", tt.handler.Event, tt.want)
		}
	}
}

func TestSetMountedDrivesEmitter(t *testing.T) {
	e := NewEmitter(2, OnPress(func(*Event) {}))
	n := node(2, e)
	n.SealRecursive()

	n.SetMounted(true)
	if !e.Enabled() {
		t.Fatal("emitter not enabled after SetMounted(true)")
	}
	n.SetMounted(false)
	if e.Enabled() {
		t.Fatal("emitter enabled after SetMounted(false)")
	}
}

func TestBubble(t *testing.T) {
	var order []shadow.Tag
	record := func(ev *Event) { order = append(order, ev.CurrentTarget()) }

	leafEm := NewEmitter(4, OnPress(record))
	midEm := NewEmitter(3, OnPress(record))
	rootEm := NewEmitter(1, OnPress(record))
	for _, e := range []*Emitter{leafEm, midEm, rootEm} {
		e.SetEnabled(true)
	}

	leaf := node(4, leafEm)
	silent := node(5, nil)
	mid := node(3, midEm, leaf, silent)
	plain := node(2, nil, mid)
	root := node(1, rootEm, plain)
	root.SealRecursive()

	ev := NewEvent("press", nil)
	if got := Bubble(root, leaf, ev); got != 3 {
		t.Fatalf("Bubble handled = %d, want 3", got)
	}
	want := []shadow.Tag{4, 3, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if ev.Target != 4 {
		t.Errorf("Target = %d, want 4", ev.Target)
	}

	if got := Route(root, leaf); len(got) != 4 || got[0] != 4 || got[3] != 1 {
		t.Errorf("Route = %v, want [4 3 2 1]", got)
	}
}

func TestBubbleStopPropagation(t *testing.T) {
	var rootCalled bool
	leafEm := NewEmitter(2, OnPress(func(ev *Event) { ev.StopPropagation() }))
	rootEm := NewEmitter(1, OnPress(func(*Event) { rootCalled = true }))
	leafEm.SetEnabled(true)
	rootEm.SetEnabled(true)

	leaf := node(2, leafEm)
	root := node(1, rootEm, leaf)

	if got := Bubble(root, leaf, NewEvent("press", nil)); got != 1 {
		t.Errorf("Bubble handled = %d, want 1", got)
	}
	if rootCalled {
		t.Error("root handler ran after StopPropagation")
	}
}

func TestBubbleOutsideTree(t *testing.T) {
	root := node(1, nil, node(2, nil))
	stray := node(9, NewEmitter(9, OnPress(func(*Event) { t.Error("stray handler ran") })))

	if got := Bubble(root, stray, NewEvent("press", nil)); got != 0 {
		t.Errorf("Bubble handled = %d, want 0", got)
	}
	if Route(root, stray) != nil {
		t.Error("Route for node outside tree is not nil")
	}
}

func TestEnabledConcurrent(t *testing.T) {
	e := NewEmitter(1, OnPress(func(*Event) {}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				e.SetEnabled((i+j)%2 == 0)
				_ = e.Enabled()
			}
		}(i)
	}
	wg.Wait()
}
