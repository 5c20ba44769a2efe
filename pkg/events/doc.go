// Package events provides the event emitter attached to shadow nodes.
//
// An Emitter belongs to one logical element and keeps its handler table for
// the element's whole life, across every node revision that shares it. The
// mounting layer enables it when the element is mounted and disables it
// when unmounted (shadow.Node.SetMounted); events dispatched while disabled
// are dropped.
//
//	emitter := events.NewEmitter(tag,
//	    events.OnPress(func(e *events.Event) { ... }),
//	)
//
// Bubble delivers an event to a target node and then to each of its
// ancestors in a given tree generation, nearest first.
package events
