package events

import (
	"sync/atomic"

	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Event is a UI event travelling through the tree.
type Event struct {
	// Name is the event name without the "on" prefix, e.g. "press".
	Name string

	// Target is the tag of the node the event was dispatched to.
	Target shadow.Tag

	// Payload carries event-specific data.
	Payload any

	currentTarget shadow.Tag
	stopped       bool
}

// NewEvent creates an event with the given name and payload.
func NewEvent(name string, payload any) *Event {
	return &Event{Name: name, Payload: payload}
}

// StopPropagation prevents delivery to further ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// CurrentTarget returns the tag of the node whose handlers are running.
func (e *Event) CurrentTarget() shadow.Tag {
	return e.currentTarget
}

// HandlerFunc handles an event.
type HandlerFunc func(e *Event)

// Handler binds a HandlerFunc to an event name.
type Handler struct {
	Event string // "onpress", "onlayout", etc.
	Fn    HandlerFunc
}

// Emitter dispatches events for one element. It implements
// shadow.EventEmitter. The handler table is fixed at construction; the
// enabled flag may be flipped from any goroutine.
type Emitter struct {
	tag      shadow.Tag
	handlers map[string][]HandlerFunc
	enabled  atomic.Bool
}

// NewEmitter creates a disabled emitter for tag.
func NewEmitter(tag shadow.Tag, handlers ...Handler) *Emitter {
	e := &Emitter{
		tag:      tag,
		handlers: make(map[string][]HandlerFunc, len(handlers)),
	}
	for _, h := range handlers {
		if h.Event == "" || h.Fn == nil {
			continue
		}
		e.handlers[h.Event] = append(e.handlers[h.Event], h.Fn)
	}
	return e
}

// Tag returns the tag of the element the emitter belongs to.
func (e *Emitter) Tag() shadow.Tag {
	return e.tag
}

// SetEnabled enables or disables dispatch.
func (e *Emitter) SetEnabled(enabled bool) {
	e.enabled.Store(enabled)
}

// Enabled reports whether the emitter currently delivers events.
func (e *Emitter) Enabled() bool {
	return e.enabled.Load()
}

// Handles reports whether the emitter has a handler for the named event.
func (e *Emitter) Handles(name string) bool {
	return len(e.handlers["on"+name]) > 0
}

// Dispatch runs the handlers for ev.Name. It returns false without calling
// anything if the emitter is disabled or has no handler for the event.
func (e *Emitter) Dispatch(ev *Event) bool {
	if !e.enabled.Load() {
		return false
	}
	fns := e.handlers["on"+ev.Name]
	if len(fns) == 0 {
		return false
	}
	if ev.Target == 0 {
		ev.Target = e.tag
	}
	ev.currentTarget = e.tag
	for _, fn := range fns {
		fn(ev)
	}
	return true
}
