package events

// on creates a Handler with the given name and function.
// The name is prefixed with "on" (e.g., "press" becomes "onpress").
func on(name string, fn HandlerFunc) Handler {
	return Handler{Event: "on" + name, Fn: fn}
}

// On handles a custom event name.
func On(name string, fn HandlerFunc) Handler { return on(name, fn) }

// Touch events

// OnPress handles press (tap) events.
func OnPress(fn HandlerFunc) Handler { return on("press", fn) }

// OnLongPress handles long-press events.
func OnLongPress(fn HandlerFunc) Handler { return on("longpress", fn) }

// OnTouchStart handles touchstart events.
func OnTouchStart(fn HandlerFunc) Handler { return on("touchstart", fn) }

// OnTouchMove handles touchmove events.
func OnTouchMove(fn HandlerFunc) Handler { return on("touchmove", fn) }

// OnTouchEnd handles touchend events.
func OnTouchEnd(fn HandlerFunc) Handler { return on("touchend", fn) }

// OnTouchCancel handles touchcancel events.
func OnTouchCancel(fn HandlerFunc) Handler { return on("touchcancel", fn) }

// Focus events

// OnFocus handles focus events.
func OnFocus(fn HandlerFunc) Handler { return on("focus", fn) }

// OnBlur handles blur events.
func OnBlur(fn HandlerFunc) Handler { return on("blur", fn) }

// Layout and scroll events

// OnLayout handles layout events, fired when the node's frame changes.
func OnLayout(fn HandlerFunc) Handler { return on("layout", fn) }

// OnScroll handles scroll events.
func OnScroll(fn HandlerFunc) Handler { return on("scroll", fn) }

// Image events

// OnLoad handles image load events.
func OnLoad(fn HandlerFunc) Handler { return on("load", fn) }

// OnError handles image load failures.
func OnError(fn HandlerFunc) Handler { return on("error", fn) }
