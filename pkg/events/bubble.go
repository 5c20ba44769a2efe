package events

import "github.com/vango-dev/shadowtree/pkg/shadow"

// Bubble dispatches ev to target and then to each ancestor of target under
// root, nearest first, until a handler stops propagation. It returns the
// number of emitters that handled the event; 0 if target is not in root's
// tree.
//
// root should be a sealed generation. Nodes whose emitter is not an
// *Emitter are skipped.
func Bubble(root, target *shadow.Node, ev *Event) int {
	ancestors, ok := target.AncestorPath(root)
	if !ok {
		return 0
	}
	ev.Target = target.Tag()

	handled := 0
	route := append([]*shadow.Node{target}, ancestors...)
	for _, node := range route {
		emitter, ok := node.EventEmitter().(*Emitter)
		if !ok {
			continue
		}
		if emitter.Dispatch(ev) {
			handled++
		}
		if ev.Stopped() {
			break
		}
	}
	return handled
}

// Route returns the tags an event dispatched at target would visit under
// root, target first.
func Route(root, target *shadow.Node) []shadow.Tag {
	ancestors, ok := target.AncestorPath(root)
	if !ok {
		return nil
	}
	tags := make([]shadow.Tag, 0, len(ancestors)+1)
	tags = append(tags, target.Tag())
	for _, n := range ancestors {
		tags = append(tags, n.Tag())
	}
	return tags
}
