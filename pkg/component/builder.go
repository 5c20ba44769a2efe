package component

import (
	"github.com/vango-dev/shadowtree/pkg/events"
	"github.com/vango-dev/shadowtree/pkg/props"
	"github.com/vango-dev/shadowtree/pkg/shadow"
)

// Builder constructs the nodes of one root tree. Tags are allocated
// sequentially after the root tag unless an element is given an explicit
// shadow.Tag argument.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	rootTag shadow.Tag
	next    shadow.Tag
}

// NewBuilder returns a builder for the tree identified by rootTag.
func NewBuilder(rootTag shadow.Tag) *Builder {
	return &Builder{rootTag: rootTag, next: rootTag}
}

// RootTag returns the tag of the tree being built.
func (b *Builder) RootTag() shadow.Tag {
	return b.rootTag
}

// NextTag allocates an unused tag.
func (b *Builder) NextTag() shadow.Tag {
	b.next++
	return b.next
}

// Create constructs a node of the given kind.
// Arguments can be: nil, shadow.Tag, props.Attr, []props.Attr, *shadow.Node,
// []*shadow.Node, events.Handler, []events.Handler, Measurement, string.
// A string becomes a Text child.
func (b *Builder) Create(kind shadow.Kind, args ...any) *shadow.Node {
	var (
		tag      shadow.Tag
		attrs    []props.Attr
		children []*shadow.Node
		handlers []events.Handler
		local    shadow.LocalData
	)

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional arguments)
			continue

		case shadow.Tag:
			tag = v
			if v > b.next {
				b.next = v
			}

		case props.Attr:
			if !v.IsEmpty() {
				attrs = append(attrs, v)
			}

		case []props.Attr:
			for _, attr := range v {
				if !attr.IsEmpty() {
					attrs = append(attrs, attr)
				}
			}

		case *shadow.Node:
			if v != nil {
				children = append(children, v)
			}

		case []*shadow.Node:
			for _, child := range v {
				if child != nil {
					children = append(children, child)
				}
			}

		case events.Handler:
			handlers = append(handlers, v)

		case []events.Handler:
			handlers = append(handlers, v...)

		case Measurement:
			local = v

		case string:
			// Shorthand for a text child
			children = append(children, b.Text(v))
		}
	}

	if tag == 0 {
		tag = b.NextTag()
	}

	fragment := shadow.Fragment{
		Tag:     tag,
		RootTag: b.rootTag,
		Props:   props.New(attrs...),
	}
	if len(handlers) > 0 {
		fragment.EventEmitter = events.NewEmitter(tag, handlers...)
	}
	if len(children) > 0 {
		fragment.Children = shadow.NewChildList(children...)
	}
	if local != nil {
		fragment.LocalData = local
	}
	return shadow.New(fragment, kind)
}

// Root creates the root node. Its tag is always the builder's root tag.
func (b *Builder) Root(args ...any) *shadow.Node {
	n := b.Create(RootKind, append(args, b.rootTag)...)
	assertRoot(n, "component.Root")
	return n
}

// View creates a View node.
func (b *Builder) View(args ...any) *shadow.Node {
	return b.Create(ViewKind, args...)
}

// ScrollView creates a ScrollView node.
func (b *Builder) ScrollView(args ...any) *shadow.Node {
	return b.Create(ScrollViewKind, args...)
}

// Text creates a Text node displaying content.
func (b *Builder) Text(content string, args ...any) *shadow.Node {
	return b.Create(TextKind, append([]any{props.Text(content)}, args...)...)
}

// Image creates an Image node loading source.
func (b *Builder) Image(source string, args ...any) *shadow.Node {
	return b.Create(ImageKind, append([]any{props.Source(source)}, args...)...)
}
