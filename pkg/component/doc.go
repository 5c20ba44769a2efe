// Package component provides the concrete node kinds of a shadow tree and
// a builder for constructing trees from them.
//
// Each kind supplies the clone operation that shadow.Node.Clone delegates
// to. View and ScrollView add nothing to plain derivation. Text and Image
// carry measured layout results as local data, which no longer hold once
// their props change, so cloning them with new props drops inherited
// measurements. Root nodes identify their tree: their tag always equals
// their root tag.
//
// Trees are built with a Builder, whose element functions accept the same
// loose argument lists as the rest of the toolkit:
//
//	b := component.NewBuilder(1)
//	root := b.Root(
//	    b.View(
//	        props.TestID("header"),
//	        events.OnPress(handlePress),
//	        "Welcome",
//	    ),
//	    b.Image("logo.png", props.Opacity(0.5)),
//	)
package component
