// Package props provides the sealable props object carried by shadow nodes.
//
// Props is an attribute map built from Attr values:
//
//	p := props.New(
//	    props.TestID("submit"),
//	    props.BackgroundColor("#fff"),
//	    props.Opacity(0.8),
//	)
//
// Props become read-only when the node carrying them is sealed. The next
// generation gets a fresh, unsealed copy through With:
//
//	next := p.With(props.Opacity(1))
package props
