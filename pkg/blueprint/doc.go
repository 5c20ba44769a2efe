// Package blueprint builds shadow trees from YAML descriptions.
//
//	rootTag: 1
//	root:
//	  component: Root
//	  children:
//	    - component: View
//	      props:
//	        testID: header
//	        style.backgroundColor: "#fff"
//	      children:
//	        - component: Text
//	          text: Welcome
//	          measurement: {width: 120, height: 18}
//	    - component: Image
//	      tag: 10
//	      source: logo.png
//
// Components are resolved through a component.Registry. The root node
// always carries the root tag; other nodes without an explicit tag are
// numbered in document order, skipping tags used explicitly.
package blueprint
