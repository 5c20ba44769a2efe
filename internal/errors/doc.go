// Package errors provides coded, structured errors for shadowtree.
//
// Two classes of failure exist and they are handled differently:
//
//   - Invariant violations (nil props at construction, mutation of a sealed
//     node, cloning a node without a clone operation) are programming errors
//     in tree-generation code. The shadow package panics with a *TreeError
//     carrying a code from the E1xx range.
//   - Everything else (bad configuration, bad blueprints, commit misuse,
//     archive I/O) is returned as an ordinary error that wraps a *TreeError.
//
// # Error Codes
//
// Each error has a unique code (e.g., "E101") that maps to a short message,
// a category and a longer explanation:
//
//	E1xx  invariant
//	E2xx  commit
//	E3xx  config
//	E4xx  blueprint
//	E5xx  archive and inspector
//
// # Usage
//
//	err := errors.New("E401").
//	    WithDetail(`component "Slider" is not registered`).
//	    WithSuggestion("Register the kind with component.Register before loading")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E401: Unknown component
//	//
//	//   component "Slider" is not registered
//	//
//	//   Hint: Register the kind with component.Register before loading
package errors
