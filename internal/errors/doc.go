// Package errors provides structured, coded errors for fantoccini.
//
// Every failure the runtime reports to a caller carries a code from the
// registry (e.g. "E101"), a category, a short message, and optionally a
// wrapped cause and a hint on how to fix it.
//
// # Error Categories
//
//   - lifecycle: component mount/replace/unmount misuse, render panics
//   - routing: invalid route patterns
//   - network: route listing fetch failures
//   - storage: manifest store failures
//   - config: invalid project configuration
//
// # Usage
//
//	err := errors.New("E101").
//	    WithDetail(`selector "#app" matched nothing`).
//	    WithSuggestion("Mount the layout before mounting pages into it")
//
//	if errors.IsCode(err, "E101") {
//	    // parent not found
//	}
package errors
