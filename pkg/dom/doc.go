// Package dom is a headless host document for the component runtime.
//
// Nodes are golang.org/x/net/html nodes; markup is parsed with the HTML5
// fragment parser and selectors are compiled with cascadia. On top of the
// tree the package models what the runtime needs from a browser:
//
//   - tracked event listeners with bubbling dispatch and preventDefault
//   - custom events carrying a detail payload
//   - a Window with location, same-origin checks, and hard navigation
//   - a History with push/replace observers and asynchronous popstate
//
// A Document is not safe for concurrent use. Every call must happen on the
// goroutine that drains the application loop.
package dom
