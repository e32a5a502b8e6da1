// Package router implements pattern-based client-side routing.
//
// The router provides:
//   - Pattern compilation for static, [param] and [...catchAll] segments
//   - Ordered first-match route lookup
//   - A Navigator that intercepts same-origin link clicks and history
//     traversal and broadcasts a Signal after every client-side route change
//   - Directory-based route discovery for building route listings
//
// # Patterns
//
// Dynamic route segments are written with brackets:
//
//	/users/[id]        → id matches one path segment
//	/posts/[slug]      → slug matches one path segment
//	/api/[...path]     → path matches the rest of the path, slashes included
//
// # Precedence
//
// Routes are tried in registration order and the first match wins. There is
// no most-specific-first ordering: registering /posts/[slug] before
// /posts/hello means /posts/hello resolves to /posts/[slug]. Lookup is a
// linear scan, which is fine for the handful of routes an application
// declares. Use SortBySpecificity on scanned routes before registering them
// if static routes should shadow dynamic ones.
//
// # Usage
//
//	m := router.NewMatcher()
//	m.MustRegister("/users/[id]", "/api/[...path]")
//
//	match, ok := m.Match("/users/42")
//	if ok {
//	    // match.Params.Value("id") == "42"
//	}
//
//	nav := router.NewNavigator(doc, m, bus)
//	defer nav.Close()
package router
