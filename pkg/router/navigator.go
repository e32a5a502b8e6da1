package router

import (
	"log/slog"
	"net/url"

	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/navbus"
	"golang.org/x/net/html"
)

// Signal announces a completed client-side route change.
type Signal struct {
	Pathname string
	Params   Params
	// Pattern is the route pattern that matched.
	Pattern string
}

// NavigateOptions configures a programmatic navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool

	// Query is added to the URL as a query string.
	Query url.Values

	// State is stored on the history entry.
	State any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithQuery adds query parameters to the navigation URL.
func WithQuery(q url.Values) NavigateOption {
	return func(o *NavigateOptions) {
		o.Query = q
	}
}

// WithState stores state on the new history entry.
func WithState(state any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// Navigator intercepts link activation and history traversal on a document
// and performs client-side navigation for paths the matcher knows.
type Navigator struct {
	doc      *dom.Document
	matcher  *Matcher
	bus      *navbus.Bus[Signal]
	logger   *slog.Logger
	params   Params
	current  *Match
	bindings []dom.Binding
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithLogger sets the navigator's logger.
func WithLogger(l *slog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = l
	}
}

// NewNavigator attaches click and popstate listeners to doc. Signals are
// published on bus. The initial location is matched once, without a
// broadcast, so Params is meaningful on first load. Call Close to detach.
func NewNavigator(doc *dom.Document, matcher *Matcher, bus *navbus.Bus[Signal], opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		doc:     doc,
		matcher: matcher,
		bus:     bus,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}

	if match, ok := matcher.Match(doc.Window().Location().Pathname); ok {
		n.current = match
		n.params = match.Params
	}

	n.bindings = append(n.bindings,
		doc.Listen(doc.Node(), "click", n.handleClick),
		doc.Listen(doc.Node(), "popstate", func(*dom.Event) { n.handleRoute() }),
	)
	return n
}

// Close removes the navigator's listeners from the document.
func (n *Navigator) Close() {
	for _, b := range n.bindings {
		n.doc.Unlisten(b)
	}
	n.bindings = nil
}

// Matcher returns the navigator's route matcher.
func (n *Navigator) Matcher() *Matcher {
	return n.matcher
}

// Register adds a route pattern to the navigator's matcher.
func (n *Navigator) Register(pattern string) (*Route, error) {
	return n.matcher.Register(pattern)
}

// handleClick performs client-side navigation for same-origin anchors whose
// path matches a registered route. Anything else keeps its default action.
func (n *Navigator) handleClick(ev *dom.Event) {
	link := n.closestLink(ev.Target)
	if link == nil {
		return
	}

	win := n.doc.Window()
	u, err := win.Resolve(dom.Attr(link, "href"))
	if err != nil || !win.SameOrigin(u) {
		return
	}

	pathname := dom.Pathname(u)
	if _, ok := n.matcher.Match(pathname); !ok {
		return
	}

	ev.PreventDefault()
	n.Navigate(pathname)
}

func (n *Navigator) closestLink(target *html.Node) *html.Node {
	if target == nil {
		return nil
	}
	return n.doc.Closest(target, "a[href]")
}

// Navigate pushes path onto the history and resolves it.
func (n *Navigator) Navigate(path string, opts ...NavigateOption) {
	var options NavigateOptions
	for _, opt := range opts {
		opt(&options)
	}

	target := path
	if len(options.Query) > 0 {
		target += "?" + options.Query.Encode()
	}

	h := n.doc.Window().History()
	if options.Replace {
		h.Replace(target, options.State)
	} else {
		h.Push(target, options.State)
	}
	n.handleRoute()
}

// Back traverses one history entry back.
func (n *Navigator) Back() bool {
	return n.doc.Window().History().Back()
}

// Forward traverses one history entry forward.
func (n *Navigator) Forward() bool {
	return n.doc.Window().History().Forward()
}

// Resolve matches the current location and broadcasts it, falling back to a
// hard navigation when nothing matches. Applications call it once on load.
func (n *Navigator) Resolve() bool {
	return n.handleRoute()
}

// handleRoute is the match-and-broadcast step.
func (n *Navigator) handleRoute() bool {
	pathname := n.doc.Window().Location().Pathname
	match, ok := n.matcher.Match(pathname)
	if !ok {
		n.logger.Debug("no client route, loading document", "path", pathname)
		n.doc.Window().Assign(pathname)
		return false
	}

	n.current = match
	n.params = match.Params
	n.logger.Debug("route change", "path", pathname, "pattern", match.Route.Pattern)

	if n.bus != nil {
		n.bus.Publish(Signal{
			Pathname: pathname,
			Params:   match.Params,
			Pattern:  match.Route.Pattern,
		})
	}
	return true
}

// Params returns the parameters of the most recent successful match.
// It returns nil if neither the initial location nor any navigation matched.
func (n *Navigator) Params() Params {
	return n.params
}

// Param returns one parameter of the most recent successful match.
func (n *Navigator) Param(key string) (string, bool) {
	return n.params.Get(key)
}

// Current returns the most recent successful match, or nil.
func (n *Navigator) Current() *Match {
	return n.current
}
