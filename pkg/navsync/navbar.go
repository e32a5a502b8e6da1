package navsync

import (
	"context"
	"strings"

	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// StaticRoutes are shown until a route listing has been fetched, and kept
// when fetching fails.
var StaticRoutes = []routesapi.RouteInfo{
	{Path: "/", Label: "Home", Type: routesapi.TypeStatic},
	{Path: "/dashboard", Label: "Dashboard", Type: routesapi.TypeStatic},
	{Path: "/users", Label: "Users", Type: routesapi.TypeStatic},
	{Path: "/users/1", Label: "User Demo", Type: routesapi.TypeDynamic},
	{Path: "/posts/hello-world", Label: "Blog Demo", Type: routesapi.TypeDynamic},
	{Path: "/api/v1/test", Label: "API Demo", Type: routesapi.TypeAPI},
}

// NavBar is the shared navigation bar.
type NavBar struct {
	*component.Component

	cfg        Config
	unobserve  func()
	popBinding dom.Binding
	released   bool
	onRelease  func(*NavBar)
}

func newNavBar(doc *dom.Document, cfg Config, onRelease func(*NavBar)) *NavBar {
	n := &NavBar{cfg: cfg, onRelease: onRelease}
	n.Component = component.New(doc, component.Options{
		Name:      "NavBar",
		Tag:       "header",
		Scheduler: cfg.Loop,
		Logger:    cfg.Logger,
		Hooks: component.Hooks{
			InitialState: func() component.State {
				return component.Record(map[string]any{
					"routes":      append([]routesapi.RouteInfo(nil), StaticRoutes...),
					"currentPath": doc.Window().Location().Pathname,
				})
			},
			Template: func(c *component.Component, _ string) string {
				return renderNav(cfg.Brand, routesOf(c.State()), c.State().String("currentPath"))
			},
			BindEvents: n.bindEvents,
			OnMount:    n.onMount,
			OnUnmount:  func(*component.Component) { n.release() },
		},
	})

	h := doc.Window().History()
	n.unobserve = h.Observe(func(dom.Change) { n.scheduleSync() })
	n.popBinding = doc.Listen(doc.Node(), "popstate", func(*dom.Event) { n.scheduleSync() })
	return n
}

// Routes returns the routes currently shown.
func (n *NavBar) Routes() []routesapi.RouteInfo {
	return routesOf(n.State())
}

func routesOf(s component.State) []routesapi.RouteInfo {
	v, _ := s.Get("routes")
	routes, _ := v.([]routesapi.RouteInfo)
	return routes
}

// CurrentPath returns the path the active link was derived from.
func (n *NavBar) CurrentPath() string {
	return n.State().String("currentPath")
}

// ActivePaths returns the route paths currently highlighted.
func (n *NavBar) ActivePaths() []string {
	var out []string
	for _, a := range n.QueryAll("a.active") {
		out = append(out, dom.Attr(a, "data-route"))
	}
	return out
}

// Sync re-derives the current path from the window location immediately.
func (n *NavBar) Sync() error {
	if !n.Alive() {
		return nil
	}
	path := n.Document().Window().Location().Pathname
	if path == n.CurrentPath() {
		return nil
	}
	return n.SetState(component.Record(map[string]any{"currentPath": path}))
}

// scheduleSync runs Sync on the next loop tick.
func (n *NavBar) scheduleSync() {
	if n.cfg.Loop == nil {
		_ = n.Sync()
		return
	}
	n.cfg.Loop.Post(func() { _ = n.Sync() })
}

func (n *NavBar) onMount(c *component.Component) {
	if n.cfg.Fetcher == nil {
		return
	}
	c.Go(func(ctx context.Context) func() {
		routes, err := n.cfg.Fetcher.Routes(ctx)
		if err != nil {
			return func() {
				c.Logger().Info("route listing unavailable, keeping current routes", "error", err)
			}
		}
		return func() {
			_ = c.SetState(component.Record(map[string]any{"routes": routes}))
		}
	})
}

func (n *NavBar) bindEvents(c *component.Component) {
	c.Listen(nil, "click", func(ev *dom.Event) {
		link := c.Document().Closest(ev.Target, "a[data-route]")
		if link == nil {
			return
		}
		// Highlight immediately; the history observer confirms on the next tick.
		_ = c.SetState(component.Record(map[string]any{"currentPath": dom.Attr(link, "data-route")}))
	})
}

// release detaches the bar from history and popstate.
func (n *NavBar) release() {
	if n.released {
		return
	}
	n.released = true
	if n.unobserve != nil {
		n.unobserve()
	}
	n.Document().Unlisten(n.popBinding)
	if n.onRelease != nil {
		n.onRelease(n)
	}
}

// IsActive reports whether the link for routePath is active at current:
// an exact match, or for routes other than "/" a prefix match on the part
// of routePath before its first parameter.
func IsActive(current, routePath string) bool {
	if current == routePath {
		return true
	}
	if routePath == "/" {
		return false
	}
	prefix, _, _ := strings.Cut(routePath, "/[")
	return strings.HasPrefix(current, prefix)
}

// RouteInfo describes the kind of route at path.
func RouteInfo(path string) string {
	switch {
	case strings.Contains(path, "["):
		return "Dynamic Route"
	case strings.HasPrefix(path, "/api"):
		return "API Route"
	default:
		return "Static Route"
	}
}

func routeIcon(t routesapi.RouteType) string {
	switch t {
	case routesapi.TypeDynamic:
		return "🔄"
	case routesapi.TypeAPI:
		return "🔌"
	default:
		return "📁"
	}
}

const (
	barStyle  = "background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 1rem 2rem; box-shadow: 0 2px 10px rgba(0,0,0,0.1); position: sticky; top: 0; z-index: 1000;"
	rowStyle  = "max-width: 1200px; margin: 0 auto; display: flex; justify-content: space-between; align-items: center; flex-wrap: wrap; gap: 1rem;"
	linkStyle = "color: white; text-decoration: none; padding: 0.5rem 1rem; border-radius: 6px; display: inline-flex; align-items: center; gap: 0.5rem;"
	activeBg  = " background: rgba(255,255,255,0.2);"
)

func renderNav(brand string, routes []routesapi.RouteInfo, current string) string {
	b := element.NewBuilder()
	b.Nav("class", "navbar", "style", barStyle).R(
		b.Div("style", rowStyle).R(
			b.Div("class", "brand", "style", "color: white; font-size: 1.25rem; font-weight: bold;").T(brand),
			b.Nav("class", "nav-links", "style", "display: flex; gap: 0.5rem; flex-wrap: wrap; align-items: center;").R(
				func() any {
					for _, r := range routes {
						class, style := "nav-link", linkStyle
						if IsActive(current, r.Path) {
							class, style = "nav-link active", linkStyle+activeBg
						}
						b.A("href", r.Path, "data-route", r.Path, "class", class, "style", style).R(
							b.Span("class", "route-icon", "style", "font-size: 0.875rem; opacity: 0.8;").T(routeIcon(r.Type)),
							b.T(r.Label),
						)
					}
					return nil
				}(),
			),
			b.Div("style", "color: rgba(255,255,255,0.7); font-size: 0.875rem;").R(
				b.Span("id", "route-info").T(RouteInfo(current)),
			),
		),
	)
	return b.String()
}
