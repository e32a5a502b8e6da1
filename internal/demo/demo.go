// Package demo registers the sample site: a home page, a dashboard, a users
// directory with detail pages, blog posts, API docs and a catch-all API
// gateway page. The CLI serves it through the bridge and the browse shell.
package demo

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/components"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/layout"
	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// Users is the directory shown on /users.
var Users = map[string]components.UserProfile{
	"1": {ID: "1", Name: "Alice Johnson", Title: "Developer", Status: components.StatusOnline, Projects: 12, Commits: 1480},
	"2": {ID: "2", Name: "Bob Smith", Title: "Designer", Status: components.StatusBusy, Projects: 7, Commits: 312},
	"3": {ID: "3", Name: "Charlie Brown", Title: "Manager", Status: components.StatusOffline, Projects: 4, Commits: 58},
	"4": {ID: "4", Name: "Diana Prince", Title: "Engineer", Status: components.StatusOnline, Projects: 15, Commits: 2210},
}

// Patterns lists the demo routes in registration order.
var Patterns = []string{
	"/",
	"/dashboard",
	"/users",
	"/users/[id]",
	"/posts/[slug]",
	"/api-docs",
	"/api/[...path]",
}

// Register adds every demo page to app.
func Register(app *fantoccini.App) error {
	handlers := map[string]fantoccini.PageHandler{
		"/":              home,
		"/dashboard":     dashboard,
		"/users":         users,
		"/users/[id]":    userDetail,
		"/posts/[slug]":  post,
		"/api-docs":      apiDocs,
		"/api/[...path]": apiGateway,
	}
	for _, pattern := range Patterns {
		if err := app.Page(pattern, handlers[pattern]); err != nil {
			return fmt.Errorf("demo page %s: %w", pattern, err)
		}
	}
	return nil
}

// newPage creates a page component from markup. attach runs after every
// render to place child components into the markup's containers.
func newPage(c *fantoccini.Ctx, name, markup string, attach func(p *component.Component) error) *component.Component {
	cfg := c.Components()
	return component.New(c.Document(), component.Options{
		Name:      name,
		Template:  markup,
		Scheduler: cfg.Scheduler,
		Logger:    cfg.Logger,
		Hooks: component.Hooks{
			AfterRender: func(p *component.Component) {
				if attach == nil {
					return
				}
				if err := attach(p); err != nil {
					p.Logger().Error("attaching page content failed", "error", err)
				}
			},
		},
	})
}

func hero(b *element.Builder, title, subtitle string) {
	b.DivClass("hero", "style", "padding: 2rem 0; text-align: center;").R(
		b.H2("style", "font-size: 2rem; margin: 0;").T(title),
		b.P("style", "color: #6b7280;").T(subtitle),
	)
}

func routeItems(routes []routesapi.RouteInfo) []components.LinkItem {
	items := make([]components.LinkItem, 0, len(routes))
	for _, r := range routes {
		items = append(items, components.LinkItem{Href: r.Path, Label: r.Label, Description: string(r.Type)})
	}
	return items
}

func home(c *fantoccini.Ctx) (any, error) {
	b := element.NewBuilder()
	b.DivClass("page-home").R(
		func() any { hero(b, "Fantoccini", "Components, routing and navigation on a headless document"); return nil }(),
		b.Div("id", "welcome").R(),
		b.Div("id", "routes").R(),
	)

	return newPage(c, "HomePage", b.String(), func(p *component.Component) error {
		cfg := c.Components()
		welcome := components.NewCard(c.Document(), cfg, "Welcome",
			"Every link below is routed on the client. Watch the navigation bar follow along.",
			components.CardGradient)
		if err := p.AddChild("welcome", welcome.Component, "#welcome"); err != nil {
			return err
		}
		list := components.NewLinkList(c.Document(), cfg, "Explore", components.ListDefault, routeItems(c.Routes())...)
		return p.AddChild("routes", list.Component, "#routes")
	}), nil
}

func dashboard(c *fantoccini.Ctx) (any, error) {
	routes := c.Routes()
	counts := map[routesapi.RouteType]int{}
	for _, r := range routes {
		counts[r.Type]++
	}

	b := element.NewBuilder()
	b.DivClass("page-dashboard").R(
		func() any { hero(b, "Dashboard", "An overview of the routes this site knows about"); return nil }(),
		b.Div("id", "stats", "style", "display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 1rem;").R(),
		b.Div("id", "quick-links").R(),
	)

	return newPage(c, "DashboardPage", b.String(), func(p *component.Component) error {
		cfg := c.Components()
		stats := []struct {
			key, title string
			n          int
			variant    components.CardVariant
		}{
			{"total", "Routes", len(routes), components.CardGradient},
			{"static", "Static", counts[routesapi.TypeStatic], components.CardDefault},
			{"dynamic", "Dynamic", counts[routesapi.TypeDynamic], components.CardInfo},
			{"api", "API", counts[routesapi.TypeAPI], components.CardTerminal},
		}
		for _, s := range stats {
			card := components.NewCard(c.Document(), cfg, s.title, strconv.Itoa(s.n), s.variant)
			if err := p.AddChild("stat-"+s.key, card.Component, "#stats"); err != nil {
				return err
			}
		}
		list := components.NewLinkList(c.Document(), cfg, "Quick links", components.ListNav, routeItems(routes)...)
		return p.AddChild("quick-links", list.Component, "#quick-links")
	}), nil
}

func users(c *fantoccini.Ctx) (any, error) {
	b := element.NewBuilder()
	b.DivClass("page-users").R(
		func() any {
			hero(b, "Users Directory", "Click on a user to view their details")
			return nil
		}(),
		b.Div("id", "users-grid", "style", "display: grid; gap: 1rem; margin-top: 2rem;").R(),
		b.Div("id", "dynamic-routes").R(),
	)

	return newPage(c, "UsersPage", b.String(), func(p *component.Component) error {
		cfg := c.Components()
		ids := make([]string, 0, len(Users))
		for id := range Users {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			card := components.NewUserCard(c.Document(), cfg, Users[id])
			if err := p.AddChild("user-"+id, card.Component, "#users-grid"); err != nil {
				return err
			}
		}

		p.Listen(nil, components.EventUserFollow, func(ev *dom.Event) {
			if f, ok := ev.Detail.(components.UserFollow); ok {
				p.Logger().Info("user follow toggled", "user", f.User.ID, "following", f.Following)
			}
		})
		p.Listen(nil, components.EventUserMessage, func(ev *dom.Event) {
			if m, ok := ev.Detail.(components.UserMessage); ok {
				c.Navigate("/users/" + m.User.ID)
			}
		})

		list := components.NewLinkList(c.Document(), cfg, "Try these dynamic routes:", components.ListDefault,
			components.LinkItem{Href: "/users/1", Label: "User 1 Details"},
			components.LinkItem{Href: "/users/999", Label: "Non-existent User"},
			components.LinkItem{Href: "/posts/hello-world", Label: "Blog Post (slug demo)"},
			components.LinkItem{Href: "/api/v1/users/list", Label: "API Route (catch-all demo)"},
		)
		return p.AddChild("dynamic-routes", list.Component, "#dynamic-routes")
	}), nil
}

func userDetail(c *fantoccini.Ctx) (any, error) {
	id := c.Param("id")
	user, ok := Users[id]

	b := element.NewBuilder()
	crumbs := []layout.Crumb{{Label: "Home", Href: "/"}, {Label: "Users", Href: "/users"}}
	if !ok {
		crumbs = append(crumbs, layout.Crumb{Label: "Not found"})
		b.DivClass("page-user").R(
			b.H2().T("User Not Found"),
			b.P().T(fmt.Sprintf("User with ID %q does not exist.", id)),
			b.A("href", "/users").T("Back to users"),
		)
		return layout.Breadcrumbs(crumbs) + b.String(), nil
	}

	crumbs = append(crumbs, layout.Crumb{Label: user.Name})
	b.DivClass("page-user").R(
		b.Div("id", "user-profile").R(),
		b.Div("id", "info").R(),
	)
	return newPage(c, "UserDetailPage", layout.Breadcrumbs(crumbs)+b.String(), func(p *component.Component) error {
		cfg := c.Components()
		card := components.NewUserCard(c.Document(), cfg, user)
		if err := p.AddChild("profile", card.Component, "#user-profile"); err != nil {
			return err
		}
		info := components.NewCard(c.Document(), cfg, "Route",
			fmt.Sprintf("Rendered by %s with id=%s", c.Pattern(), id), components.CardInfo)
		return p.AddChild("info", info.Component, "#info")
	}), nil
}

func post(c *fantoccini.Ctx) (any, error) {
	slug := c.Param("slug")
	title := router.GenerateLabel(slug)

	b := element.NewBuilder()
	b.DivClass("page-post").R(
		b.Div("id", "post").R(),
	)
	crumbs := layout.Breadcrumbs([]layout.Crumb{{Label: "Home", Href: "/"}, {Label: "Posts"}, {Label: title}})
	return newPage(c, "PostPage", crumbs+b.String(), func(p *component.Component) error {
		card := components.NewCard(c.Document(), c.Components(), title,
			fmt.Sprintf("This post was resolved from the slug %q.", slug), components.CardDefault, "Share")
		return p.AddChild("post", card.Component, "#post")
	}), nil
}

func apiDocs(c *fantoccini.Ctx) (any, error) {
	b := element.NewBuilder()
	b.DivClass("page-api-docs").R(
		func() any { hero(b, "API Docs", "Endpoints served next to the application"); return nil }(),
		b.Div("id", "endpoints").R(),
	)
	return newPage(c, "APIDocsPage", b.String(), func(p *component.Component) error {
		list := components.NewLinkList(c.Document(), c.Components(), "Endpoints", components.ListTerminal,
			components.LinkItem{Href: "/api/routes", Label: "GET /api/routes", Description: "route listing"},
			components.LinkItem{Href: "/api/stats", Label: "GET /api/stats", Description: "server statistics"},
			components.LinkItem{Href: "/api/v1/test", Label: "GET /api/*", Description: "catch-all message"},
			components.LinkItem{Href: "/metrics", Label: "GET /metrics", Description: "Prometheus metrics"},
		)
		return p.AddChild("endpoints", list.Component, "#endpoints")
	}), nil
}

func apiGateway(c *fantoccini.Ctx) (any, error) {
	path := c.Param("path")

	b := element.NewBuilder()
	b.DivClass("page-api").R(
		b.Div("id", "gateway").R(),
	)
	crumbs := layout.Breadcrumbs([]layout.Crumb{{Label: "Home", Href: "/"}, {Label: "API", Href: "/api-docs"}, {Label: path}})
	return newPage(c, "APIGatewayPage", crumbs+b.String(), func(p *component.Component) error {
		card := components.NewCard(c.Document(), c.Components(), "Gateway",
			fmt.Sprintf("Catch-all route matched /api/%s", path), components.CardTerminal)
		return p.AddChild("gateway", card.Component, "#gateway")
	}), nil
}

// RegisterDiscovered adds a generic page for every listed route the demo
// does not handle itself.
func RegisterDiscovered(app *fantoccini.App, routes []routesapi.RouteInfo) error {
	known := make(map[string]bool, len(Patterns))
	for _, p := range Patterns {
		known[p] = true
	}
	for _, r := range routes {
		if known[r.Path] {
			continue
		}
		known[r.Path] = true
		if err := app.Page(r.Path, discovered(r)); err != nil {
			return fmt.Errorf("discovered page %s: %w", r.Path, err)
		}
	}
	return nil
}

func discovered(r routesapi.RouteInfo) fantoccini.PageHandler {
	return func(c *fantoccini.Ctx) (any, error) {
		b := element.NewBuilder()
		b.DivClass("page-discovered").R(
			b.Div("id", "discovered").R(),
		)
		return newPage(c, "DiscoveredPage", b.String(), func(p *component.Component) error {
			body := fmt.Sprintf("%s route %s rendered %s", r.Type, r.Path, c.Path())
			if params := c.Params(); len(params) > 0 {
				body += fmt.Sprintf(" with %v", params.Map())
			}
			card := components.NewCard(c.Document(), c.Components(), r.Label, body, components.CardInfo)
			return p.AddChild("discovered", card.Component, "#discovered")
		}), nil
	}
}
