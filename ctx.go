package fantoccini

import (
	"log/slog"

	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/pkg/components"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// Ctx is what a PageHandler sees of the route it renders.
type Ctx struct {
	app    *App
	signal router.Signal
}

// Document returns the application document.
func (c *Ctx) Document() *dom.Document { return c.app.doc }

// Path returns the pathname being rendered.
func (c *Ctx) Path() string { return c.signal.Pathname }

// Pattern returns the matched route pattern, or "" for the not-found page.
func (c *Ctx) Pattern() string { return c.signal.Pattern }

// Params returns the route parameters in declaration order.
func (c *Ctx) Params() router.Params { return c.signal.Params }

// Param returns a route parameter, or "" if absent.
func (c *Ctx) Param(key string) string { return c.signal.Params.Value(key) }

// Logger returns the application logger.
func (c *Ctx) Logger() *slog.Logger { return c.app.logger }

// Components returns the options for components created by the page, so
// their background work runs on the application loop.
func (c *Ctx) Components() components.Config {
	return components.Config{Scheduler: c.app.loop, Logger: c.app.logger}
}

// Routes returns the routes listed in the navigation bar.
func (c *Ctx) Routes() []routesapi.RouteInfo {
	if bar := c.app.provider.Current(); bar != nil {
		return bar.Routes()
	}
	return nil
}

// Navigate performs a client-side navigation from inside a page. The new
// page renders once the current task completes.
func (c *Ctx) Navigate(path string) {
	c.app.loop.Post(func() { c.app.nav.Navigate(path) })
}

func notFoundPage(c *Ctx) (any, error) {
	b := element.NewBuilder()
	b.DivClass("page not-found").R(
		b.H2().T("Page not found"),
		b.P().R(
			b.T("Nothing is routed at "),
			b.Span("class", "path").T(c.Path()),
		),
		b.A("href", "/").T("Back to home"),
	)
	return b.String(), nil
}

func errorPage(err error) string {
	b := element.NewBuilder()
	b.DivClass("page page-error").R(
		b.H2().T("Something went wrong"),
		b.P().T(err.Error()),
	)
	return b.String()
}
