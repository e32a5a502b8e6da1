// Package fantoccini wires the headless document, the task loop, the router
// and the page frame into one application.
//
// Create an App, register a handler per route pattern and start it:
//
//	app, err := fantoccini.New(fantoccini.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.Page("/", home)
//	app.Page("/users/[id]", userDetail)
//	if err := app.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Every navigation signal mounts the matching page into the layout slot.
// An App drives its own loop on the calling goroutine: each call that
// touches the document queues its work, then drains the loop and waits for
// background fetches until nothing is left to run. Calls are serialized.
package fantoccini

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/bridge"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/layout"
	"github.com/vango-dev/fantoccini/pkg/loop"
	"github.com/vango-dev/fantoccini/pkg/navbus"
	"github.com/vango-dev/fantoccini/pkg/navsync"
	"github.com/vango-dev/fantoccini/pkg/router"
	"golang.org/x/net/html"
)

// ErrClosed is returned by calls on a closed App.
var ErrClosed = stderrors.New("fantoccini: app closed")

// PageHandler builds the content for a matched route. It returns a
// layout.Child (any component), an *html.Node, or a markup string.
type PageHandler func(c *Ctx) (any, error)

// App is a running single-page application on a headless document.
type App struct {
	cfg    Config
	logger *slog.Logger

	loop     *loop.Loop
	doc      *dom.Document
	bus      *navbus.Bus[router.Signal]
	matcher  *router.Matcher
	provider *navsync.Provider
	origin   string

	// Set by Start.
	nav         *router.Navigator
	layout      *layout.Layout
	unsubscribe func()

	pages    map[string]PageHandler
	notFound PageHandler
	current  router.Signal

	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates an App. Nothing is rendered until Start.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()

	a := &App{
		cfg:     cfg,
		logger:  cfg.Logger,
		loop:    loop.New(cfg.Logger),
		bus:     navbus.New[router.Signal](),
		matcher: router.NewMatcher(),
		pages:   make(map[string]PageHandler),
	}
	a.notFound = notFoundPage

	doc, err := dom.New(cfg.Href, dom.WithScheduler(a.loop), dom.WithLoader(a.onLoad))
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}
	a.doc = doc
	a.origin = doc.Window().Origin()
	a.provider = navsync.NewProvider(doc, navsync.Config{
		Loop:    a.loop,
		Fetcher: cfg.Fetcher,
		Brand:   cfg.Brand,
		Logger:  cfg.Logger,
	})
	return a, nil
}

// Page registers h for a route pattern such as "/users/[id]". Patterns are
// matched in registration order. Registering a pattern again replaces its
// handler.
func (a *App) Page(pattern string, h PageHandler) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	route, err := a.matcher.Register(pattern)
	if err != nil {
		return err
	}
	a.pages[route.Pattern] = h
	return nil
}

// NotFound sets the handler for locations no pattern matches.
func (a *App) NotFound(h PageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notFound = h
}

// Start mounts the layout into #app, installs the navigator and renders
// the page for the current location. Calling Start again is a no-op.
func (a *App) Start(ctx context.Context) error {
	return a.Do(ctx, func() error {
		if a.started {
			return nil
		}
		opts := *a.cfg.Layout
		if opts.Logger == nil {
			opts.Logger = a.logger
		}
		l, err := layout.Init(ctx, a.doc, a.provider, opts, nil)
		if err != nil {
			return err
		}
		a.layout = l
		a.nav = router.NewNavigator(a.doc, a.matcher, a.bus, router.WithLogger(a.logger))
		a.unsubscribe = a.bus.Subscribe(a.render)
		a.started = true

		a.nav.Resolve()
		return nil
	})
}

// Do runs fn on the loop, then runs everything fn queued, directly or
// through background work, before returning fn's error.
func (a *App) Do(ctx context.Context, fn func() error) error {
	_, err := a.exec(ctx, fn)
	return err
}

// HTML returns the markup of the document body.
func (a *App) HTML() string {
	markup, _ := a.exec(context.Background(), func() error { return nil })
	return markup
}

func (a *App) exec(ctx context.Context, fn func() error) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return "", ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var err error
	a.loop.Post(func() { err = fn() })
	a.loop.Settle()
	return a.doc.InnerHTML(a.doc.Body()), err
}

// Navigate performs a client-side navigation to path.
func (a *App) Navigate(ctx context.Context, path string) error {
	return a.Do(ctx, func() error {
		if err := a.checkStarted("navigate"); err != nil {
			return err
		}
		a.nav.Navigate(path)
		return nil
	})
}

// Click clicks the first element matching selector, as a user would.
func (a *App) Click(ctx context.Context, selector string) error {
	return a.Do(ctx, func() error {
		if err := a.checkStarted("click"); err != nil {
			return err
		}
		return a.click(selector)
	})
}

func (a *App) click(selector string) error {
	n := a.doc.Query(a.doc.Node(), selector)
	if n == nil {
		return fmt.Errorf("no element matches %q", selector)
	}
	a.doc.Click(n)
	return nil
}

// Apply runs a bridge command and returns the body markup once the
// document has settled. A click without a selector clicks the link to
// Path. App implements bridge.Page.
func (a *App) Apply(ctx context.Context, cmd bridge.Command) (string, error) {
	return a.exec(ctx, func() error {
		if err := a.checkStarted(string(cmd.Op)); err != nil {
			return err
		}
		switch cmd.Op {
		case bridge.OpNavigate:
			a.nav.Navigate(cmd.Path)
		case bridge.OpClick:
			sel := cmd.Selector
			if sel == "" {
				sel = fmt.Sprintf("a[href=%q]", cmd.Path)
			}
			return a.click(sel)
		case bridge.OpBack:
			if !a.nav.Back() {
				return stderrors.New("no previous history entry")
			}
		case bridge.OpForward:
			if !a.nav.Forward() {
				return stderrors.New("no next history entry")
			}
		case bridge.OpRender:
		default:
			return fmt.Errorf("unknown op %q", cmd.Op)
		}
		return nil
	})
}

// Subscribe registers fn for navigation signals. fn runs on the goroutine
// driving the App.
func (a *App) Subscribe(fn func(router.Signal)) (unsubscribe func()) {
	return a.bus.Subscribe(fn)
}

// Close unmounts the layout, releases the navigation bar and detaches the
// navigator. Close is safe to call more than once.
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}

	var err error
	a.loop.Post(func() {
		if a.unsubscribe != nil {
			a.unsubscribe()
		}
		if a.nav != nil {
			a.nav.Close()
		}
		if a.layout != nil && a.layout.Alive() {
			err = a.layout.Unmount()
		}
		a.provider.Close()
	})
	a.loop.Settle()
	a.loop.Close()
	a.closed = true
	return err
}

// Document returns the application document. Touch it only inside Do.
func (a *App) Document() *dom.Document { return a.doc }

// Layout returns the mounted layout, or nil before Start.
func (a *App) Layout() *layout.Layout { return a.layout }

// Navigator returns the navigator, or nil before Start.
func (a *App) Navigator() *router.Navigator { return a.nav }

// NavBar returns the shared navigation bar, or nil if none is mounted.
func (a *App) NavBar() *navsync.NavBar { return a.provider.Current() }

// Current returns the signal of the page on display.
func (a *App) Current() router.Signal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

func (a *App) checkStarted(op string) error {
	if !a.started {
		return errors.New("E106").WithDetail("%s before Start", op).
			WithSuggestion("Call app.Start before driving the app")
	}
	return nil
}

// render mounts the page registered for sig's pattern.
func (a *App) render(sig router.Signal) {
	h, ok := a.pages[sig.Pattern]
	if !ok {
		a.logger.Warn("no page for route", "pattern", sig.Pattern)
		h = a.notFound
	}
	a.show(h, sig)
}

// onLoad handles a hard navigation. A same-origin load moves the
// navigation bar to the new location, since a document load fires no
// history change. A same-origin path that no route matches renders the
// not-found page; anything else leaves the document as it is.
func (a *App) onLoad(href string) {
	a.loop.Post(func() {
		if !a.started || a.layout == nil || !a.layout.Alive() {
			return
		}
		loc := a.doc.Window().Location()
		if loc.Origin != a.origin {
			return
		}
		if bar := a.provider.Current(); bar != nil {
			if err := bar.Sync(); err != nil {
				a.logger.Warn("navigation bar sync failed", "path", loc.Pathname, "error", err)
			}
		}
		if _, ok := a.matcher.Match(loc.Pathname); ok {
			return
		}
		a.logger.Debug("document load", "href", href)
		a.show(a.notFound, router.Signal{Pathname: loc.Pathname})
	})
}

func (a *App) show(h PageHandler, sig router.Signal) {
	a.current = sig
	content, err := a.build(h, sig)
	if err != nil {
		a.logger.Error("page render failed", "path", sig.Pathname, "pattern", sig.Pattern, "error", err)
		if content, err = a.fragment(errorPage(err)); err != nil {
			return
		}
	}
	if err := a.layout.MountChild(content); err != nil {
		a.logger.Error("mounting page failed", "path", sig.Pathname, "error", err)
	}
}

func (a *App) build(h PageHandler, sig router.Signal) (content any, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("page handler panic", "panic", r, "stack", string(debug.Stack()))
			err = errors.New("E104").WithDetail("page %s: %v", sig.Pathname, r)
		}
	}()

	out, err := h(&Ctx{app: a, signal: sig})
	if err != nil {
		return nil, err
	}
	switch v := out.(type) {
	case string:
		return a.fragment(v)
	case *html.Node, layout.Child:
		return v, nil
	}
	return nil, fmt.Errorf("page %s returned %T", sig.Pathname, out)
}

// fragment parses markup into a detached div.page.
func (a *App) fragment(markup string) (*html.Node, error) {
	n := a.doc.CreateElement("div")
	dom.SetAttr(n, "class", "page")
	if err := a.doc.SetInnerHTML(n, markup); err != nil {
		return nil, err
	}
	return n, nil
}

var _ bridge.Page = (*App)(nil)
