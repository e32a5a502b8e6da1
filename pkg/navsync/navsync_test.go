package navsync

import (
	"context"
	"errors"
	"testing"

	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/loop"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

type fetcherFunc func(ctx context.Context) ([]routesapi.RouteInfo, error)

func (f fetcherFunc) Routes(ctx context.Context) ([]routesapi.RouteInfo, error) { return f(ctx) }

func setup(t *testing.T, href string, fetcher Fetcher) (*dom.Document, *loop.Loop, *Provider) {
	t.Helper()
	l := loop.New(nil)
	t.Cleanup(l.Close)
	doc, err := dom.New(href, dom.WithScheduler(l))
	if err != nil {
		t.Fatal(err)
	}
	p := NewProvider(doc, Config{Loop: l, Fetcher: fetcher})
	t.Cleanup(p.Close)
	return doc, l, p
}

func TestProviderGetIsSingleton(t *testing.T) {
	_, _, p := setup(t, "http://localhost:3000/", nil)
	if p.Current() != nil {
		t.Fatal("bar created before Get")
	}
	if p.Get() != p.Get() {
		t.Error("Get() returned different bars")
	}
}

func TestNavBarStaticDefaults(t *testing.T) {
	_, _, p := setup(t, "http://localhost:3000/users/1", nil)
	bar := p.Get()

	if len(bar.QueryAll("a.nav-link")) != len(StaticRoutes) {
		t.Errorf("links = %d, want %d", len(bar.QueryAll("a.nav-link")), len(StaticRoutes))
	}
	active := bar.ActivePaths()
	if len(active) != 2 || active[0] != "/users" || active[1] != "/users/1" {
		t.Errorf("ActivePaths() = %v, want [/users /users/1]", active)
	}
}

func TestNavBarSyncsOnNextTick(t *testing.T) {
	doc, l, p := setup(t, "http://localhost:3000/", nil)
	bar := p.Get()
	if err := bar.Mount(doc.Body()); err != nil {
		t.Fatal(err)
	}

	doc.Window().History().Push("/dashboard", nil)
	if bar.CurrentPath() != "/" {
		t.Error("sync must wait for the next tick")
	}
	l.Drain()
	if bar.CurrentPath() != "/dashboard" {
		t.Errorf("CurrentPath() = %q, want /dashboard", bar.CurrentPath())
	}
	if active := bar.ActivePaths(); len(active) != 1 || active[0] != "/dashboard" {
		t.Errorf("ActivePaths() = %v", active)
	}

	doc.Window().History().Replace("/posts/x", nil)
	l.Drain()
	if got := dom.TextContent(bar.Query("#route-info")); got != "Static Route" {
		t.Errorf("route info = %q", got)
	}

	doc.Window().History().Back()
	l.Drain()
	if bar.CurrentPath() != "/" {
		t.Errorf("CurrentPath() after popstate = %q, want /", bar.CurrentPath())
	}
}

func TestNavBarFetchesRoutesOnMount(t *testing.T) {
	fetched := []routesapi.RouteInfo{
		{Path: "/", Label: "Start", Type: routesapi.TypeStatic},
		{Path: "/api/[...path]", Label: "Gateway", Type: routesapi.TypeAPI},
	}
	doc, l, p := setup(t, "http://localhost:3000/", fetcherFunc(func(context.Context) ([]routesapi.RouteInfo, error) {
		return fetched, nil
	}))
	bar := p.Get()
	_ = bar.Mount(doc.Body())

	if len(bar.Routes()) != len(StaticRoutes) {
		t.Error("routes replaced before the fetch completed")
	}
	l.Settle()
	if len(bar.Routes()) != 2 || bar.Routes()[0].Label != "Start" {
		t.Errorf("Routes() = %+v", bar.Routes())
	}
}

func TestNavBarKeepsStaticRoutesOnFetchError(t *testing.T) {
	doc, l, p := setup(t, "http://localhost:3000/", fetcherFunc(func(context.Context) ([]routesapi.RouteInfo, error) {
		return nil, errors.New("connection refused")
	}))
	bar := p.Get()
	_ = bar.Mount(doc.Body())
	l.Settle()

	if len(bar.Routes()) != len(StaticRoutes) {
		t.Errorf("Routes() = %+v, want static defaults", bar.Routes())
	}
}

func TestProviderCloseReleasesObservers(t *testing.T) {
	doc, l, p := setup(t, "http://localhost:3000/", nil)
	h := doc.Window().History()
	before := h.ObserverCount()

	bar := p.Get()
	_ = bar.Mount(doc.Body())
	if h.ObserverCount() != before+1 {
		t.Fatalf("ObserverCount() = %d, want %d", h.ObserverCount(), before+1)
	}

	p.Close()
	if h.ObserverCount() != before {
		t.Errorf("ObserverCount() after Close = %d, want %d", h.ObserverCount(), before)
	}
	if doc.ListenerCount(doc.Node(), "popstate") != 0 {
		t.Error("popstate listener still attached")
	}
	if bar.Alive() || p.Current() != nil {
		t.Error("bar should be unmounted and forgotten")
	}

	// A push after Close must not touch the dead bar.
	h.Push("/users", nil)
	l.Drain()

	if p.Get() == bar {
		t.Error("Get() after Close should create a new bar")
	}
}

func TestNavBarClickHighlightsImmediately(t *testing.T) {
	doc, _, p := setup(t, "http://localhost:3000/", nil)
	bar := p.Get()
	_ = bar.Mount(doc.Body())
	// Keep the test from recording a hard navigation.
	doc.Listen(doc.Node(), "click", func(ev *dom.Event) { ev.PreventDefault() })

	doc.Click(bar.Query(`a[data-route="/users"]`))
	if bar.CurrentPath() != "/users" {
		t.Errorf("CurrentPath() = %q, want /users", bar.CurrentPath())
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		current, route string
		want           bool
	}{
		{"/", "/", true},
		{"/users", "/", false},
		{"/users/7", "/users", true},
		{"/users/7", "/users/[id]", true},
		{"/posts/a", "/users/[id]", false},
		{"/api/v1/x", "/api/[...path]", true},
		{"/dashboard", "/dashboard", true},
	}
	for _, tt := range tests {
		if got := IsActive(tt.current, tt.route); got != tt.want {
			t.Errorf("IsActive(%q, %q) = %v, want %v", tt.current, tt.route, got, tt.want)
		}
	}
}

func TestRouteInfo(t *testing.T) {
	tests := map[string]string{
		"/users/[id]": "Dynamic Route",
		"/api/v1":     "API Route",
		"/dashboard":  "Static Route",
	}
	for path, want := range tests {
		if got := RouteInfo(path); got != want {
			t.Errorf("RouteInfo(%q) = %q, want %q", path, got, want)
		}
	}
}
