package demo

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/fantoccini"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

func startDemo(t *testing.T, path string) *fantoccini.App {
	t.Helper()
	cfg := fantoccini.DefaultConfig()
	cfg.Href = "http://localhost:3000" + path
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := fantoccini.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { app.Close() })
	if err := Register(app); err != nil {
		t.Fatal(err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return app
}

func TestPagesRender(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/", []string{"Fantoccini", "Welcome", "Explore"}},
		{"/dashboard", []string{"Dashboard", "Quick links", "Dynamic"}},
		{"/users", []string{"Users Directory", "Alice Johnson", "Diana Prince", "Non-existent User"}},
		{"/users/2", []string{`class="breadcrumbs"`, "Bob Smith", "id=2"}},
		{"/users/999", []string{"User Not Found", "999"}},
		{"/posts/hello-world", []string{"Hello World", "hello-world"}},
		{"/api-docs", []string{"GET /api/routes", "GET /metrics"}},
		{"/api/v1/users/list", []string{"Gateway", "Catch-all route matched /api/v1/users/list"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			app := startDemo(t, tt.path)
			markup := app.HTML()
			if strings.Contains(markup, "Something went wrong") || strings.Contains(markup, "Page not found") {
				t.Fatalf("%s rendered a failure page", tt.path)
			}
			for _, want := range tt.want {
				if !strings.Contains(markup, want) {
					t.Errorf("%s markup missing %q", tt.path, want)
				}
			}
		})
	}
}

func TestUsersPageNavigation(t *testing.T) {
	app := startDemo(t, "/users")
	ctx := context.Background()

	if err := app.Click(ctx, `#dynamic-routes a[href="/posts/hello-world"]`); err != nil {
		t.Fatal(err)
	}
	if got := app.Current(); got.Pattern != "/posts/[slug]" || got.Params.Value("slug") != "hello-world" {
		t.Errorf("after link click Current() = %+v", got)
	}

	if err := app.Navigate(ctx, "/users"); err != nil {
		t.Fatal(err)
	}
	if err := app.Click(ctx, `[aria-label="User card for Charlie Brown"] [data-action="message"]`); err != nil {
		t.Fatal(err)
	}
	if got := app.Current().Pathname; got != "/users/3" {
		t.Errorf("message button led to %q, want /users/3", got)
	}
	if !strings.Contains(app.HTML(), "Charlie Brown") {
		t.Error("detail page not rendered")
	}
}

func TestUsersPageFollowToggle(t *testing.T) {
	app := startDemo(t, "/users")
	ctx := context.Background()

	sel := `[aria-label="User card for Alice Johnson"] [data-action="follow"]`
	if err := app.Click(ctx, sel); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(app.HTML(), "Following") {
		t.Error("follow button did not toggle")
	}
	if got := app.Current().Pathname; got != "/users" {
		t.Errorf("follow navigated to %q", got)
	}
}

func TestRegisterDiscovered(t *testing.T) {
	cfg := fantoccini.DefaultConfig()
	cfg.Href = "http://localhost:3000/docs/getting-started"
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := fantoccini.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Close()

	if err := Register(app); err != nil {
		t.Fatal(err)
	}
	routes := []routesapi.RouteInfo{
		{Path: "/", Label: "Home", Type: routesapi.TypeStatic},
		{Path: "/docs/[page]", Label: "Page", Type: routesapi.TypeDynamic},
	}
	if err := RegisterDiscovered(app, routes); err != nil {
		t.Fatal(err)
	}
	if err := app.Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	markup := app.HTML()
	for _, want := range []string{"dynamic route /docs/[page] rendered /docs/getting-started", "getting-started"} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q", want)
		}
	}
	if got := app.Current().Pattern; got != "/docs/[page]" {
		t.Errorf("Current().Pattern = %q", got)
	}

	// The demo keeps its own page for known patterns.
	if err := app.Navigate(context.Background(), "/"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(app.HTML(), "Welcome") {
		t.Error("home page replaced by discovered page")
	}
}
