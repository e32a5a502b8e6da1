package router

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vango-dev/fantoccini/internal/errors"
)

func writeTree(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("//"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestScannerDiscoversRoutes(t *testing.T) {
	root := writeTree(t,
		"page.go",
		"dashboard/page.go",
		"users/page.go",
		"users/[id]/page.go",
		"posts/[slug]/main.ts",
		"api/v1/[...path]/route.go",
		"api-docs/page.md",
		"components/card.go",
		".hidden/page.go",
	)

	routes, err := NewScanner(root).Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := map[string]struct {
		label string
		typ   RouteType
	}{
		"/":                 {"Home", TypeStatic},
		"/dashboard":        {"Dashboard", TypeStatic},
		"/users":            {"Users", TypeStatic},
		"/users/[id]":       {"Details", TypeDynamic},
		"/posts/[slug]":     {"Post", TypeDynamic},
		"/api/v1/[...path]": {"Gateway", TypeAPI},
		"/api-docs":         {"Api Docs", TypeStatic},
	}
	if len(routes) != len(want) {
		t.Fatalf("Scan() found %d routes, want %d: %+v", len(routes), len(want), routes)
	}
	for _, r := range routes {
		w, ok := want[r.Path]
		if !ok {
			t.Errorf("unexpected route %q", r.Path)
			continue
		}
		if r.Label != w.label || r.Type != w.typ {
			t.Errorf("%s: label=%q type=%s, want %q %s", r.Path, r.Label, r.Type, w.label, w.typ)
		}
	}
}

func TestScannerRouteFileOutsideAPIIsIgnored(t *testing.T) {
	root := writeTree(t, "hooks/route.go")
	routes, err := NewScanner(root).Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 0 {
		t.Errorf("routes = %+v, want none", routes)
	}
}

func TestScannerDetectsConflicts(t *testing.T) {
	root := writeTree(t, "users/[id]/page.go", "users/[uid]/page.go")

	_, err := NewScanner(root).Scan()
	if !errors.IsCode(err, "E111") {
		t.Fatalf("Scan() error = %v, want E111", err)
	}
	var multi *MultiValidationError
	if !stderrors.As(err, &multi) || len(multi.Errors) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if multi.Errors[0].Shape != "/users/[]" {
		t.Errorf("Shape = %q", multi.Errors[0].Shape)
	}
}

func TestValidatorErrors(t *testing.T) {
	routes := []ScannedRoute{
		{Path: "/docs/[...path]", Dir: "docs/[...path]"},
		{Path: "/docs/[...rest]", Dir: "docs/[...rest]"},
		{Path: "/docs", Dir: "docs"},
	}
	v := NewValidator(routes)
	if err := v.Validate(); err == nil {
		t.Fatal("Validate() = nil, want a conflict")
	}
	got := v.Errors()
	if len(got) != 1 || got[0].Shape != "/docs/[...]" {
		t.Fatalf("Errors() = %+v", got)
	}
	if got[0].Dirs[1] != "docs/[...rest]" {
		t.Errorf("Dirs = %v", got[0].Dirs)
	}

	v = NewValidator(routes[1:])
	if err := v.Validate(); err != nil || len(v.Errors()) != 0 {
		t.Errorf("Validate() = %v, Errors() = %+v", err, v.Errors())
	}
}

func TestScannerIndexDirConflictsWithParent(t *testing.T) {
	root := writeTree(t, "blog/page.go", "blog/index/page.go")
	if _, err := NewScanner(root).Scan(); err == nil {
		t.Error("expected conflict between blog and blog/index")
	}
	routes, err := NewScanner(root).ScanWithOptions(ScanOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(routes) != 2 || routes[1].Path != "/blog" {
		t.Errorf("routes = %+v", routes)
	}
}

func TestScannerMissingRoot(t *testing.T) {
	_, err := NewScanner(filepath.Join(t.TempDir(), "missing")).Scan()
	if !errors.IsCode(err, "E111") {
		t.Errorf("error = %v, want E111", err)
	}
}

func TestGenerateLabel(t *testing.T) {
	tests := map[string]string{
		"":          "Home",
		"[id]":      "Details",
		"[slug]":    "Post",
		"[...path]": "Gateway",
		"[name]":    "name",
		"api-docs":  "Api Docs",
		"users":     "Users",
	}
	for in, want := range tests {
		if got := GenerateLabel(in); got != want {
			t.Errorf("GenerateLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSortBySpecificity(t *testing.T) {
	routes := []ScannedRoute{
		{Path: "/[...all]", IsCatchAll: true},
		{Path: "/users/[id]"},
		{Path: "/users/new"},
		{Path: "/users"},
		{Path: "/"},
	}
	SortBySpecificity(routes)

	want := []string{"/users/new", "/users/[id]", "/users", "/", "/[...all]"}
	for i, w := range want {
		if routes[i].Path != w {
			t.Errorf("routes[%d] = %q, want %q", i, routes[i].Path, w)
		}
	}
}
