package router

import (
	"testing"

	"github.com/vango-dev/fantoccini/internal/errors"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
		params  map[string]string
	}{
		{"/", "/", true, map[string]string{}},
		{"/", "/about", false, nil},
		{"/about", "/about", true, map[string]string{}},
		{"/about", "/about/", false, nil},
		{"/users/[id]", "/users/42", true, map[string]string{"id": "42"}},
		{"/users/[id]", "/users", false, nil},
		{"/users/[id]", "/users/", false, nil},
		{"/users/[id]", "/users/42/extra", false, nil},
		{"/api/[...path]", "/api/a/b/c", true, map[string]string{"path": "a/b/c"}},
		{"/api/[...path]", "/api/", true, map[string]string{"path": ""}},
		{"/api/[...path]", "/api", false, nil},
		{"/blog.old/[slug]", "/blog.old/x", true, map[string]string{"slug": "x"}},
		{"/blog.old/[slug]", "/blogXold/x", false, nil},
		{"/files/[...rest]/raw", "/files/a/b/raw", true, map[string]string{"rest": "a/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			route, err := Compile(tt.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.pattern, err)
			}
			params, ok := route.Match(tt.path)
			if ok != tt.match {
				t.Fatalf("Match(%q) = %v, want %v", tt.path, ok, tt.match)
			}
			if !ok {
				return
			}
			got := params.Map()
			if len(got) != len(tt.params) {
				t.Fatalf("params = %v, want %v", got, tt.params)
			}
			for k, v := range tt.params {
				if got[k] != v {
					t.Errorf("param %q = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestCompileParamOrder(t *testing.T) {
	route := MustCompile("/[...prefix]/items/[id]")
	params, ok := route.Match("/a/b/items/9")
	if !ok {
		t.Fatal("expected match")
	}
	names := params.Names()
	if len(names) != 2 || names[0] != "prefix" || names[1] != "id" {
		t.Fatalf("Names() = %v, want [prefix id]", names)
	}
	if params.Value("prefix") != "a/b" || params.Value("id") != "9" {
		t.Errorf("params = %v", params.Map())
	}
}

func TestCompileErrors(t *testing.T) {
	for _, pattern := range []string{"", "/a/[id]/b/[id]"} {
		_, err := Compile(pattern)
		if !errors.IsCode(err, "E110") {
			t.Errorf("Compile(%q) error = %v, want E110", pattern, err)
		}
	}
}

func TestRouteIsDynamic(t *testing.T) {
	if MustCompile("/about").IsDynamic() {
		t.Error("/about should be static")
	}
	if !MustCompile("/users/[id]").IsDynamic() {
		t.Error("/users/[id] should be dynamic")
	}
	if got := MustCompile("/users/[id]").Expr(); got != "^/users/([^/]+)$" {
		t.Errorf("Expr() = %q", got)
	}
}

func TestParams(t *testing.T) {
	p := Params{{Name: "id", Value: "1"}, {Name: "slug", Value: "x"}}
	if v, ok := p.Get("slug"); !ok || v != "x" {
		t.Errorf("Get(slug) = %q, %v", v, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
	if p.Value("missing") != "" {
		t.Error("Value(missing) should be empty")
	}
}
