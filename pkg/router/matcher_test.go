package router

import "testing"

func TestMatcherFirstRegisteredWins(t *testing.T) {
	m := NewMatcher()
	m.MustRegister("/posts/[slug]", "/posts/hello")

	match, ok := m.Match("/posts/hello")
	if !ok {
		t.Fatal("expected match")
	}
	if match.Route.Pattern != "/posts/[slug]" {
		t.Errorf("Pattern = %q, want /posts/[slug]", match.Route.Pattern)
	}
	if match.Params.Value("slug") != "hello" {
		t.Errorf("slug = %q", match.Params.Value("slug"))
	}
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher()
	m.MustRegister("/", "/users/[id]")

	for _, path := range []string{"/users", "/users/1/2", "/nope"} {
		if _, ok := m.Match(path); ok {
			t.Errorf("Match(%q) should fail", path)
		}
	}
}

func TestMatcherReRegisterKeepsPosition(t *testing.T) {
	m := NewMatcher()
	m.MustRegister("/a", "/[x]", "/a")

	if m.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", m.Len())
	}
	routes := m.Routes()
	if routes[0].Pattern != "/a" || routes[1].Pattern != "/[x]" {
		t.Errorf("Routes() = %s, %s", routes[0].Pattern, routes[1].Pattern)
	}
}

func TestMatcherRegisterInvalid(t *testing.T) {
	m := NewMatcher()
	if _, err := m.Register(""); err == nil {
		t.Error("Register(\"\") should fail")
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after failed register", m.Len())
	}
}
