package router

import (
	"net/url"
	"testing"

	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/navbus"
)

type navFixture struct {
	doc     *dom.Document
	nav     *Navigator
	signals []Signal
}

func newNavFixture(t *testing.T, patterns ...string) *navFixture {
	t.Helper()
	doc, err := dom.New("http://localhost:3000/")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher()
	m.MustRegister(patterns...)

	f := &navFixture{doc: doc}
	bus := navbus.New[Signal]()
	bus.Subscribe(func(s Signal) { f.signals = append(f.signals, s) })
	f.nav = NewNavigator(doc, m, bus)
	t.Cleanup(f.nav.Close)
	return f
}

func (f *navFixture) link(t *testing.T, href string) *dom.Document {
	t.Helper()
	if err := f.doc.SetInnerHTML(f.doc.Body(), `<nav><a href="`+href+`"><span>go</span></a></nav>`); err != nil {
		t.Fatal(err)
	}
	return f.doc
}

func TestNavigatorClickMatchedLink(t *testing.T) {
	f := newNavFixture(t, "/", "/users/[id]")
	doc := f.link(t, "/users/7")

	span := doc.Query(doc.Body(), "span")
	if doc.Click(span) {
		t.Error("click on a matched link should be prevented")
	}

	if got := doc.Window().Location().Pathname; got != "/users/7" {
		t.Errorf("Pathname = %q, want /users/7", got)
	}
	if h := doc.Window().History(); h.Len() != 2 || h.Current().Path != "/users/7" {
		t.Errorf("history = %+v", h.Entries())
	}
	if len(doc.Window().HardNavigations()) != 0 {
		t.Errorf("HardNavigations() = %v, want none", doc.Window().HardNavigations())
	}
	if len(f.signals) != 1 {
		t.Fatalf("signals = %d, want 1", len(f.signals))
	}
	sig := f.signals[0]
	if sig.Pathname != "/users/7" || sig.Params.Value("id") != "7" || sig.Pattern != "/users/[id]" {
		t.Errorf("signal = %+v", sig)
	}
	if v, _ := f.nav.Param("id"); v != "7" {
		t.Errorf("Param(id) = %q", v)
	}
}

func TestNavigatorClickLinkThatRerendersItself(t *testing.T) {
	f := newNavFixture(t, "/", "/users/[id]")
	doc := f.link(t, "/users/7")
	nav := doc.Query(doc.Body(), "nav")
	link := doc.Query(nav, "a")

	doc.Listen(link, "click", func(*dom.Event) {
		if err := doc.SetInnerHTML(nav, `<a href="/users/8">next</a>`); err != nil {
			t.Error(err)
		}
	})

	if doc.Click(doc.Query(link, "span")) {
		t.Error("click on a matched link should be prevented")
	}
	if len(doc.Window().HardNavigations()) != 0 {
		t.Errorf("HardNavigations() = %v, want none", doc.Window().HardNavigations())
	}
	if len(f.signals) != 1 || f.signals[0].Pathname != "/users/7" {
		t.Errorf("signals = %+v", f.signals)
	}
}

func TestNavigatorClickKeepsPercentEncoding(t *testing.T) {
	f := newNavFixture(t, "/users/[id]")
	doc := f.link(t, "/users/a%2Fb")

	if doc.Click(doc.Query(doc.Body(), "a")) {
		t.Error("click on a matched link should be prevented")
	}
	if len(f.signals) != 1 {
		t.Fatalf("signals = %d, want 1", len(f.signals))
	}
	sig := f.signals[0]
	if sig.Pathname != "/users/a%2Fb" || sig.Params.Value("id") != "a%2Fb" {
		t.Errorf("signal = %+v", sig)
	}
	if got := doc.Window().Location().Pathname; got != "/users/a%2Fb" {
		t.Errorf("Pathname = %q", got)
	}
}

func TestNavigatorIgnoresUnmatchedAndCrossOrigin(t *testing.T) {
	tests := []struct {
		name string
		href string
	}{
		{"unmatched", "/nowhere"},
		{"cross origin", "https://example.com/users/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newNavFixture(t, "/users/[id]")
			doc := f.link(t, tt.href)

			if !doc.Click(doc.Query(doc.Body(), "a")) {
				t.Error("default action should not be prevented")
			}
			if len(f.signals) != 0 {
				t.Errorf("signals = %v, want none", f.signals)
			}
			if len(doc.Window().HardNavigations()) != 1 {
				t.Errorf("HardNavigations() = %v, want 1", doc.Window().HardNavigations())
			}
		})
	}
}

func TestNavigatorPopstateUnmatchedHardNavigates(t *testing.T) {
	f := newNavFixture(t, "/users/[id]")
	h := f.doc.Window().History()

	// Push bypasses the navigator, so no signal is sent.
	h.Push("/elsewhere", nil)
	h.Push("/users/3", nil)

	if !h.Back() {
		t.Fatal("Back() = false")
	}
	loads := f.doc.Window().HardNavigations()
	if len(loads) != 1 || loads[0] != "http://localhost:3000/elsewhere" {
		t.Errorf("HardNavigations() = %v", loads)
	}
	if len(f.signals) != 0 {
		t.Errorf("signals = %v, want none", f.signals)
	}

	if !h.Forward() {
		t.Fatal("Forward() = false")
	}
	if len(f.signals) != 1 || f.signals[0].Params.Value("id") != "3" {
		t.Errorf("signals = %+v", f.signals)
	}
}

func TestNavigatorNavigateOptions(t *testing.T) {
	f := newNavFixture(t, "/", "/search")
	f.nav.Navigate("/search", WithReplace(), WithQuery(url.Values{"q": {"go"}}), WithState("s"))

	h := f.doc.Window().History()
	if h.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after replace", h.Len())
	}
	if e := h.Current(); e.Path != "/search?q=go" || e.State != "s" {
		t.Errorf("Current() = %+v", e)
	}
	loc := f.doc.Window().Location()
	if loc.Pathname != "/search" || loc.Search != "?q=go" {
		t.Errorf("Location() = %+v", loc)
	}
	if len(f.signals) != 1 || f.signals[0].Pathname != "/search" {
		t.Errorf("signals = %+v", f.signals)
	}
}

func TestNavigatorInitialLoadParams(t *testing.T) {
	doc, err := dom.New("http://localhost:3000/users/5")
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatcher()
	m.MustRegister("/users/[id]")
	nav := NewNavigator(doc, m, nil)
	defer nav.Close()

	if v, ok := nav.Param("id"); !ok || v != "5" {
		t.Errorf("Param(id) = %q, %v, want 5", v, ok)
	}
	if _, ok := nav.Param("missing"); ok {
		t.Error("Param(missing) should report false")
	}
}

func TestNavigatorResolveAndClose(t *testing.T) {
	f := newNavFixture(t, "/")
	if len(f.signals) != 0 {
		t.Error("construction must not broadcast")
	}
	if !f.nav.Resolve() {
		t.Fatal("Resolve() = false for /")
	}
	if f.nav.Current() == nil || f.nav.Current().Route.Pattern != "/" {
		t.Errorf("Current() = %+v", f.nav.Current())
	}

	f.nav.Close()
	if n := f.doc.ListenerCount(f.doc.Node(), ""); n != 0 {
		t.Errorf("ListenerCount() = %d after Close", n)
	}
}
