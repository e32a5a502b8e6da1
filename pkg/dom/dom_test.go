package dom

import (
	"strings"
	"testing"
)

func newDoc(t *testing.T, opts ...Option) *Document {
	t.Helper()
	d, err := New("http://localhost:3000/", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestNewRequiresAbsoluteHref(t *testing.T) {
	if _, err := New("/relative"); err == nil {
		t.Error("New(relative) should fail")
	}
}

func TestSetInnerHTMLAndQuery(t *testing.T) {
	d := newDoc(t)
	root := d.CreateElement("div")
	d.Body().AppendChild(root)

	if err := d.SetInnerHTML(root, `<ul id="list"><li class="item a">one</li><li class="item">two</li></ul>`); err != nil {
		t.Fatalf("SetInnerHTML() error = %v", err)
	}

	if got := d.Query(root, "#list"); got == nil || got.Data != "ul" {
		t.Fatalf("Query(#list) = %v", got)
	}
	items := d.QueryAll(root, ".item")
	if len(items) != 2 {
		t.Fatalf("QueryAll(.item) = %d, want 2", len(items))
	}
	if TextContent(items[1]) != "two" {
		t.Errorf("TextContent = %q, want two", TextContent(items[1]))
	}
	if d.Query(root, "[[bad") != nil {
		t.Error("invalid selector should match nothing")
	}
	if d.Query(root, "div") != nil {
		t.Error("Query must not match the scope element itself")
	}
	if d.GetElementByID("list") == nil {
		t.Error("GetElementByID(list) = nil")
	}
}

func TestSetInnerHTMLDetachesOldChildren(t *testing.T) {
	d := newDoc(t)
	root := d.CreateElement("div")
	kept := d.CreateElement("span")
	root.AppendChild(kept)

	if err := d.SetInnerHTML(root, "<p>fresh</p>"); err != nil {
		t.Fatal(err)
	}
	if kept.Parent != nil {
		t.Fatal("old child should be detached")
	}
	Append(root, kept)
	if kept.Parent != root {
		t.Error("detached child should be re-attachable")
	}
	if got := d.InnerHTML(root); got != "<p>fresh</p><span></span>" {
		t.Errorf("InnerHTML = %q", got)
	}
}

func TestClassHelpers(t *testing.T) {
	d := newDoc(t)
	n := d.CreateElement("div")
	AddClass(n, "a", "b", "a")
	if Attr(n, "class") != "a b" {
		t.Errorf("class = %q, want %q", Attr(n, "class"), "a b")
	}
	RemoveClass(n, "a")
	if HasClass(n, "a") || !HasClass(n, "b") {
		t.Errorf("class = %q", Attr(n, "class"))
	}
	if !ToggleClass(n, "c", nil) || !HasClass(n, "c") {
		t.Error("ToggleClass should add c")
	}
	off := false
	if ToggleClass(n, "c", &off) || HasClass(n, "c") {
		t.Error("ToggleClass(force=false) should remove c")
	}
}

func TestDispatchBubblesAndStops(t *testing.T) {
	d := newDoc(t)
	outer := d.CreateElement("div")
	inner := d.CreateElement("button")
	outer.AppendChild(inner)
	d.Body().AppendChild(outer)

	var order []string
	d.Listen(inner, "click", func(ev *Event) { order = append(order, "inner") })
	d.Listen(outer, "click", func(ev *Event) {
		order = append(order, "outer")
		if ev.Target != inner || ev.CurrentTarget != outer {
			t.Error("Target/CurrentTarget not set during bubbling")
		}
	})
	d.Listen(d.Node(), "click", func(ev *Event) { order = append(order, "document") })

	d.Dispatch(inner, NewEvent("click", true))
	if strings.Join(order, ",") != "inner,outer,document" {
		t.Errorf("order = %v", order)
	}

	order = nil
	d.Listen(outer, "click", func(ev *Event) { ev.StopPropagation() })
	d.Dispatch(inner, NewEvent("click", true))
	if strings.Join(order, ",") != "inner,outer" {
		t.Errorf("order after stop = %v", order)
	}
}

func TestUnlistenDuringDispatch(t *testing.T) {
	d := newDoc(t)
	n := d.CreateElement("div")
	var second Binding
	calls := 0
	d.Listen(n, "x", func(*Event) { d.Unlisten(second) })
	second = d.Listen(n, "x", func(*Event) { calls++ })

	d.Dispatch(n, NewEvent("x", false))
	if calls != 0 {
		t.Error("listener removed during dispatch must not run")
	}
	if d.ListenerCount(n, "x") != 1 {
		t.Errorf("ListenerCount = %d, want 1", d.ListenerCount(n, "x"))
	}
	d.Unlisten(second)
}

func TestClickDefaultActionIsHardNavigation(t *testing.T) {
	var loaded []string
	d := newDoc(t, WithLoader(func(href string) { loaded = append(loaded, href) }))
	if err := d.SetInnerHTML(d.Body(), `<a href="/about"><span id="label">About</span></a>`); err != nil {
		t.Fatal(err)
	}

	d.Click(d.GetElementByID("label"))
	if len(loaded) != 1 || loaded[0] != "http://localhost:3000/about" {
		t.Fatalf("loaded = %v", loaded)
	}
	if d.Window().Location().Pathname != "/about" {
		t.Errorf("Pathname = %q", d.Window().Location().Pathname)
	}

	d.Listen(d.Node(), "click", func(ev *Event) { ev.PreventDefault() })
	if d.Click(d.GetElementByID("label")) {
		t.Error("Click should report false when default prevented")
	}
	if len(d.Window().HardNavigations()) != 1 {
		t.Error("prevented click must not navigate")
	}
}

func TestDispatchBubblesPastDetachedTarget(t *testing.T) {
	var loaded []string
	d := newDoc(t, WithLoader(func(href string) { loaded = append(loaded, href) }))
	if err := d.SetInnerHTML(d.Body(), `<nav id="nav"><a href="/about" id="link">About</a></nav>`); err != nil {
		t.Fatal(err)
	}
	nav := d.GetElementByID("nav")
	link := d.GetElementByID("link")

	var order []string
	d.Listen(link, "click", func(*Event) {
		order = append(order, "link")
		if err := d.SetInnerHTML(nav, `<a href="/other">Other</a>`); err != nil {
			t.Error(err)
		}
	})
	d.Listen(nav, "click", func(*Event) { order = append(order, "nav") })
	d.Listen(d.Node(), "click", func(ev *Event) {
		order = append(order, "document")
		ev.PreventDefault()
	})

	if d.Click(link) {
		t.Error("Click should report false when default prevented")
	}
	if strings.Join(order, ",") != "link,nav,document" {
		t.Errorf("order = %v", order)
	}
	if link.Parent != nil {
		t.Error("link should be detached")
	}
	if len(loaded) != 0 {
		t.Errorf("loaded = %v, want no hard navigation", loaded)
	}
}

func TestLocationKeepsPercentEncoding(t *testing.T) {
	var loaded []string
	d := newDoc(t, WithLoader(func(href string) { loaded = append(loaded, href) }))

	d.Window().Assign("/users/a%2Fb?q=1")
	if got := d.Window().Location().Pathname; got != "/users/a%2Fb" {
		t.Errorf("Pathname after Assign = %q", got)
	}
	if len(loaded) != 1 || loaded[0] != "http://localhost:3000/users/a%2Fb?q=1" {
		t.Errorf("loaded = %v", loaded)
	}

	d.Window().History().Push("/files/x%20y", nil)
	if got := d.Window().Location().Pathname; got != "/files/x%20y" {
		t.Errorf("Pathname after Push = %q", got)
	}
}

func TestHistoryPushObserveAndPopstate(t *testing.T) {
	d := newDoc(t)
	h := d.Window().History()

	var changes []Change
	cancel := h.Observe(func(c Change) { changes = append(changes, c) })

	h.Push("/users/7", nil)
	h.Replace("/users/8", nil)
	if d.Window().Location().Pathname != "/users/8" {
		t.Errorf("Pathname = %q", d.Window().Location().Pathname)
	}
	if len(changes) != 2 || changes[0].Kind != ChangePush || changes[1].Kind != ChangeReplace {
		t.Fatalf("changes = %+v", changes)
	}

	pops := 0
	d.Listen(d.Node(), "popstate", func(*Event) { pops++ })
	if !h.Back() {
		t.Fatal("Back() = false")
	}
	if pops != 1 || d.Window().Location().Pathname != "/" {
		t.Errorf("pops = %d, path = %q", pops, d.Window().Location().Pathname)
	}
	if h.Back() {
		t.Error("Back() at first entry should be false")
	}
	if !h.Forward() || d.Window().Location().Pathname != "/users/8" {
		t.Error("Forward() should return to /users/8")
	}

	cancel()
	h.Push("/x", nil)
	if len(changes) != 2 {
		t.Error("cancelled observer must not be notified")
	}
	if h.ObserverCount() != 0 {
		t.Errorf("ObserverCount = %d", h.ObserverCount())
	}
}

type queue struct{ tasks []func() }

func (q *queue) Post(fn func()) bool { q.tasks = append(q.tasks, fn); return true }

func TestPopstateIsDeferredWithScheduler(t *testing.T) {
	q := &queue{}
	d := newDoc(t, WithScheduler(q))
	d.Window().History().Push("/a", nil)

	pops := 0
	d.Listen(d.Node(), "popstate", func(*Event) { pops++ })
	d.Window().History().Back()
	if pops != 0 || len(q.tasks) != 1 {
		t.Fatalf("popstate should be queued, pops=%d tasks=%d", pops, len(q.tasks))
	}
	q.tasks[0]()
	if pops != 1 {
		t.Error("popstate not dispatched by scheduled task")
	}
}

func TestSameOrigin(t *testing.T) {
	d := newDoc(t)
	w := d.Window()
	for href, want := range map[string]bool{
		"/users/1":                     true,
		"http://localhost:3000/x":      true,
		"https://localhost:3000/x":     false,
		"http://example.com/users/1":   false,
		"http://localhost:4000/users/1": false,
	} {
		u, err := w.Resolve(href)
		if err != nil {
			t.Fatal(err)
		}
		if got := w.SameOrigin(u); got != want {
			t.Errorf("SameOrigin(%q) = %v, want %v", href, got, want)
		}
	}
}
