package component

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/loop"
)

func newDoc(t *testing.T) *dom.Document {
	t.Helper()
	d, err := dom.New("http://localhost:3000/")
	if err != nil {
		t.Fatal(err)
	}
	app := d.CreateElement("div")
	dom.SetAttr(app, "id", "app")
	d.Body().AppendChild(app)
	return d
}

func TestConstructRendersTemplate(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{Template: "<p>hi</p>", Tag: "section"})

	if c.Phase() != PhaseRendered {
		t.Errorf("Phase() = %s, want rendered", c.Phase())
	}
	if c.Root().Data != "section" {
		t.Errorf("root tag = %q, want section", c.Root().Data)
	}
	if got := d.InnerHTML(c.Root()); got != "<p>hi</p>" {
		t.Errorf("InnerHTML = %q", got)
	}
	if !c.State().IsRecord() || c.State().Len() != 0 {
		t.Errorf("default state = %v, want empty record", c.State().Value())
	}
}

func TestSetStateMergesRecords(t *testing.T) {
	d := newDoc(t)
	renders := 0
	c := New(d, Options{Hooks: Hooks{
		Template: func(c *Component, _ string) string {
			renders++
			return "<span>" + c.State().String("a") + c.State().String("b") + "</span>"
		},
	}})

	if err := c.SetState(Record(map[string]any{"a": 1})); err != nil {
		t.Fatal(err)
	}
	if err := c.SetState(Record(map[string]any{"b": 2})); err != nil {
		t.Fatal(err)
	}

	s := c.State()
	if s.Int("a") != 1 || s.Int("b") != 2 || s.Len() != 2 {
		t.Errorf("state = %v, want {a:1 b:2}", s.Map())
	}
	if renders != 3 {
		t.Errorf("renders = %d, want 3 (construct + 2 updates)", renders)
	}
	if got := dom.TextContent(c.Root()); got != "12" {
		t.Errorf("text = %q, want 12", got)
	}
}

func TestSetStateReplacesScalar(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{Hooks: Hooks{
		InitialState: func() State { return Scalar("a") },
	}})
	if err := c.SetState(Scalar("x")); err != nil {
		t.Fatal(err)
	}
	if c.State().Value() != "x" {
		t.Errorf("state = %v, want x", c.State().Value())
	}
}

func TestReplaceStateAlwaysReplaces(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{Hooks: Hooks{
		InitialState: func() State { return Record(map[string]any{"a": 1}) },
	}})
	if err := c.ReplaceState(Record(map[string]any{"b": 2})); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.State().Get("a"); ok {
		t.Errorf("state = %v, want a removed", c.State().Map())
	}
}

func TestStateHookOrder(t *testing.T) {
	d := newDoc(t)
	var calls []string
	c := New(d, Options{Hooks: Hooks{
		Template: func(*Component, string) string {
			calls = append(calls, "render")
			return ""
		},
		BeforeStateUpdate: func(_ *Component, prev, next State) {
			calls = append(calls, "before:"+prev.String("v")+">"+next.String("v"))
		},
		AfterStateUpdate: func(_ *Component, prev, next State) {
			calls = append(calls, "after:"+prev.String("v")+">"+next.String("v"))
		},
		BeforeUpdate: func(_ *Component, data any) {
			calls = append(calls, "beforeUpdate:"+data.(string))
		},
	}})
	calls = nil

	_ = c.SetState(Record(map[string]any{"v": "1"}))
	_ = c.Update("refresh")

	want := []string{"before:>1", "render", "after:>1", "beforeUpdate:refresh", "render"}
	if strings.Join(calls, ",") != strings.Join(want, ",") {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestMountAndReplaceErrors(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{})

	if err := c.Mount("#missing"); !errors.IsCode(err, "E101") {
		t.Errorf("Mount(#missing) error = %v, want E101", err)
	}
	if err := c.Replace("#missing"); !errors.IsCode(err, "E102") {
		t.Errorf("Replace(#missing) error = %v, want E102", err)
	}
	if err := c.Replace(d.CreateElement("p")); !errors.IsCode(err, "E102") {
		t.Errorf("Replace(detached) error = %v, want E102", err)
	}
	if c.Phase() != PhaseRendered {
		t.Errorf("Phase() = %s after failed mounts", c.Phase())
	}
}

func TestMountAndReplace(t *testing.T) {
	d := newDoc(t)
	mounted := 0
	c := New(d, Options{Template: "x", Hooks: Hooks{OnMount: func(*Component) { mounted++ }}})

	if err := c.Mount("#app"); err != nil {
		t.Fatal(err)
	}
	if c.Root().Parent != d.GetElementByID("app") || !c.Mounted() {
		t.Error("root not appended to #app")
	}

	placeholder := d.CreateElement("span")
	d.Body().AppendChild(placeholder)
	other := New(d, Options{})
	if err := other.Replace(placeholder); err != nil {
		t.Fatal(err)
	}
	if placeholder.Parent != nil || other.Root().Parent != d.Body() {
		t.Error("Replace did not substitute the placeholder")
	}
	if mounted != 1 {
		t.Errorf("OnMount calls = %d, want 1", mounted)
	}
}

func TestUnmountReleasesEverything(t *testing.T) {
	d := newDoc(t)
	outside := d.GetElementByID("app")

	var leaves []*Component
	newLeaf := func() *Component {
		leaf := New(d, Options{Template: `<button>x</button>`, Hooks: Hooks{
			BindEvents: func(c *Component) {
				c.Listen("button", "click", func(*dom.Event) {})
				c.Listen(outside, "leaf-event", func(*dom.Event) {})
			},
		}})
		leaves = append(leaves, leaf)
		return leaf
	}

	parent := New(d, Options{Template: `<div class="a"></div><div class="b"></div>`, Hooks: Hooks{
		BindEvents: func(c *Component) {
			c.Listen(nil, "click", func(*dom.Event) {})
			c.Listen(outside, "parent-event", func(*dom.Event) {})
		},
		AfterRender: func(c *Component) {
			_ = c.AddChild("a", newLeaf(), ".a")
			_ = c.AddChild("b", newLeaf(), ".b")
		},
	}})
	if err := parent.Mount("#app"); err != nil {
		t.Fatal(err)
	}
	if n := d.ListenerCount(outside, ""); n != 3 {
		t.Fatalf("listeners on #app = %d, want 3", n)
	}

	if err := parent.Unmount(); err != nil {
		t.Fatal(err)
	}

	if n := d.ListenerCount(outside, ""); n != 0 {
		t.Errorf("listeners on #app after unmount = %d, want 0", n)
	}
	if n := d.ListenerCount(parent.Root(), ""); n != 0 {
		t.Errorf("listeners on root after unmount = %d, want 0", n)
	}
	for i, leaf := range leaves {
		if leaf.Phase() != PhaseUnmounted {
			t.Errorf("leaf %d phase = %s, want unmounted", i, leaf.Phase())
		}
		if leaf.BindingCount() != 0 {
			t.Errorf("leaf %d still tracks %d bindings", i, leaf.BindingCount())
		}
		if btn := leaf.Query("button"); btn != nil && d.ListenerCount(btn, "") != 0 {
			t.Errorf("leaf %d button still has listeners", i)
		}
	}
	if len(parent.ChildKeys()) != 0 {
		t.Errorf("ChildKeys() = %v, want none", parent.ChildKeys())
	}
	if d.Contains(parent.Root()) {
		t.Error("root still attached after unmount")
	}
}

func TestRerenderRecreatesChildren(t *testing.T) {
	d := newDoc(t)
	var created []*Component
	parent := New(d, Options{Template: `<div id="slot"></div>`, Hooks: Hooks{
		AfterRender: func(c *Component) {
			child := New(d, Options{Template: c.State().String("label")})
			created = append(created, child)
			_ = c.AddChild("label", child, "#slot")
		},
	}})
	_ = parent.Mount("#app")
	_ = parent.SetState(Record(map[string]any{"label": "two"}))

	if len(created) != 2 {
		t.Fatalf("children created = %d, want 2", len(created))
	}
	if created[0].Phase() != PhaseUnmounted {
		t.Errorf("first child phase = %s, want unmounted", created[0].Phase())
	}
	if parent.Child("label") != created[1] || !created[1].Mounted() {
		t.Error("second child should be registered and mounted")
	}
	if got := dom.TextContent(parent.Root()); got != "two" {
		t.Errorf("text = %q, want two", got)
	}
}

func TestAddChildReplacesKey(t *testing.T) {
	d := newDoc(t)
	parent := New(d, Options{Template: `<ul></ul>`})
	first := New(d, Options{})
	second := New(d, Options{})

	_ = parent.AddChild("k", first, "ul")
	_ = parent.AddChild("k", second, "")
	if first.Phase() != PhaseUnmounted {
		t.Errorf("first phase = %s, want unmounted", first.Phase())
	}
	if second.Phase() != PhaseRendered {
		t.Errorf("child without container should stay rendered, got %s", second.Phase())
	}
	if !parent.RemoveChild("k") || second.Phase() != PhaseUnmounted {
		t.Error("RemoveChild should unmount the child")
	}
}

func TestAddChildMissingContainer(t *testing.T) {
	d := newDoc(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	parent := New(d, Options{Name: "list", Template: `<ul></ul>`, Logger: logger})
	child := New(d, Options{})

	if err := parent.AddChild("row", child, "#missing"); err != nil {
		t.Fatalf("AddChild() = %v", err)
	}
	if parent.Child("row") != child {
		t.Error("child should be registered")
	}
	if child.Phase() != PhaseRendered || child.Root().Parent != nil {
		t.Errorf("child should stay detached, phase = %s", child.Phase())
	}
	out := logs.String()
	if !strings.Contains(out, "child container not found") || !strings.Contains(out, "container=#missing") || !strings.Contains(out, "key=row") {
		t.Errorf("log = %q", out)
	}
}

func TestUseAfterUnmount(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{})
	_ = c.Mount("#app")
	_ = c.Unmount()

	ops := map[string]func() error{
		"Mount":        func() error { return c.Mount("#app") },
		"Replace":      func() error { return c.Replace("#app") },
		"Unmount":      c.Unmount,
		"SetState":     func() error { return c.SetState(Scalar(1)) },
		"ReplaceState": func() error { return c.ReplaceState(Scalar(1)) },
		"Update":       func() error { return c.Update(nil) },
		"AddChild":     func() error { return c.AddChild("k", New(d, Options{}), "") },
	}
	for name, op := range ops {
		if err := op(); !errors.IsCode(err, "E103") {
			t.Errorf("%s after unmount error = %v, want E103", name, err)
		}
	}
	if c.Context().Err() == nil {
		t.Error("context should be cancelled after unmount")
	}
}

func TestReentrantSetStateIsQueued(t *testing.T) {
	d := newDoc(t)
	var seen []int
	c := New(d, Options{Hooks: Hooks{
		InitialState: func() State { return Record(map[string]any{"n": 0}) },
		AfterRender: func(c *Component) {
			n := c.State().Int("n")
			seen = append(seen, n)
			if n == 1 {
				// Requested mid-render; applied after this cycle.
				_ = c.SetState(Record(map[string]any{"n": 2}))
				if c.State().Int("n") != 1 {
					t.Error("nested SetState applied during render")
				}
			}
		},
	}})

	if err := c.SetState(Record(map[string]any{"n": 1})); err != nil {
		t.Fatal(err)
	}
	if got := c.State().Int("n"); got != 2 {
		t.Errorf("n = %d, want 2", got)
	}
	if len(seen) != 3 || seen[1] != 1 || seen[2] != 2 {
		t.Errorf("renders saw %v, want [0 1 2]", seen)
	}
}

func TestPanicBecomesE104(t *testing.T) {
	d := newDoc(t)
	var reported error
	boom := false
	c := New(d, Options{Hooks: Hooks{
		Template: func(*Component, string) string {
			if boom {
				panic("template exploded")
			}
			return "ok"
		},
		OnError: func(_ *Component, err error) { reported = err },
	}})

	boom = true
	err := c.SetState(Scalar(1))
	if !errors.IsCode(err, "E104") {
		t.Fatalf("SetState error = %v, want E104", err)
	}
	if reported != err {
		t.Errorf("OnError got %v, want %v", reported, err)
	}

	boom = false
	if err := c.Update(nil); err != nil {
		t.Errorf("component should recover after a failed render: %v", err)
	}
}

func TestEmitBubbles(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{})
	_ = c.Mount("#app")

	var detail any
	d.Listen(d.Body(), "item-click", func(ev *dom.Event) { detail = ev.Detail })
	c.Emit("item-click", map[string]string{"href": "/users"})

	m, ok := detail.(map[string]string)
	if !ok || m["href"] != "/users" {
		t.Errorf("detail = %v", detail)
	}
}

func TestClassAndAttributeHelpers(t *testing.T) {
	d := newDoc(t)
	c := New(d, Options{Template: `<a href="/">x</a>`})
	a := c.Query("a")

	c.SetAttributes(a, map[string]string{"aria-current": "page"})
	c.AddClass(nil, "card", "active")
	c.RemoveClass(nil, "active")
	on := true
	c.ToggleClass(a, "active", &on)

	if dom.Attr(a, "aria-current") != "page" {
		t.Error("SetAttributes did not set aria-current")
	}
	if !dom.HasClass(c.Root(), "card") || dom.HasClass(c.Root(), "active") {
		t.Errorf("root classes = %v", dom.Classes(c.Root()))
	}
	if !dom.HasClass(a, "active") {
		t.Error("ToggleClass(force=true) did not add the class")
	}
	if c.Listen("#missing", "click", func(*dom.Event) {}) {
		t.Error("Listen on a missing selector should report false")
	}
	if n := c.ListenAll("a", "click", func(*dom.Event) {}); n != 1 {
		t.Errorf("ListenAll() = %d, want 1", n)
	}
}

func TestGoDropsContinuationAfterUnmount(t *testing.T) {
	d := newDoc(t)
	l := loop.New(nil)
	defer l.Close()

	c := New(d, Options{Scheduler: l})
	_ = c.Mount("#app")

	release := make(chan struct{})
	applied := false
	c.Go(func(ctx context.Context) func() {
		<-release
		return func() { applied = true }
	})

	_ = c.Unmount()
	close(release)
	l.Settle()

	if applied {
		t.Error("continuation ran on an unmounted component")
	}
}

func TestGoAppliesContinuationWhileAlive(t *testing.T) {
	d := newDoc(t)
	l := loop.New(nil)
	defer l.Close()

	c := New(d, Options{Scheduler: l, Hooks: Hooks{
		Template: func(c *Component, _ string) string { return c.State().String("label") },
		OnMount: func(c *Component) {
			c.Go(func(ctx context.Context) func() {
				label := "loaded"
				return func() { _ = c.SetState(Record(map[string]any{"label": label})) }
			})
		},
	}})
	if err := c.Mount("#app"); err != nil {
		t.Fatal(err)
	}
	if dom.TextContent(c.Root()) != "" {
		t.Error("OnMount work must not be awaited by Mount")
	}

	l.Settle()
	if got := dom.TextContent(c.Root()); got != "loaded" {
		t.Errorf("text = %q, want loaded", got)
	}
}
