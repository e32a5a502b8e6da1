package layout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/navsync"
	"golang.org/x/net/html"
)

// Options configures a Layout.
type Options struct {
	// IncludeHeader mounts the shared navigation bar above the content.
	IncludeHeader bool

	// ContainerClass is the class of the main container.
	ContainerClass string

	// ContainerStyle is the inline style of the main container.
	ContainerStyle string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

const (
	DefaultContainerClass = "layout-container"
	DefaultContainerStyle = "max-width: 1200px; margin: 0 auto; padding: 2rem;"
)

// DefaultOptions returns the options used by most pages: header on, the
// default container class and style.
func DefaultOptions() Options {
	return Options{
		IncludeHeader:  true,
		ContainerClass: DefaultContainerClass,
		ContainerStyle: DefaultContainerStyle,
	}
}

// Child is anything with a component lifecycle that can be placed in the
// content slot. *component.Component and every type embedding it qualify.
type Child interface {
	Mount(target any) error
	Unmount() error
	Alive() bool
}

// Layout is the page frame.
type Layout struct {
	*component.Component

	provider *navsync.Provider
	header   *navsync.NavBar
	slot     *html.Node
	slotted  []Child
}

// New creates a layout. The shared bar is taken from provider when the
// layout mounts; a nil provider means no header regardless of options.
func New(doc *dom.Document, provider *navsync.Provider, opts Options) *Layout {
	l := &Layout{provider: provider}
	l.Component = component.New(doc, component.Options{
		Name:   "Layout",
		Logger: opts.Logger,
		Hooks: component.Hooks{
			InitialState: func() component.State {
				return component.Record(map[string]any{"options": opts})
			},
			Template: func(c *component.Component, _ string) string {
				return render(optionsOf(c.State()))
			},
			AfterRender: l.afterRender,
			OnMount:     l.onMount,
			OnUnmount:   l.onUnmount,
		},
	})
	return l
}

// Init finds or creates the #app element in the body, clears it and mounts
// a new layout there. The work runs as a task on p, and Init returns once
// one further task has run, so anything the mount queued has been
// processed. With a nil p everything happens on the caller.
func Init(ctx context.Context, doc *dom.Document, provider *navsync.Provider, opts Options, p Poster) (*Layout, error) {
	if p == nil {
		return initOn(doc, provider, opts)
	}

	type result struct {
		l   *Layout
		err error
	}
	done := make(chan result, 1)
	if !p.Post(func() {
		l, err := initOn(doc, provider, opts)
		if !p.Post(func() { done <- result{l, err} }) {
			done <- result{l, err}
		}
	}) {
		return nil, fmt.Errorf("layout init: loop closed")
	}

	select {
	case r := <-done:
		return r.l, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Poster queues a task on the loop. *loop.Loop satisfies it.
type Poster interface {
	Post(fn func()) bool
}

func initOn(doc *dom.Document, provider *navsync.Provider, opts Options) (*Layout, error) {
	app := doc.GetElementByID("app")
	if app == nil {
		app = doc.CreateElement("div")
		dom.SetAttr(app, "id", "app")
		dom.Append(doc.Body(), app)
	}
	dom.ClearChildren(app)

	l := New(doc, provider, opts)
	if err := l.Mount(app); err != nil {
		return nil, err
	}
	return l, nil
}

// Options returns the current options.
func (l *Layout) Options() Options {
	return optionsOf(l.State())
}

// Header returns the mounted navigation bar, or nil.
func (l *Layout) Header() *navsync.NavBar {
	return l.header
}

// Slot returns the content slot element, or nil before the layout has
// rendered.
func (l *Layout) Slot() *html.Node {
	return l.slot
}

// MountChild clears the content slot, unmounting any component placed there
// earlier, and mounts m. m is a Child or an *html.Node.
func (l *Layout) MountChild(m any) error {
	slot, err := l.slotOrErr()
	if err != nil {
		return err
	}
	l.clearSlot()
	dom.ClearChildren(slot)
	return l.place(slot, m)
}

// AppendChild mounts m after the current slot content.
func (l *Layout) AppendChild(m any) error {
	slot, err := l.slotOrErr()
	if err != nil {
		return err
	}
	return l.place(slot, m)
}

// UpdateOptions applies fn to a copy of the current options and re-renders.
func (l *Layout) UpdateOptions(fn func(*Options)) error {
	opts := l.Options()
	fn(&opts)
	return l.SetState(component.Record(map[string]any{"options": opts}))
}

func (l *Layout) place(slot *html.Node, m any) error {
	switch v := m.(type) {
	case *html.Node:
		if v == nil {
			return fmt.Errorf("layout: nil node")
		}
		dom.Append(slot, v)
		return nil
	case Child:
		if err := v.Mount(slot); err != nil {
			return err
		}
		l.slotted = append(l.slotted, v)
		return nil
	}
	return fmt.Errorf("layout: cannot mount %T", m)
}

func (l *Layout) slotOrErr() (*html.Node, error) {
	if !l.Alive() {
		return nil, errors.New("E103").WithDetail("slot of unmounted layout")
	}
	if l.slot == nil || !within(l.Root(), l.slot) {
		l.slot = l.Query("#layout-slot")
	}
	if l.slot == nil {
		return nil, errors.New("E105").WithSuggestion("Mount the layout before adding content")
	}
	return l.slot, nil
}

func (l *Layout) clearSlot() {
	for _, ch := range l.slotted {
		if ch.Alive() {
			_ = ch.Unmount()
		}
	}
	l.slotted = nil
}

// afterRender adopts the content of the previous slot and re-attaches the
// bar, both of which the render detached.
func (l *Layout) afterRender(c *component.Component) {
	slot := c.Query("#layout-slot")
	if old := l.slot; old != nil && slot != nil && old != slot {
		for n := old.FirstChild; n != nil; {
			next := n.NextSibling
			dom.Append(slot, n)
			n = next
		}
	}
	l.slot = slot

	include := optionsOf(c.State()).IncludeHeader
	switch {
	case l.header == nil:
		if include && c.Mounted() {
			l.mountHeader(c)
		}
		return
	case !include:
		l.detachHeader()
		return
	}
	if target := c.Query("#layout-header"); target != nil {
		dom.Append(target, l.header.Root())
	}
}

func (l *Layout) onMount(c *component.Component) {
	l.slot = c.Query("#layout-slot")
	if optionsOf(c.State()).IncludeHeader {
		l.mountHeader(c)
	}
}

func (l *Layout) mountHeader(c *component.Component) {
	if l.provider == nil || l.header != nil {
		return
	}
	target := c.Query("#layout-header")
	if target == nil {
		return
	}
	bar := l.provider.Get()
	if err := bar.Mount(target); err != nil {
		c.Logger().Error("mounting header failed", "error", err)
		return
	}
	l.header = bar
}

func (l *Layout) detachHeader() {
	if l.header == nil {
		return
	}
	dom.Remove(l.header.Root())
	l.header = nil
}

func (l *Layout) onUnmount(*component.Component) {
	l.clearSlot()
	l.detachHeader()
	l.slot = nil
}

func within(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

func optionsOf(s component.State) Options {
	v, _ := s.Get("options")
	opts, _ := v.(Options)
	return opts
}

func render(opts Options) string {
	b := element.NewBuilder()
	b.DivClass("layout-wrapper").R(
		b.Div("id", "layout-header").R(),
		b.Div("role", "main", "class", opts.ContainerClass, "style", opts.ContainerStyle).R(
			b.Div("id", "layout-slot", "class", "layout-content").R(),
		),
	)
	return b.String()
}
