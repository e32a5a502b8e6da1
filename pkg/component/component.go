package component

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/dom"
	"golang.org/x/net/html"
)

// Scheduler runs blocking work off the loop and hands the continuation back
// to it. *loop.Loop satisfies it.
type Scheduler interface {
	Go(work func() func())
}

// Options configures a new Component.
type Options struct {
	// Name identifies the component in logs.
	Name string

	// Template is the initial markup, passed to Hooks.Template.
	Template string

	// Tag is the root element tag. Defaults to "div".
	Tag string

	// Hooks customise the lifecycle.
	Hooks Hooks

	// Scheduler runs work passed to Go. Without one, Go runs the work and
	// its continuation synchronously.
	Scheduler Scheduler

	// Logger is used for lifecycle errors. Defaults to slog.Default().
	Logger *slog.Logger
}

var idCounter atomic.Uint64

// Component is a lifecycle-managed piece of UI rooted at one element.
type Component struct {
	id       uint64
	name     string
	doc      *dom.Document
	root     *html.Node
	template string
	hooks    Hooks
	sched    Scheduler
	logger   *slog.Logger

	state    State
	phase    Phase
	bindings []dom.Binding
	children map[string]*Component

	// committing is set while a state transition renders; transitions
	// requested meanwhile wait in pending.
	committing bool
	pending    []func()

	ctx    context.Context
	cancel context.CancelFunc
}

// New constructs a component, establishes its initial state and performs
// the first render. A failing first render is reported through
// Hooks.OnError and the logger; the component is still returned.
func New(doc *dom.Document, opts Options) *Component {
	tag := opts.Tag
	if tag == "" {
		tag = "div"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.Name
	if name == "" {
		name = "component"
	}

	c := &Component{
		id:       idCounter.Add(1),
		name:     name,
		doc:      doc,
		root:     doc.CreateElement(tag),
		template: opts.Template,
		hooks:    opts.Hooks,
		sched:    opts.Scheduler,
		logger:   logger.With("component", name),
		children: make(map[string]*Component),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.state = Record(nil)
	if c.hooks.InitialState != nil {
		_ = c.guard("initialState", func() error {
			c.state = c.hooks.InitialState()
			return nil
		})
	}

	_ = c.commit("construct", c.render)
	c.phase = PhaseRendered
	return c
}

// ID returns the process-unique component id.
func (c *Component) ID() uint64 { return c.id }

// Name returns the name used in logs.
func (c *Component) Name() string { return c.name }

// Root returns the component's root element.
func (c *Component) Root() *html.Node { return c.root }

// Document returns the document the component renders into.
func (c *Component) Document() *dom.Document { return c.doc }

// State returns the current state.
func (c *Component) State() State { return c.state }

// Phase returns the lifecycle phase.
func (c *Component) Phase() Phase { return c.phase }

// Mounted reports whether the component is attached and not unmounted.
func (c *Component) Mounted() bool { return c.phase == PhaseMounted }

// Alive reports whether the component has not been unmounted.
func (c *Component) Alive() bool { return c.phase != PhaseUnmounted }

// Context returns a context that is cancelled when the component unmounts.
func (c *Component) Context() context.Context { return c.ctx }

// Logger returns the component's logger.
func (c *Component) Logger() *slog.Logger { return c.logger }

// =============================================================================
// Lifecycle
// =============================================================================

// Mount appends the root element as the last child of target, which is an
// *html.Node or a selector resolved against the whole document, and runs
// Hooks.OnMount. An unresolved target yields E101.
func (c *Component) Mount(target any) error {
	if err := c.checkAlive("mount"); err != nil {
		return err
	}
	parent := c.resolve(target)
	if parent == nil {
		return errors.New("E101").WithDetail("target %s", describe(target))
	}
	dom.Append(parent, c.root)
	c.phase = PhaseMounted
	return c.runOnMount()
}

// Replace substitutes target with the root element and runs Hooks.OnMount.
// A missing target or a target without a parent yields E102.
func (c *Component) Replace(target any) error {
	if err := c.checkAlive("replace"); err != nil {
		return err
	}
	old := c.resolve(target)
	if old == nil || old.Parent == nil {
		return errors.New("E102").WithDetail("target %s", describe(target))
	}
	dom.ReplaceWith(old, c.root)
	c.phase = PhaseMounted
	return c.runOnMount()
}

// Unmount runs Hooks.OnUnmount, releases listeners and children, and
// detaches the root. The component cannot be used afterwards.
func (c *Component) Unmount() error {
	if err := c.checkAlive("unmount"); err != nil {
		return err
	}
	var err error
	if c.hooks.OnUnmount != nil {
		err = c.guard("onUnmount", func() error {
			c.hooks.OnUnmount(c)
			return nil
		})
	}
	c.cleanup()
	dom.Remove(c.root)
	c.phase = PhaseUnmounted
	c.pending = nil
	c.cancel()
	return err
}

// SetState merges update into the current state and re-renders. Two
// records are shallow-merged; any other combination replaces the state.
func (c *Component) SetState(update State) error {
	return c.transition("setState", func() State { return c.state.Merge(update) })
}

// ReplaceState replaces the current state and re-renders.
func (c *Component) ReplaceState(next State) error {
	return c.transition("replaceState", func() State { return next })
}

// Update re-renders with the current state after Hooks.BeforeUpdate.
func (c *Component) Update(data any) error {
	if err := c.checkAlive("update"); err != nil {
		return err
	}
	return c.commit("update", func() error {
		if c.hooks.BeforeUpdate != nil {
			c.hooks.BeforeUpdate(c, data)
		}
		c.cleanup()
		return c.render()
	})
}

func (c *Component) transition(op string, next func() State) error {
	if err := c.checkAlive(op); err != nil {
		return err
	}
	return c.commit(op, func() error {
		prev := c.state
		c.state = next()
		if c.hooks.BeforeStateUpdate != nil {
			c.hooks.BeforeStateUpdate(c, prev, c.state)
		}
		c.cleanup()
		if err := c.render(); err != nil {
			return err
		}
		if c.hooks.AfterStateUpdate != nil {
			c.hooks.AfterStateUpdate(c, prev, c.state)
		}
		return nil
	})
}

// commit runs a render cycle. Cycles requested while one is running are
// queued and run, in order, once it completes; the queued call returns nil
// and reports its own failures through OnError and the log.
func (c *Component) commit(op string, step func() error) error {
	if c.committing {
		c.pending = append(c.pending, func() { _ = c.commit(op, step) })
		return nil
	}

	c.committing = true
	err := c.guard(op, step)
	c.committing = false

	for len(c.pending) > 0 && c.Alive() {
		next := c.pending[0]
		c.pending = c.pending[1:]
		next()
	}
	return err
}

// render replaces the root content with the template output, then binds
// events and runs AfterRender.
func (c *Component) render() error {
	markup := c.template
	if c.hooks.Template != nil {
		markup = c.hooks.Template(c, c.template)
	}
	if err := c.doc.SetInnerHTML(c.root, markup); err != nil {
		return errors.FromError(err, "E104").WithDetail("parsing %s markup", c.name)
	}
	if c.hooks.BindEvents != nil {
		c.hooks.BindEvents(c)
	}
	if c.hooks.AfterRender != nil {
		c.hooks.AfterRender(c)
	}
	return nil
}

// cleanup removes every tracked listener and unmounts every child.
func (c *Component) cleanup() {
	for _, b := range c.bindings {
		c.doc.Unlisten(b)
	}
	c.bindings = nil

	for key, child := range c.children {
		if child.Alive() {
			_ = child.Unmount()
		}
		delete(c.children, key)
	}
}

func (c *Component) runOnMount() error {
	if c.hooks.OnMount == nil {
		return nil
	}
	return c.guard("onMount", func() error {
		c.hooks.OnMount(c)
		return nil
	})
}

// guard runs fn, converting a panic into an E104 error. Errors are logged
// and passed to Hooks.OnError.
func (c *Component) guard(op string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("E104").WithDetail("%s in %s: %v", op, c.name, r)
		}
		if err != nil {
			c.reportError(op, err)
		}
	}()
	return fn()
}

func (c *Component) reportError(op string, err error) {
	c.logger.Error("component lifecycle failed", "op", op, "id", c.id, "error", err)
	if c.hooks.OnError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("OnError hook panicked", "op", op, "panic", r)
		}
	}()
	c.hooks.OnError(c, err)
}

func (c *Component) checkAlive(op string) error {
	if c.phase == PhaseUnmounted {
		return errors.New("E103").WithDetail("%s on %s #%d", op, c.name, c.id)
	}
	return nil
}

// resolve turns a mount target into a node. Strings are selectors matched
// against the whole document.
func (c *Component) resolve(target any) *html.Node {
	switch t := target.(type) {
	case *html.Node:
		return t
	case *Component:
		if t == nil {
			return nil
		}
		return t.root
	case string:
		if t == "" {
			return nil
		}
		return c.doc.Query(c.doc.Node(), t)
	}
	return nil
}

func describe(target any) string {
	switch t := target.(type) {
	case string:
		return fmt.Sprintf("%q", t)
	case *html.Node:
		if t == nil {
			return "<nil>"
		}
		return "<" + t.Data + ">"
	}
	return fmt.Sprintf("%T", target)
}
