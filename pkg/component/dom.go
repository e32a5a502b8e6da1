package component

import (
	"github.com/vango-dev/fantoccini/pkg/dom"
	"golang.org/x/net/html"
)

// Listen adds a tracked listener. target is the root when nil or "", a
// selector matched inside the component, or a node. It reports false when
// the target cannot be resolved. Tracked listeners are removed before the
// next render and on Unmount.
func (c *Component) Listen(target any, typ string, fn dom.Handler) bool {
	n := c.scoped(target)
	if n == nil {
		return false
	}
	c.bindings = append(c.bindings, c.doc.Listen(n, typ, fn))
	return true
}

// ListenAll adds a tracked listener to every element matching selector and
// returns how many were bound.
func (c *Component) ListenAll(selector, typ string, fn dom.Handler) int {
	nodes := c.QueryAll(selector)
	for _, n := range nodes {
		c.bindings = append(c.bindings, c.doc.Listen(n, typ, fn))
	}
	return len(nodes)
}

// BindingCount returns the number of tracked listeners.
func (c *Component) BindingCount() int {
	return len(c.bindings)
}

// Query returns the first element inside the component matching selector.
func (c *Component) Query(selector string) *html.Node {
	return c.doc.Query(c.root, selector)
}

// QueryAll returns every element inside the component matching selector.
func (c *Component) QueryAll(selector string) []*html.Node {
	return c.doc.QueryAll(c.root, selector)
}

// SetAttributes sets attributes on n, or on the root when n is nil.
func (c *Component) SetAttributes(n *html.Node, attrs map[string]string) {
	n = c.orRoot(n)
	for k, v := range attrs {
		dom.SetAttr(n, k, v)
	}
}

// AddClass adds classes to n, or to the root when n is nil.
func (c *Component) AddClass(n *html.Node, classes ...string) {
	dom.AddClass(c.orRoot(n), classes...)
}

// RemoveClass removes classes from n, or from the root when n is nil.
func (c *Component) RemoveClass(n *html.Node, classes ...string) {
	dom.RemoveClass(c.orRoot(n), classes...)
}

// ToggleClass toggles class on n, or on the root when n is nil. A non-nil
// force sets the class on (true) or off (false). It reports whether the
// class is present afterwards.
func (c *Component) ToggleClass(n *html.Node, class string, force *bool) bool {
	return dom.ToggleClass(c.orRoot(n), class, force)
}

// Emit dispatches a bubbling custom event from the root and reports whether
// no listener prevented its default.
func (c *Component) Emit(typ string, detail any) bool {
	return c.doc.Dispatch(c.root, dom.NewCustomEvent(typ, detail))
}

func (c *Component) orRoot(n *html.Node) *html.Node {
	if n == nil {
		return c.root
	}
	return n
}

func (c *Component) scoped(target any) *html.Node {
	switch t := target.(type) {
	case nil:
		return c.root
	case string:
		if t == "" {
			return c.root
		}
		return c.Query(t)
	case *html.Node:
		return t
	}
	return nil
}
