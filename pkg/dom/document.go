package dom

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Scheduler defers a task to the next tick of the owning loop.
// *loop.Loop satisfies it.
type Scheduler interface {
	Post(fn func()) bool
}

// Document is an in-memory HTML document with a window, listeners and history.
type Document struct {
	root *html.Node
	head *html.Node
	body *html.Node

	listeners map[*html.Node]map[string][]listener
	nextID    uint64
	selectors map[string]cascadia.Selector

	window    *Window
	scheduler Scheduler
}

// Option configures a Document.
type Option func(*Document)

// WithScheduler makes popstate dispatch asynchronous through s.
// Without a scheduler popstate is dispatched synchronously.
func WithScheduler(s Scheduler) Option {
	return func(d *Document) {
		d.scheduler = s
	}
}

// WithLoader sets the function invoked on hard (full document) navigation.
func WithLoader(fn func(href string)) Option {
	return func(d *Document) {
		d.window.loader = fn
	}
}

// New creates an empty document whose window is at href
// (e.g. "http://localhost:3000/users/7").
func New(href string, opts ...Option) (*Document, error) {
	root, err := html.Parse(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"))
	if err != nil {
		return nil, err
	}

	d := &Document{
		root:      root,
		listeners: make(map[*html.Node]map[string][]listener),
		selectors: make(map[string]cascadia.Selector),
	}
	d.head = d.Query(root, "head")
	d.body = d.Query(root, "body")

	w, err := newWindow(d, href)
	if err != nil {
		return nil, err
	}
	d.window = w

	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Node returns the document node. Window-level events (popstate, document
// clicks) are listened for on this node.
func (d *Document) Node() *html.Node { return d.root }

// Head returns the <head> element.
func (d *Document) Head() *html.Node { return d.head }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.body }

// Window returns the document's window.
func (d *Document) Window() *Window { return d.window }

// CreateElement allocates a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	tag = strings.ToLower(tag)
	if tag == "" {
		tag = "div"
	}
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// GetElementByID finds an element with the given id anywhere in the document.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && Attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Query returns the first descendant of scope matching sel, or nil.
// An invalid selector matches nothing.
func (d *Document) Query(scope *html.Node, sel string) *html.Node {
	s := d.compile(sel)
	if s == nil || scope == nil {
		return nil
	}
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		if m := s.MatchFirst(c); m != nil {
			return m
		}
	}
	return nil
}

// QueryAll returns every descendant of scope matching sel in document order.
func (d *Document) QueryAll(scope *html.Node, sel string) []*html.Node {
	s := d.compile(sel)
	if s == nil || scope == nil {
		return nil
	}
	var out []*html.Node
	for c := scope.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, s.MatchAll(c)...)
	}
	return out
}

// Matches reports whether n matches sel.
func (d *Document) Matches(n *html.Node, sel string) bool {
	s := d.compile(sel)
	return s != nil && n != nil && s.Match(n)
}

// Closest returns n or its nearest ancestor matching sel.
func (d *Document) Closest(n *html.Node, sel string) *html.Node {
	s := d.compile(sel)
	if s == nil {
		return nil
	}
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && s.Match(n) {
			return n
		}
	}
	return nil
}

func (d *Document) compile(sel string) cascadia.Selector {
	if s, ok := d.selectors[sel]; ok {
		return s
	}
	s, err := cascadia.Compile(sel)
	if err != nil {
		d.selectors[sel] = nil
		return nil
	}
	d.selectors[sel] = s
	return s
}

// SetInnerHTML replaces the children of n with the parsed markup.
// Removed children are detached, not destroyed, so they can be re-attached.
func (d *Document) SetInnerHTML(n *html.Node, markup string) error {
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return err
	}
	ClearChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// InnerHTML renders the children of n.
func (d *Document) InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML renders n itself.
func (d *Document) OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	_ = html.Render(&buf, n)
	return buf.String()
}

// Contains reports whether n is attached to this document.
func (d *Document) Contains(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == d.root {
			return true
		}
	}
	return false
}

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
