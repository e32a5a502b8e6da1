package dom

import (
	"fmt"
	"net/url"
)

// Location is the parsed address of the window.
type Location struct {
	Origin   string
	Pathname string
	Search   string
	Hash     string
}

// Href renders the location as an absolute URL.
func (l Location) Href() string {
	return l.Origin + l.Pathname + l.Search + l.Hash
}

// Window holds the location, history and navigation behaviour of a document.
type Window struct {
	doc     *Document
	base    *url.URL
	loc     Location
	history *History
	loads   []string
	loader  func(href string)
}

func newWindow(d *Document, href string) (*Window, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("dom: parsing window href: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("dom: window href %q must be absolute", href)
	}
	w := &Window{doc: d, base: u}
	w.setLocation(u)
	w.history = newHistory(w, w.loc.Pathname+w.loc.Search)
	return w, nil
}

// Location returns the current location.
func (w *Window) Location() Location { return w.loc }

// History returns the session history.
func (w *Window) History() *History { return w.history }

// Origin returns scheme://host of the window.
func (w *Window) Origin() string { return w.loc.Origin }

// Resolve resolves href relative to the current location.
func (w *Window) Resolve(href string) (*url.URL, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return nil, err
	}
	cur, err := url.Parse(w.loc.Href())
	if err != nil {
		return nil, err
	}
	return cur.ResolveReference(ref), nil
}

// SameOrigin reports whether u shares scheme and host with the window.
func (w *Window) SameOrigin(u *url.URL) bool {
	return u != nil && u.Scheme+"://"+u.Host == w.loc.Origin
}

// Assign performs a hard navigation: a full document load of href.
// The load is recorded, the loader (if any) is invoked, and the location
// moves to href. A cross-document load does not notify history observers.
func (w *Window) Assign(href string) {
	u, err := w.Resolve(href)
	if err != nil {
		return
	}
	w.loads = append(w.loads, u.String())
	if w.SameOrigin(u) {
		path := pathnameOf(u) + searchOf(u)
		if path != w.loc.Pathname+w.loc.Search {
			w.history.add(path, nil)
		}
	}
	w.setLocation(u)
	if w.loader != nil {
		w.loader(u.String())
	}
}

// HardNavigations returns every href passed to Assign, oldest first.
func (w *Window) HardNavigations() []string {
	out := make([]string, len(w.loads))
	copy(out, w.loads)
	return out
}

func (w *Window) setLocation(u *url.URL) {
	path := pathnameOf(u)
	hash := ""
	if u.Fragment != "" {
		hash = "#" + u.Fragment
	}
	w.loc = Location{
		Origin:   u.Scheme + "://" + u.Host,
		Pathname: path,
		Search:   searchOf(u),
		Hash:     hash,
	}
}

// setPath moves the location within the same origin.
func (w *Window) setPath(path string) {
	u, err := url.Parse(w.loc.Origin + path)
	if err != nil {
		return
	}
	w.setLocation(u)
}

// pathnameOf returns the path of u with its percent-encoding intact, as a
// browser's location.pathname does.
func pathnameOf(u *url.URL) string {
	if p := u.EscapedPath(); p != "" {
		return p
	}
	return "/"
}

// Pathname returns the pathname a browser reports for u.
func Pathname(u *url.URL) string { return pathnameOf(u) }

func searchOf(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}
