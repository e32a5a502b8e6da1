package dom

import "golang.org/x/net/html"

// Handler handles a dispatched event.
type Handler func(ev *Event)

// Event is a dispatched DOM event. Custom events carry a Detail payload.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	Detail        any
	Bubbles       bool

	defaultPrevented bool
	stopped          bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string, bubbles bool) *Event {
	return &Event{Type: typ, Bubbles: bubbles}
}

// NewCustomEvent creates a bubbling event carrying detail.
func NewCustomEvent(typ string, detail any) *Event {
	return &Event{Type: typ, Detail: detail, Bubbles: true}
}

// PreventDefault suppresses the default action of the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// Binding identifies a registered listener so it can be removed later.
type Binding struct {
	Target *html.Node
	Type   string
	id     uint64
}

type listener struct {
	id uint64
	fn Handler
}

// Listen registers fn for events of typ on target.
func (d *Document) Listen(target *html.Node, typ string, fn Handler) Binding {
	d.nextID++
	byType, ok := d.listeners[target]
	if !ok {
		byType = make(map[string][]listener)
		d.listeners[target] = byType
	}
	byType[typ] = append(byType[typ], listener{id: d.nextID, fn: fn})
	return Binding{Target: target, Type: typ, id: d.nextID}
}

// Unlisten removes the listener identified by b. Removing twice is a no-op.
func (d *Document) Unlisten(b Binding) {
	byType, ok := d.listeners[b.Target]
	if !ok {
		return
	}
	list := byType[b.Type]
	for i, l := range list {
		if l.id == b.id {
			byType[b.Type] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(byType[b.Type]) == 0 {
		delete(byType, b.Type)
	}
	if len(byType) == 0 {
		delete(d.listeners, b.Target)
	}
}

// ListenerCount returns the number of listeners for typ on target.
// An empty typ counts listeners of every type.
func (d *Document) ListenerCount(target *html.Node, typ string) int {
	byType := d.listeners[target]
	if typ != "" {
		return len(byType[typ])
	}
	n := 0
	for _, list := range byType {
		n += len(list)
	}
	return n
}

func (d *Document) registered(target *html.Node, typ string, id uint64) bool {
	for _, l := range d.listeners[target][typ] {
		if l.id == id {
			return true
		}
	}
	return false
}

// Dispatch delivers ev to target and, for bubbling events, to each ancestor.
// The propagation path is fixed before the first listener runs, so a
// listener that detaches the target does not cut bubbling short. Listeners
// run in registration order; a listener removed during dispatch is not
// invoked. Dispatch reports false if the default was prevented.
func (d *Document) Dispatch(target *html.Node, ev *Event) bool {
	ev.Target = target
	path := []*html.Node{target}
	if ev.Bubbles {
		for n := target.Parent; n != nil; n = n.Parent {
			path = append(path, n)
		}
	}
	for _, n := range path {
		list := d.listeners[n][ev.Type]
		if len(list) > 0 {
			snapshot := make([]listener, len(list))
			copy(snapshot, list)
			ev.CurrentTarget = n
			for _, l := range snapshot {
				if !d.registered(n, ev.Type, l.id) {
					continue
				}
				l.fn(ev)
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
	return !ev.defaultPrevented
}

// Click dispatches a bubbling click on n. If no listener prevented the
// default and n sits inside an anchor with an href, the window performs a
// hard navigation to the resolved href, as a browser would.
func (d *Document) Click(n *html.Node) bool {
	ev := NewEvent("click", true)
	if !d.Dispatch(n, ev) {
		return false
	}
	if a := d.Closest(n, "a[href]"); a != nil {
		if u, err := d.window.Resolve(Attr(a, "href")); err == nil {
			d.window.Assign(u.String())
		}
	}
	return true
}
