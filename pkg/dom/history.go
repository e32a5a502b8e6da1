package dom

// ChangeKind distinguishes history mutations.
type ChangeKind uint8

const (
	ChangePush ChangeKind = iota + 1
	ChangeReplace
)

// String returns the string representation of the ChangeKind.
func (k ChangeKind) String() string {
	switch k {
	case ChangePush:
		return "push"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// Change describes a push or replace on the history.
type Change struct {
	Kind ChangeKind
	Path string
}

// Entry is one session history entry.
type Entry struct {
	Path  string
	State any
}

type observer struct {
	id uint64
	fn func(Change)
}

// History is the session history of a window.
//
// Push and Replace notify observers synchronously after the location has
// changed; this is how code reacts to programmatic navigation from anywhere
// in the application. Back, Forward and Go dispatch a "popstate" event on
// the document node instead, on the next scheduler tick when one is set.
type History struct {
	w         *Window
	entries   []Entry
	index     int
	observers []observer
	nextID    uint64
}

func newHistory(w *Window, path string) *History {
	return &History{w: w, entries: []Entry{{Path: path}}}
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// Index returns the position of the current entry.
func (h *History) Index() int { return h.index }

// Current returns the current entry.
func (h *History) Current() Entry { return h.entries[h.index] }

// Entries returns a copy of all entries.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Push adds an entry after the current one, discarding forward entries.
func (h *History) Push(path string, state any) {
	h.add(path, state)
	h.w.setPath(path)
	h.notify(Change{Kind: ChangePush, Path: path})
}

// Replace overwrites the current entry.
func (h *History) Replace(path string, state any) {
	h.entries[h.index] = Entry{Path: path, State: state}
	h.w.setPath(path)
	h.notify(Change{Kind: ChangeReplace, Path: path})
}

// Back moves one entry back. It reports false at the first entry.
func (h *History) Back() bool { return h.Go(-1) }

// Forward moves one entry forward. It reports false at the last entry.
func (h *History) Forward() bool { return h.Go(1) }

// Go traverses delta entries and schedules a popstate event.
func (h *History) Go(delta int) bool {
	next := h.index + delta
	if delta == 0 || next < 0 || next >= len(h.entries) {
		return false
	}
	h.index = next
	entry := h.entries[next]
	h.w.setPath(entry.Path)

	d := h.w.doc
	fire := func() {
		d.Dispatch(d.root, &Event{Type: "popstate", Detail: entry.State})
	}
	if d.scheduler != nil {
		d.scheduler.Post(fire)
	} else {
		fire()
	}
	return true
}

// Observe registers fn to be called after every Push and Replace.
// The returned function removes the observer.
func (h *History) Observe(fn func(Change)) (cancel func()) {
	h.nextID++
	id := h.nextID
	h.observers = append(h.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range h.observers {
			if o.id == id {
				h.observers = append(h.observers[:i:i], h.observers[i+1:]...)
				return
			}
		}
	}
}

// ObserverCount returns the number of registered observers.
func (h *History) ObserverCount() int { return len(h.observers) }

func (h *History) add(path string, state any) {
	h.entries = append(h.entries[:h.index+1], Entry{Path: path, State: state})
	h.index = len(h.entries) - 1
}

func (h *History) notify(c Change) {
	snapshot := make([]observer, len(h.observers))
	copy(snapshot, h.observers)
	for _, o := range snapshot {
		o.fn(c)
	}
}
