package component

// Hooks customise a component. Every field is optional.
type Hooks struct {
	// InitialState returns the state established at construction.
	// Defaults to an empty record.
	InitialState func() State

	// Template returns the markup for the current state. The default returns
	// the template given in Options unchanged.
	Template func(c *Component, template string) string

	// BindEvents attaches listeners after the markup is in place. Listeners
	// added through Component.Listen are released before the next render.
	BindEvents func(c *Component)

	// AfterRender runs at the end of every render. Children are typically
	// created and attached here.
	AfterRender func(c *Component)

	// OnMount runs after the root is attached by Mount, Replace or a
	// parent's AddChild. It is not awaited; blocking work belongs in
	// Component.Go.
	OnMount func(c *Component)

	// OnUnmount runs first in Unmount, before listeners and children are
	// released.
	OnUnmount func(c *Component)

	// BeforeStateUpdate runs after the new state is stored and before the
	// re-render.
	BeforeStateUpdate func(c *Component, prev, next State)

	// AfterStateUpdate runs after the re-render.
	AfterStateUpdate func(c *Component, prev, next State)

	// BeforeUpdate runs at the start of Update with its data.
	BeforeUpdate func(c *Component, data any)

	// OnError receives recovered render and hook panics as E104 errors.
	OnError func(c *Component, err error)
}

// Phase is a component's lifecycle state.
type Phase uint8

const (
	PhaseConstructed Phase = iota
	PhaseRendered
	PhaseMounted
	PhaseUnmounted
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseConstructed:
		return "constructed"
	case PhaseRendered:
		return "rendered"
	case PhaseMounted:
		return "mounted"
	case PhaseUnmounted:
		return "unmounted"
	default:
		return "unknown"
	}
}
