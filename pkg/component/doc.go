// Package component is the lifecycle base for UI components rendered into a
// dom.Document.
//
// A Component owns one root element, a State, the event bindings it
// registered while rendering, and a set of keyed children. Rendering is
// a full replacement of the root's content: every state change runs
// cleanup (unbind listeners, unmount children) followed by a fresh render.
//
// # Lifecycle
//
//	New ──▶ Rendered ──Mount/Replace──▶ Mounted ──Unmount──▶ Unmounted
//	                                      │  ▲
//	                                      └──┘ SetState / ReplaceState / Update
//
// Behaviour is supplied through Hooks rather than by embedding:
//
//	counter := component.New(doc, component.Options{
//	    Hooks: component.Hooks{
//	        InitialState: func() component.State {
//	            return component.Record(map[string]any{"n": 0})
//	        },
//	        Template: func(c *component.Component, _ string) string {
//	            return fmt.Sprintf("<button>%d</button>", c.State().Int("n"))
//	        },
//	        BindEvents: func(c *component.Component) {
//	            c.Listen("button", "click", func(*dom.Event) {
//	                c.SetState(component.Record(map[string]any{"n": c.State().Int("n") + 1}))
//	            })
//	        },
//	    },
//	})
//	err := counter.Mount("#app")
//
// # Errors
//
// Mount fails with E101 when its target cannot be resolved and Replace with
// E102. Any operation on an unmounted component returns E103. A panic inside
// a render step or hook is recovered, logged, handed to Hooks.OnError and
// returned as E104.
//
// # Concurrency
//
// A Component must only be used from the goroutine that drains the
// application loop. State changes requested while a render is running are
// queued and applied after it finishes. Blocking work belongs in Go, whose
// continuation is dropped if the component has been unmounted by then.
package component
