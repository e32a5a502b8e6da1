package components

import (
	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/dom"
)

// CardVariant selects the visual style of a Card.
type CardVariant string

const (
	CardDefault  CardVariant = "default"
	CardGradient CardVariant = "gradient"
	CardTerminal CardVariant = "terminal"
	CardInfo     CardVariant = "info"
)

const cardBaseStyle = "border-radius: 8px; padding: 1.5rem; margin: 1rem 0;"

var cardVariantStyles = map[CardVariant]string{
	CardDefault:  "background: white; border: 1px solid #e5e7eb;",
	CardGradient: "background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white;",
	CardTerminal: `background: #2d2d2d; color: #d4d4d4; font-family: "Courier New", monospace;`,
	CardInfo:     "background: #f9fafb; border: 1px solid #e5e7eb; color: #6b7280; font-size: 0.875rem;",
}

// CardAction is the detail of a card-action event.
type CardAction struct {
	Action string
}

// Card renders a titled box around content. Each action is a
// button that emits card-action when clicked.
type Card struct {
	*component.Component
}

// NewCard creates a Card.
func NewCard(doc *dom.Document, cfg Config, title, content string, variant CardVariant, actions ...string) *Card {
	if _, ok := cardVariantStyles[variant]; !ok {
		variant = CardDefault
	}
	c := &Card{}
	c.Component = component.New(doc, cfg.options("Card", "div", component.Hooks{
		InitialState: func() component.State {
			return component.Record(map[string]any{
				"title":   title,
				"content": content,
				"variant": variant,
				"actions": append([]string(nil), actions...),
			})
		},
		Template: func(comp *component.Component, _ string) string { return renderCard(comp.State()) },
		BindEvents: func(comp *component.Component) {
			comp.ListenAll("button[data-action]", "click", func(ev *dom.Event) {
				ev.PreventDefault()
				comp.Emit(EventCardAction, CardAction{Action: dom.Attr(ev.CurrentTarget, "data-action")})
			})
		},
	}))
	return c
}

// SetContent replaces the content and title.
func (c *Card) SetContent(content, title string) error {
	return c.SetState(component.Record(map[string]any{"content": content, "title": title}))
}

func renderCard(s component.State) string {
	variant, _ := s.Get("variant")
	actions, _ := s.Get("actions")
	title := s.String("title")

	b := element.NewBuilder()
	b.Div("class", "card", "style", cardBaseStyle+cardVariantStyles[variant.(CardVariant)]).R(
		func() any {
			if title != "" {
				b.H2("style", "margin-top: 0; color: #374151;").T(title)
			}
			return nil
		}(),
		b.DivClass("card-content").T(s.String("content")),
		func() any {
			list, _ := actions.([]string)
			if len(list) == 0 {
				return nil
			}
			b.DivClass("card-actions").R(
				func() any {
					for _, a := range list {
						b.Button("type", "button", "data-action", a).T(a)
					}
					return nil
				}(),
			)
			return nil
		}(),
	)
	return b.String()
}
