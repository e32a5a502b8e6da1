package components

import (
	"github.com/rohanthewiz/element"
	"github.com/vango-dev/fantoccini/pkg/component"
	"github.com/vango-dev/fantoccini/pkg/dom"
)

// ListVariant selects the visual style of a LinkList.
type ListVariant string

const (
	ListDefault  ListVariant = "default"
	ListNav      ListVariant = "nav"
	ListTerminal ListVariant = "terminal"
)

// LinkItem is one entry of a LinkList.
type LinkItem struct {
	Href        string `json:"href"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ItemClick is the detail of an item-click event.
type ItemClick struct {
	Href  string
	Label string
}

type listStyles struct {
	list, item, link, desc string
}

var listVariantStyles = map[ListVariant]listStyles{
	ListDefault: {
		list: "padding-left: 1.5rem;",
		item: "margin: 0.5rem 0;",
		link: "color: #0066cc;",
		desc: "color: #6b7280; font-size: 0.875rem; margin-left: 0.5rem;",
	},
	ListNav: {
		list: "list-style: none; padding: 0; display: flex; gap: 1rem; flex-wrap: wrap;",
		item: "margin: 0;",
		link: "color: #0066cc; text-decoration: none; padding: 0.5rem 1rem; border-radius: 4px; background: #f3f4f6;",
		desc: "color: #6b7280; font-size: 0.875rem; margin-left: 0.5rem;",
	},
	ListTerminal: {
		list: "list-style: none; padding: 0;",
		item: "margin: 0.5rem 0;",
		link: "color: #569cd6;",
		desc: "color: #608b4e; margin-left: 0.5rem;",
	},
}

// LinkList renders a titled list of links. Clicking a link emits
// item-click and leaves the default action to the navigator.
type LinkList struct {
	*component.Component
}

// NewLinkList creates a LinkList. An unknown variant falls back to ListDefault.
func NewLinkList(doc *dom.Document, cfg Config, title string, variant ListVariant, items ...LinkItem) *LinkList {
	if _, ok := listVariantStyles[variant]; !ok {
		variant = ListDefault
	}
	l := &LinkList{}
	l.Component = component.New(doc, cfg.options("LinkList", "div", component.Hooks{
		InitialState: func() component.State {
			return component.Record(map[string]any{
				"title":   title,
				"variant": variant,
				"items":   append([]LinkItem(nil), items...),
			})
		},
		Template:   func(c *component.Component, _ string) string { return l.render(c.State()) },
		BindEvents: l.bindEvents,
	}))
	return l
}

// Items returns the current items.
func (l *LinkList) Items() []LinkItem {
	items, _ := l.State().Get("items")
	list, _ := items.([]LinkItem)
	return append([]LinkItem(nil), list...)
}

// SetItems replaces the items and re-renders.
func (l *LinkList) SetItems(items []LinkItem) error {
	return l.SetState(component.Record(map[string]any{"items": append([]LinkItem(nil), items...)}))
}

// AddItem appends an item and re-renders.
func (l *LinkList) AddItem(item LinkItem) error {
	return l.SetItems(append(l.Items(), item))
}

func (l *LinkList) render(s component.State) string {
	variant, _ := s.Get("variant")
	styles := listVariantStyles[variant.(ListVariant)]
	title := s.String("title")
	items, _ := s.Get("items")

	b := element.NewBuilder()
	b.Div().R(
		func() any {
			if title != "" {
				b.H3().T(title)
			}
			return nil
		}(),
		b.Ul("style", styles.list).R(
			func() any {
				for _, item := range items.([]LinkItem) {
					b.Li("style", styles.item).R(
						b.A("href", item.Href, "style", styles.link).T(item.Label),
						func() any {
							if item.Description != "" {
								b.Span("style", styles.desc).T(item.Description)
							}
							return nil
						}(),
					)
				}
				return nil
			}(),
		),
	)
	return b.String()
}

func (l *LinkList) bindEvents(c *component.Component) {
	c.ListenAll("a[href]", "click", func(ev *dom.Event) {
		a := ev.CurrentTarget
		c.Emit(EventItemClick, ItemClick{
			Href:  dom.Attr(a, "href"),
			Label: dom.TextContent(a),
		})
	})
}
