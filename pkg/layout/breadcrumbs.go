package layout

import "github.com/rohanthewiz/element"

// Crumb is one step of a breadcrumb trail. Href is optional.
type Crumb struct {
	Label string
	Href  string
}

// Breadcrumbs renders a trail of links separated by slashes. The last crumb
// is the current page and is never a link.
func Breadcrumbs(items []Crumb) string {
	if len(items) == 0 {
		return ""
	}
	b := element.NewBuilder()
	b.Nav("class", "breadcrumbs", "style", "padding: 1rem 0; font-size: 0.875rem;").R(
		func() any {
			for i, it := range items {
				last := i == len(items)-1
				if i > 0 {
					b.Span("class", "separator", "style", "color: #9ca3af; margin: 0 0.5rem;").T("/")
				}
				switch {
				case it.Href != "" && !last:
					b.A("href", it.Href, "style", "color: #0066cc; text-decoration: none;").T(it.Label)
				case last:
					b.Span("class", "current", "style", "color: #374151;").T(it.Label)
				default:
					b.Span("style", "color: #6b7280;").T(it.Label)
				}
			}
			return nil
		}(),
	)
	return b.String()
}
