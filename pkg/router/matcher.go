package router

// Match is the result of a successful lookup.
type Match struct {
	Route  *Route
	Params Params
}

// Matcher holds registered routes in registration order.
type Matcher struct {
	routes []*Route
	index  map[string]int
}

// NewMatcher creates an empty matcher.
func NewMatcher() *Matcher {
	return &Matcher{index: make(map[string]int)}
}

// Register compiles pattern and appends it to the route list. Registering
// a pattern that is already present recompiles it in its original position.
func (m *Matcher) Register(pattern string) (*Route, error) {
	route, err := Compile(pattern)
	if err != nil {
		return nil, err
	}
	if i, ok := m.index[pattern]; ok {
		m.routes[i] = route
		return route, nil
	}
	m.index[pattern] = len(m.routes)
	m.routes = append(m.routes, route)
	return route, nil
}

// MustRegister registers every pattern and panics on the first error.
func (m *Matcher) MustRegister(patterns ...string) {
	for _, p := range patterns {
		if _, err := m.Register(p); err != nil {
			panic(err)
		}
	}
}

// Routes returns the registered routes in registration order.
func (m *Matcher) Routes() []*Route {
	out := make([]*Route, len(m.routes))
	copy(out, m.routes)
	return out
}

// Len returns the number of registered routes.
func (m *Matcher) Len() int {
	return len(m.routes)
}

// Match returns the first route, in registration order, that matches path.
func (m *Matcher) Match(path string) (*Match, bool) {
	for _, route := range m.routes {
		if params, ok := route.Match(path); ok {
			return &Match{Route: route, Params: params}, true
		}
	}
	return nil, false
}
