package router

// Param is one captured route parameter.
type Param struct {
	Name  string
	Value string
}

// Params holds captured parameters in the order they are declared in the
// route pattern.
type Params []Param

// Get returns the value of the named parameter.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Value returns the value of the named parameter, or "" when absent.
func (p Params) Value(name string) string {
	v, _ := p.Get(name)
	return v
}

// Names returns the parameter names in declaration order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// Map returns the parameters as a map.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, param := range p {
		m[param.Name] = param.Value
	}
	return m
}
