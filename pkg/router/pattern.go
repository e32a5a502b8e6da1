package router

import (
	"regexp"
	"strings"

	"github.com/vango-dev/fantoccini/internal/errors"
)

// placeholderRe matches [name] and [...name] segments.
var placeholderRe = regexp.MustCompile(`\[(\.\.\.)?(\w+)\]`)

// Route is a compiled route pattern. It is immutable after Compile.
type Route struct {
	// Pattern is the original pattern string (e.g., "/users/[id]").
	Pattern string

	re     *regexp.Regexp
	params []string
}

// Params returns the parameter names in declaration order.
func (r *Route) Params() []string {
	out := make([]string, len(r.params))
	copy(out, r.params)
	return out
}

// Expr returns the compiled regular expression source.
func (r *Route) Expr() string {
	return r.re.String()
}

// IsDynamic reports whether the route has any parameters.
func (r *Route) IsDynamic() bool {
	return len(r.params) > 0
}

// Compile turns a route pattern into a Route.
//
// Catch-all placeholders [...name] become a greedy group that matches zero
// or more characters including "/"; [name] placeholders become a group that
// matches one or more characters other than "/". All other text is matched
// literally, and the expression is anchored at both ends. Parameter names
// are recorded left to right, in the same order as the capture groups.
func Compile(pattern string) (*Route, error) {
	if pattern == "" {
		return nil, errors.New("E110").WithDetail("pattern is empty")
	}

	var b strings.Builder
	var params []string
	seen := make(map[string]bool)

	b.WriteString("^")
	last := 0
	for _, m := range placeholderRe.FindAllStringSubmatchIndex(pattern, -1) {
		b.WriteString(regexp.QuoteMeta(pattern[last:m[0]]))

		name := pattern[m[4]:m[5]]
		if seen[name] {
			return nil, errors.New("E110").WithDetail("%q declares parameter %q twice", pattern, name)
		}
		seen[name] = true
		params = append(params, name)

		if m[2] >= 0 {
			b.WriteString("(.*)")
		} else {
			b.WriteString("([^/]+)")
		}
		last = m[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, errors.New("E110").WithDetail("%q", pattern).Wrap(err)
	}
	if re.NumSubexp() != len(params) {
		return nil, errors.New("E110").WithDetail("%q compiled to %d groups for %d parameters", pattern, re.NumSubexp(), len(params))
	}

	return &Route{Pattern: pattern, re: re, params: params}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(pattern string) *Route {
	r, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Match tests path against the route and returns the captured parameters.
func (r *Route) Match(path string) (Params, bool) {
	groups := r.re.FindStringSubmatch(path)
	if groups == nil {
		return nil, false
	}
	params := make(Params, len(r.params))
	for i, name := range r.params {
		params[i] = Param{Name: name, Value: groups[i+1]}
	}
	return params, true
}
