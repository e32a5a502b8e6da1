package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/fantoccini/internal/errors"
)

// Validator checks scanned routes for conflicts.
type Validator struct {
	routes []ScannedRoute
	errors []ValidationError
}

// ValidationError describes one conflict between scanned routes.
type ValidationError struct {
	// Shape is the normalized pattern the routes share.
	Shape string

	// Paths are the conflicting route patterns.
	Paths []string

	// Dirs are the directories the routes came from.
	Dirs []string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("routes %s share the shape %s", strings.Join(e.Paths, ", "), e.Shape)
}

// MultiValidationError wraps multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d route conflicts:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// NewValidator creates a new route validator.
func NewValidator(routes []ScannedRoute) *Validator {
	return &Validator{routes: routes}
}

// Validate reports routes that would match exactly the same paths, such as
// /users/[id] and /users/[uid]. The returned error carries code E111 and
// wraps a *MultiValidationError.
func (v *Validator) Validate() error {
	v.errors = nil

	var order []string
	byShape := make(map[string][]ScannedRoute)
	for _, route := range v.routes {
		shape := Shape(route.Path)
		if _, ok := byShape[shape]; !ok {
			order = append(order, shape)
		}
		byShape[shape] = append(byShape[shape], route)
	}

	for _, shape := range order {
		routes := byShape[shape]
		if len(routes) < 2 {
			continue
		}
		ve := ValidationError{Shape: shape}
		for _, r := range routes {
			ve.Paths = append(ve.Paths, r.Path)
			ve.Dirs = append(ve.Dirs, r.Dir)
		}
		v.errors = append(v.errors, ve)
	}

	if len(v.errors) == 0 {
		return nil
	}
	return errors.New("E111").
		WithDetail("%d conflicting route group(s)", len(v.errors)).
		Wrap(&MultiValidationError{Errors: v.errors})
}

// Errors returns the conflicts found by the last Validate call.
func (v *Validator) Errors() []ValidationError {
	return v.errors
}

// Shape normalizes a pattern by replacing parameter names, so that two
// patterns with the same shape match the same set of paths.
func Shape(pattern string) string {
	return placeholderRe.ReplaceAllStringFunc(pattern, func(m string) string {
		if strings.HasPrefix(m, "[...") {
			return "[...]"
		}
		return "[]"
	})
}
