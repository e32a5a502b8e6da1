package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routepath"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

func matchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <path>...",
		Short: "Show which route handles a path",
		Long: `Match paths against the configured route listing.

Paths are cleaned first, so "/users//42/" matches like "/users/42".
Routes are tried in listing order and the first match wins, as in the
browser.

Example:
  fantoccini match /users/42 /api/v1/users/list`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			src, _ := p.routeSource()
			routes, err := src.Routes(cmd.Context())
			if err != nil {
				return err
			}
			matcher, err := newMatcher(routes)
			if err != nil {
				return err
			}
			printMatches(cmd.OutOrStdout(), matcher, args)
			return nil
		},
	}
	return cmd
}

func newMatcher(routes []routesapi.RouteInfo) (*router.Matcher, error) {
	m := router.NewMatcher()
	for _, r := range routes {
		if _, err := m.Register(r.Path); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func printMatches(w io.Writer, m *router.Matcher, paths []string) {
	for _, path := range paths {
		clean, err := routepath.Canonicalize(path)
		if err != nil {
			fmt.Fprintf(w, "\033[31m✗\033[0m %s  %v\n", path, err)
			continue
		}
		match, ok := m.Match(clean.Path)
		if !ok {
			fmt.Fprintf(w, "\033[31m✗\033[0m %s  no route\n", path)
			continue
		}
		var params []string
		for _, p := range match.Params {
			params = append(params, p.Name+"="+p.Value)
		}
		fmt.Fprintf(w, "\033[32m✓\033[0m %s  %s", path, match.Route.Pattern)
		if len(params) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(params, " "))
		}
		fmt.Fprintln(w)
	}
}
