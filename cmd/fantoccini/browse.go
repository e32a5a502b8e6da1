package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/fantoccini"
	"github.com/vango-dev/fantoccini/pkg/bridge"
	"github.com/vango-dev/fantoccini/pkg/navsync"
	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

const shellHelp = `Commands:
  go <path>        navigate on the client
  link <path>      click the link to path
  click <selector> click the first element matching selector
  back, forward    move through history
  where            show the current route
  links            list the navigation bar links
  html             print the document body
  help             show this help
  quit             leave the shell
`

func browseCmd(opts *rootOptions) *cobra.Command {
	var (
		path string
		api  string
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the site in an interactive shell",
		Long: `Start the site on a headless document and drive it from the terminal.

Every route change is printed as it happens. With --api the navigation
bar loads its links from a running routes API.

Example:
  fantoccini browse
  fantoccini browse --path /users --api http://localhost:3001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			if path != "" {
				p.cfg.Origin = strings.TrimSuffix(p.cfg.Origin, "/") + "/" + strings.TrimPrefix(path, "/")
			}

			src, _ := p.routeSource()
			var fetcher navsync.Fetcher
			if api != "" {
				fetcher = routesapi.NewClient(api, routesapi.WithClientLogger(p.logger))
			}

			app, err := p.newApp(cmd.Context(), p.logger, src, fetcher)
			if err != nil {
				return err
			}
			defer app.Close()

			return runShell(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Initial path")
	cmd.Flags().StringVar(&api, "api", "", "Routes API base URL for the navigation bar")

	return cmd
}

// runShell reads commands from in until quit or end of input.
func runShell(ctx context.Context, app *fantoccini.App, in io.Reader, out io.Writer) error {
	unsubscribe := app.Subscribe(func(sig router.Signal) {
		fmt.Fprintf(out, "→ %s\n", describe(sig))
	})
	defer unsubscribe()

	fmt.Fprintf(out, "at %s\n", describe(app.Current()))

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		arg := strings.TrimSpace(strings.TrimPrefix(sc.Text(), fields[0]))

		var err error
		switch fields[0] {
		case "go", "navigate":
			err = app.Navigate(ctx, arg)
		case "link":
			_, err = app.Apply(ctx, bridge.Command{Op: bridge.OpClick, Path: arg})
		case "click":
			err = app.Click(ctx, arg)
		case "back":
			_, err = app.Apply(ctx, bridge.Command{Op: bridge.OpBack})
		case "forward":
			_, err = app.Apply(ctx, bridge.Command{Op: bridge.OpForward})
		case "where":
			fmt.Fprintln(out, describe(app.Current()))
		case "links":
			printLinks(out, app)
		case "html":
			fmt.Fprintln(out, app.HTML())
		case "help", "?":
			fmt.Fprint(out, shellHelp)
		case "quit", "exit":
			return nil
		default:
			err = fmt.Errorf("unknown command %q, try help", fields[0])
		}
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func describe(sig router.Signal) string {
	if sig.Pattern == "" {
		return sig.Pathname + " (not found)"
	}
	s := sig.Pathname + " (" + sig.Pattern + ")"
	for _, p := range sig.Params {
		s += " " + p.Name + "=" + p.Value
	}
	return s
}

func printLinks(out io.Writer, app *fantoccini.App) {
	bar := app.NavBar()
	if bar == nil {
		fmt.Fprintln(out, "no navigation bar")
		return
	}
	var routes []routesapi.RouteInfo
	active := map[string]bool{}
	_ = app.Do(context.Background(), func() error {
		routes = bar.Routes()
		for _, p := range bar.ActivePaths() {
			active[p] = true
		}
		return nil
	})
	for _, r := range routes {
		mark := " "
		if active[r.Path] {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %-20s %s\n", mark, r.Path, r.Label)
	}
}
