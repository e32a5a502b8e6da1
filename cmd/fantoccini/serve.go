package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/vango-dev/fantoccini/internal/config"
	"github.com/vango-dev/fantoccini/pkg/bridge"
	"github.com/vango-dev/fantoccini/pkg/navsync"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
	"golang.org/x/sync/errgroup"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var (
		port  int
		host  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the routes API and the session bridge",
		Long: `Serve the routes API and the websocket session bridge.

The routes API lists the project's routes at /api/routes, reports
server statistics at /api/stats and exposes Prometheus metrics at
/metrics. Every websocket session on the bridge endpoint drives its own
copy of the site.

Example:
  fantoccini serve
  fantoccini serve --port 8080 --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				p.cfg.Server.Port = port
			}
			if host != "" {
				p.cfg.Server.Host = host
			}
			if watch {
				p.cfg.Routes.Watch = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner()
			fmt.Println()
			info("Routes API:  %s/api/routes", p.apiURL())
			if p.cfg.Server.Bridge != "-" {
				info("Bridge:      %s%s", strings.Replace(p.apiURL(), "http", "ws", 1), p.cfg.Server.Bridge)
			}
			info("Source:      %s", p.cfg.Routes.Source)
			fmt.Println()

			if err := runServe(ctx, p); err != nil {
				return err
			}
			success("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Server port (default from config)")
	cmd.Flags().StringVar(&host, "host", "", "Server host (default from config)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rescan the routes directory on changes")

	return cmd
}

// runServe serves until ctx is cancelled or a component fails.
func runServe(ctx context.Context, p *project) error {
	src, dir := p.routeSource()

	apiOpts := []routesapi.Option{
		routesapi.WithSource(src),
		routesapi.WithLogger(p.logger),
		routesapi.WithShutdownTimeout(p.cfg.ShutdownTimeout()),
	}
	if ns := p.cfg.Server.MetricsNamespace; ns != "" {
		apiOpts = append(apiOpts, routesapi.WithMetricsConfig(routesapi.MetricsConfig{
			Namespace: ns,
			Buckets:   prometheus.DefBuckets,
		}))
	}
	api := routesapi.NewServer(apiOpts...)

	g, ctx := errgroup.WithContext(ctx)

	if p.cfg.Server.Bridge != "-" {
		bridgeSrv := bridge.NewServer(p.pageFactory(src),
			bridge.WithTracker(api),
			bridge.WithLogger(p.logger),
		)
		api.Mount(p.cfg.Server.Bridge, bridgeSrv)

		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), p.cfg.ShutdownTimeout())
			defer cancel()
			return bridgeSrv.Shutdown(shutdownCtx)
		})
	}

	if dir != nil && p.cfg.Routes.Watch {
		w, err := routesapi.NewWatcher(dir,
			routesapi.WithDebounce(p.cfg.Debounce()),
			routesapi.WithWatcherLogger(p.logger),
			routesapi.WithOnChange(func(routes []routesapi.RouteInfo) {
				p.logger.Info("routes reloaded", "count", len(routes))
			}),
		)
		if err != nil {
			return err
		}
		g.Go(func() error { return w.Run(ctx) })
	}

	g.Go(func() error { return api.ListenAndServe(ctx, p.cfg.Address()) })

	return g.Wait()
}

// pageFactory starts one copy of the site per bridge session. With
// nav.fetchRoutes the navigation bar loads its links from the routes API
// over HTTP, as a browser would.
func (p *project) pageFactory(src routesapi.Source) bridge.PageFactory {
	if p.cfg.Routes.Source == config.SourceStatic {
		src = nil
	}
	return func(ctx context.Context, sessionID string) (bridge.Page, error) {
		logger := p.logger.With(slog.String("session", sessionID))

		var fetcher navsync.Fetcher
		if p.cfg.Nav.FetchRoutes {
			fetcher = routesapi.NewClient(p.apiURL(), routesapi.WithClientLogger(logger))
		}
		return p.newApp(ctx, logger, src, fetcher)
	}
}
