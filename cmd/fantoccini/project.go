package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/fantoccini"
	"github.com/vango-dev/fantoccini/internal/config"
	"github.com/vango-dev/fantoccini/internal/demo"
	"github.com/vango-dev/fantoccini/pkg/manifest"
	"github.com/vango-dev/fantoccini/pkg/navsync"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	dir      string
	logLevel string
}

// project is a loaded configuration and the logger built from it.
type project struct {
	cfg    *config.Config
	logger *slog.Logger
}

// load finds the project configuration at or above the --dir directory.
// Without a configuration file the defaults apply, relative to --dir.
func (o *rootOptions) load() (*project, error) {
	root, err := config.FindProjectRoot(o.dir)
	if err != nil {
		root = o.dir
	}
	cfg, err := config.LoadOrDefault(root)
	if err != nil {
		return nil, err
	}
	if cfg.Path() == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		for _, p := range []*string{&cfg.Paths.Routes, &cfg.Paths.Manifest} {
			if !filepath.IsAbs(*p) {
				*p = filepath.Join(abs, *p)
			}
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return &project{cfg: cfg, logger: logger}, nil
}

// newLogger builds the slog handler described by cfg.Log.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// manifestStore returns the configured manifest store.
func (p *project) manifestStore() manifest.Store {
	m := p.cfg.Manifest
	if m.Store == config.StoreS3 {
		client := manifest.NewS3Client(manifest.S3Config{Region: m.Region, Endpoint: m.Endpoint})
		return manifest.NewS3Store(client, m.Bucket, m.Key)
	}
	return manifest.NewFileStore(p.cfg.ManifestPath())
}

// routeSource returns the configured route listing. dir is set only for
// the scan source, which can be watched.
func (p *project) routeSource() (src routesapi.Source, dir *routesapi.DirSource) {
	switch p.cfg.Routes.Source {
	case config.SourceManifest:
		return manifest.NewSource(p.manifestStore(), p.logger), nil
	case config.SourceStatic:
		return routesapi.DefaultRoutes, nil
	}
	dir = routesapi.NewDirSource(p.cfg.RoutesPath())
	return dir, dir
}

// apiURL is the base URL clients use to reach the routes API.
func (p *project) apiURL() string {
	host := p.cfg.Server.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(p.cfg.Server.Port))
}

// newApp starts the demo site. Routes listed by src that the demo does not
// handle get a generic page. fetcher, when set, feeds the navigation bar.
func (p *project) newApp(ctx context.Context, logger *slog.Logger, src routesapi.Source, fetcher navsync.Fetcher) (*fantoccini.App, error) {
	cfg := fantoccini.FromProject(p.cfg)
	cfg.Logger = logger
	cfg.Fetcher = fetcher

	app, err := fantoccini.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := p.registerPages(ctx, app, src); err != nil {
		app.Close()
		return nil, err
	}
	if err := app.Start(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func (p *project) registerPages(ctx context.Context, app *fantoccini.App, src routesapi.Source) error {
	if err := demo.Register(app); err != nil {
		return err
	}
	if src == nil {
		return nil
	}
	routes, err := src.Routes(ctx)
	if err != nil {
		p.logger.Warn("route listing unavailable, serving the demo pages only", "error", err)
		return nil
	}
	return demo.RegisterDiscovered(app, routes)
}
