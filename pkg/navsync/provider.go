package navsync

import (
	"context"
	"log/slog"

	"github.com/vango-dev/fantoccini/pkg/dom"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// Loop posts next-tick tasks and runs blocking work off the loop.
// *loop.Loop satisfies it.
type Loop interface {
	Post(fn func()) bool
	Go(work func() func())
}

// Fetcher loads the route listing. *routesapi.Client satisfies it.
type Fetcher interface {
	Routes(ctx context.Context) ([]routesapi.RouteInfo, error)
}

// Config configures the navigation bar.
type Config struct {
	// Loop defers re-syncs to the next tick and runs route fetches. Without
	// one, both happen synchronously.
	Loop Loop

	// Fetcher refreshes the route labels on mount. Optional.
	Fetcher Fetcher

	// Brand is the title shown at the left of the bar.
	Brand string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Provider owns the application's single NavBar.
type Provider struct {
	doc *dom.Document
	cfg Config
	bar *NavBar
}

// NewProvider creates a provider for doc. No bar exists until Get.
func NewProvider(doc *dom.Document, cfg Config) *Provider {
	if cfg.Brand == "" {
		cfg.Brand = "🚀 Fantoccini"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Provider{doc: doc, cfg: cfg}
}

// Get returns the bar, creating it on first use or after it was unmounted.
func (p *Provider) Get() *NavBar {
	if p.bar == nil {
		p.bar = newNavBar(p.doc, p.cfg, p.forget)
		p.cfg.Logger.Debug("navigation bar created")
	}
	return p.bar
}

// Current returns the bar if one exists, without creating it.
func (p *Provider) Current() *NavBar {
	return p.bar
}

// Close detaches the bar from history and popstate and unmounts it.
func (p *Provider) Close() {
	bar := p.bar
	if bar == nil {
		return
	}
	if bar.Alive() {
		_ = bar.Unmount()
	}
	bar.release()
	p.bar = nil
}

func (p *Provider) forget(bar *NavBar) {
	if p.bar == bar {
		p.bar = nil
	}
}
