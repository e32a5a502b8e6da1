package fantoccini

import (
	"log/slog"
	"strings"

	"github.com/vango-dev/fantoccini/internal/config"
	"github.com/vango-dev/fantoccini/pkg/layout"
	"github.com/vango-dev/fantoccini/pkg/navsync"
)

// DefaultHref is the location a document starts at when Config.Href is empty.
const DefaultHref = "http://localhost:3000/"

// Config configures an App.
type Config struct {
	// Href is the initial location of the document, including the origin.
	Href string

	// Layout configures the page frame. The zero value is replaced by
	// layout.DefaultOptions().
	Layout *layout.Options

	// Brand is shown at the left of the navigation bar.
	Brand string

	// Fetcher refreshes the navigation bar's route labels when it mounts.
	// Optional; without it the bar shows navsync.StaticRoutes.
	Fetcher navsync.Fetcher

	// Logger is the structured logger for the application.
	// If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := layout.DefaultOptions()
	return Config{
		Href:   DefaultHref,
		Layout: &opts,
	}
}

// FromProject derives an App configuration from a project configuration.
// The document starts at the project origin.
func FromProject(cfg *config.Config) Config {
	c := DefaultConfig()
	c.Href = strings.TrimSuffix(cfg.Origin, "/") + "/"
	c.Brand = cfg.Nav.Brand
	return c
}

func (c Config) withDefaults() Config {
	if c.Href == "" {
		c.Href = DefaultHref
	}
	if c.Layout == nil {
		opts := layout.DefaultOptions()
		c.Layout = &opts
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}
