package manifest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// Store loads and saves a manifest.
//
// Load returns an E131 error when no manifest has been saved yet and E130
// for any other failure.
type Store interface {
	Load(ctx context.Context) (*Manifest, error)
	Save(ctx context.Context, m *Manifest) error
}

// Source serves the routes of a stored manifest. The manifest is loaded
// once and cached; Reload fetches it again.
type Source struct {
	store  Store
	logger *slog.Logger

	mu     sync.RWMutex
	cached *Manifest
}

// NewSource creates a Source over store.
func NewSource(store Store, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{store: store, logger: logger}
}

var _ routesapi.Source = (*Source)(nil)

// Routes returns the manifest routes, loading the manifest on first use.
func (s *Source) Routes(ctx context.Context) ([]routesapi.RouteInfo, error) {
	s.mu.RLock()
	m := s.cached
	s.mu.RUnlock()
	if m == nil {
		var err error
		if m, err = s.Reload(ctx); err != nil {
			return nil, err
		}
	}
	return m.RouteInfos(), nil
}

// Reload fetches the manifest from the store. On failure the cached
// manifest, if any, is kept.
func (s *Source) Reload(ctx context.Context) (*Manifest, error) {
	m, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn("loading route manifest failed", "error", err)
		return nil, errors.FromError(err, "E130")
	}
	s.mu.Lock()
	s.cached = m
	s.mu.Unlock()
	s.logger.Debug("route manifest loaded", "routes", len(m.Routes), "generated", m.Generated)
	return m, nil
}
