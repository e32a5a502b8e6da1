package routesapi

import (
	"context"
	"sync"

	"github.com/vango-dev/fantoccini/pkg/router"
)

// DirSource lists the routes discovered in a routes directory. The scan is
// cached; Refresh rescans.
type DirSource struct {
	dir string

	mu      sync.RWMutex
	routes  []RouteInfo
	scanned bool
}

// NewDirSource creates a source for the routes directory dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// Dir returns the routes directory.
func (s *DirSource) Dir() string {
	return s.dir
}

// Routes returns the cached routes, scanning on first use.
func (s *DirSource) Routes(context.Context) ([]RouteInfo, error) {
	s.mu.RLock()
	if s.scanned {
		out := append([]RouteInfo(nil), s.routes...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]RouteInfo(nil), s.routes...), nil
}

// Refresh rescans the directory. On failure the previous routes are kept.
func (s *DirSource) Refresh() error {
	scanned, err := router.NewScanner(s.dir).ScanWithOptions(router.ScanOptions{Validate: true})
	if err != nil {
		return err
	}
	routes := FromScanned(scanned)

	s.mu.Lock()
	s.routes = routes
	s.scanned = true
	s.mu.Unlock()
	return nil
}

// FromScanned converts scanner output into listing entries.
func FromScanned(scanned []router.ScannedRoute) []RouteInfo {
	routes := make([]RouteInfo, 0, len(scanned))
	for _, r := range scanned {
		routes = append(routes, RouteInfo{
			Path:  r.Path,
			Label: r.Label,
			Type:  RouteType(r.Type),
		})
	}
	return routes
}
