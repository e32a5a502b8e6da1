// Package manifest persists the output of route discovery so that the
// routes API can serve a listing without scanning a source tree at runtime.
//
// A Manifest is written by "fantoccini routes --write" and read through a
// Store, either a local JSON file or an object in S3. Source adapts a Store
// to routesapi.Source.
package manifest

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/fantoccini/internal/errors"
	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routesapi"
)

// Version is the manifest format written by this package.
const Version = 1

// Entry is one discovered route.
type Entry struct {
	Path  string              `json:"path"`
	Label string              `json:"label"`
	Type  routesapi.RouteType `json:"type"`

	// Entry is the build entry name of the route's bundle.
	Entry string `json:"entry,omitempty"`

	// Dir is the route directory relative to the scanned root, with
	// forward slashes.
	Dir string `json:"dir,omitempty"`
}

// Manifest is the persisted route discovery result.
type Manifest struct {
	Version   int       `json:"version"`
	Generated time.Time `json:"generated"`
	Routes    []Entry   `json:"routes"`
}

// Build creates a manifest from routes scanned under root.
func Build(root string, scanned []router.ScannedRoute, now time.Time) *Manifest {
	m := &Manifest{
		Version:   Version,
		Generated: now.UTC(),
		Routes:    make([]Entry, 0, len(scanned)),
	}
	for _, r := range scanned {
		dir := ""
		if rel, err := filepath.Rel(root, r.Dir); err == nil && rel != "." {
			dir = filepath.ToSlash(rel)
		}
		m.Routes = append(m.Routes, Entry{
			Path:  r.Path,
			Label: r.Label,
			Type:  routesapi.RouteType(r.Type),
			Entry: EntryName(r.Path),
			Dir:   dir,
		})
	}
	return m
}

// EntryName derives the build entry name for a route path. The root page
// is "main"; dynamic paths lose their brackets and gain a "-dynamic"
// suffix, so "/users/[id]" becomes "users/id-dynamic".
func EntryName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" || name == "index" {
		return "main"
	}
	if !strings.Contains(name, "[") {
		return name
	}
	name = strings.NewReplacer("[", "", "...", "", "]", "").Replace(name)
	return name + "-dynamic"
}

// RouteInfos returns the listing entries of the manifest.
func (m *Manifest) RouteInfos() []routesapi.RouteInfo {
	out := make([]routesapi.RouteInfo, 0, len(m.Routes))
	for _, e := range m.Routes {
		out = append(out, routesapi.RouteInfo{Path: e.Path, Label: e.Label, Type: e.Type})
	}
	return out
}

// Validate checks the format version and every entry.
func (m *Manifest) Validate() error {
	if m.Version < 1 || m.Version > Version {
		return errors.New("E130").WithDetail("unsupported manifest version %d", m.Version)
	}
	for i, e := range m.Routes {
		if !strings.HasPrefix(e.Path, "/") {
			return errors.New("E130").WithDetail("route %d: path %q is not absolute", i, e.Path)
		}
		if !e.Type.Valid() {
			return errors.New("E130").WithDetail("route %d: unknown type %q", i, e.Type)
		}
	}
	return nil
}

// Encode renders m as indented JSON.
func Encode(m *Manifest) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, errors.New("E130").Wrap(err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a manifest.
func Decode(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.New("E130").WithDetail("decoding manifest").Wrap(err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
