package router

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/fantoccini/internal/errors"
)

// RouteType classifies a discovered route for navigation labels.
type RouteType string

const (
	TypeStatic  RouteType = "static"
	TypeDynamic RouteType = "dynamic"
	TypeAPI     RouteType = "api"
)

// ParamDef defines a route parameter found in a directory name.
type ParamDef struct {
	// Name is the parameter name (e.g., "id").
	Name string

	// Segment is the original directory name (e.g., "[id]").
	Segment string

	// CatchAll is set for [...name] segments.
	CatchAll bool
}

// ScannedRoute represents a route discovered by the scanner.
type ScannedRoute struct {
	// Path is the route pattern (e.g., "/users/[id]").
	Path string `json:"path"`

	// Label is a human-readable name for navigation.
	Label string `json:"label"`

	// Type is static, dynamic or api.
	Type RouteType `json:"type"`

	// Dir is the directory the route was discovered in.
	Dir string `json:"-"`

	// Params are the route parameters.
	Params []ParamDef `json:"-"`

	// IsCatchAll indicates a [...name] segment.
	IsCatchAll bool `json:"-"`
}

// Scanner discovers routes from a directory tree.
//
// A directory is a page route when it contains a page.* or main.* file and
// an API route when it contains a route.* file and lives under /api.
// Bracketed directory names become route parameters, and a directory named
// "index" stands for its parent path.
type Scanner struct {
	rootDir string
}

// NewScanner creates a new route scanner.
func NewScanner(rootDir string) *Scanner {
	return &Scanner{rootDir: rootDir}
}

// ScanOptions configures scanning behavior.
type ScanOptions struct {
	// Validate enables duplicate/ambiguity detection.
	Validate bool

	// Sort orders routes by specificity (static > dynamic > catch-all).
	Sort bool
}

// Scan reads the directory tree and returns validated routes in walk order.
func (s *Scanner) Scan() ([]ScannedRoute, error) {
	return s.ScanWithOptions(ScanOptions{Validate: true})
}

// ScanWithOptions reads the directory tree with configurable validation and sorting.
func (s *Scanner) ScanWithOptions(opts ScanOptions) ([]ScannedRoute, error) {
	var routes []ScannedRoute

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		relPath, err := filepath.Rel(s.rootDir, path)
		if err != nil {
			return err
		}
		route, ok, err := s.scanDir(path, relPath)
		if err != nil {
			return err
		}
		if ok {
			routes = append(routes, route)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New("E111").WithDetail("%s", s.rootDir).Wrap(err)
	}

	if opts.Validate {
		if err := NewValidator(routes).Validate(); err != nil {
			return nil, err
		}
	}
	if opts.Sort {
		SortBySpecificity(routes)
	}
	return routes, nil
}

// scanDir decides whether dir is a route and describes it.
func (s *Scanner) scanDir(dir, relPath string) (ScannedRoute, bool, error) {
	entries, err := readDirNames(dir)
	if err != nil {
		return ScannedRoute{}, false, err
	}

	urlPath := s.dirToURLPath(relPath)
	isAPI := urlPath == "/api" || strings.HasPrefix(urlPath, "/api/")
	hasPage := hasStem(entries, "page") || hasStem(entries, "main")
	hasRoute := hasStem(entries, "route")

	if !hasPage && !(hasRoute && isAPI) {
		return ScannedRoute{}, false, nil
	}

	segment := lastSegment(urlPath)
	params := s.extractParams(relPath)
	isDynamic := len(params) > 0

	route := ScannedRoute{
		Path:       urlPath,
		Label:      GenerateLabel(segment),
		Dir:        dir,
		Params:     params,
		IsCatchAll: strings.Contains(urlPath, "[..."),
	}
	switch {
	case isAPI:
		route.Type = TypeAPI
	case isDynamic:
		route.Type = TypeDynamic
	default:
		route.Type = TypeStatic
	}
	return route, true, nil
}

// dirToURLPath converts a directory path relative to the root into a route
// pattern. "index" directories map to their parent.
func (s *Scanner) dirToURLPath(relPath string) string {
	path := filepath.ToSlash(relPath)
	if path == "." {
		return "/"
	}

	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "index" || seg == "" {
			continue
		}
		// Route groups like (marketing) do not contribute a segment.
		if strings.HasPrefix(seg, "(") && strings.HasSuffix(seg, ")") {
			continue
		}
		parts = append(parts, seg)
	}
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

// extractParams extracts parameter definitions from a directory path.
func (s *Scanner) extractParams(relPath string) []ParamDef {
	var params []ParamDef
	for _, m := range placeholderRe.FindAllStringSubmatch(filepath.ToSlash(relPath), -1) {
		params = append(params, ParamDef{
			Name:     m[2],
			Segment:  m[0],
			CatchAll: m[1] != "",
		})
	}
	return params
}

// GenerateLabel turns a route segment into a navigation label.
//
//	""          → Home
//	[id]        → Details
//	[slug]      → Post
//	[...path]   → Gateway
//	api-docs    → Api Docs
func GenerateLabel(segment string) string {
	switch segment {
	case "":
		return "Home"
	case "[id]":
		return "Details"
	case "[slug]":
		return "Post"
	case "[...path]":
		return "Gateway"
	}
	if strings.HasPrefix(segment, "[") {
		name := strings.Trim(segment, "[]")
		return strings.TrimPrefix(name, "...")
	}

	words := strings.Split(segment, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// SortBySpecificity orders routes so that more specific patterns come first:
// more segments first, static segments before parameters, catch-alls last.
func SortBySpecificity(routes []ScannedRoute) {
	sort.SliceStable(routes, func(i, j int) bool {
		return specificity(routes[i]) > specificity(routes[j])
	})
}

func specificity(route ScannedRoute) int {
	if route.IsCatchAll {
		return -1
	}
	segments := strings.Split(strings.Trim(route.Path, "/"), "/")
	if route.Path == "/" {
		segments = nil
	}
	score := len(segments) * 100
	for _, seg := range segments {
		if strings.HasPrefix(seg, "[") {
			score += 10
		} else {
			score += 50
		}
	}
	return score
}

func lastSegment(urlPath string) string {
	if urlPath == "/" {
		return ""
	}
	return urlPath[strings.LastIndex(urlPath, "/")+1:]
}

func hasStem(names []string, stem string) bool {
	for _, name := range names {
		if strings.TrimSuffix(name, filepath.Ext(name)) == stem {
			return true
		}
	}
	return false
}

func readDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
