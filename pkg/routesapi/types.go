package routesapi

import (
	"context"
	"time"
)

// RouteType classifies a route in the listing.
type RouteType string

const (
	TypeStatic  RouteType = "static"
	TypeDynamic RouteType = "dynamic"
	TypeAPI     RouteType = "api"
)

// Valid reports whether t is one of the known route types.
func (t RouteType) Valid() bool {
	switch t {
	case TypeStatic, TypeDynamic, TypeAPI:
		return true
	}
	return false
}

// RouteInfo is one entry of the route listing.
type RouteInfo struct {
	Path  string    `json:"path"`
	Label string    `json:"label"`
	Type  RouteType `json:"type"`
}

// RoutesResponse is the body of GET /api/routes.
type RoutesResponse struct {
	Routes    []RouteInfo `json:"routes"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatsResponse is the body of GET /api/stats. Uptime is in seconds and
// ResponseTime is the running average in milliseconds.
type StatsResponse struct {
	Uptime       int64 `json:"uptime"`
	Requests     int64 `json:"requests"`
	Connections  int64 `json:"connections"`
	ResponseTime int64 `json:"responseTime"`
}

// MessageResponse is the body of the catch-all API endpoint.
type MessageResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Source provides the routes served by /api/routes.
type Source interface {
	Routes(ctx context.Context) ([]RouteInfo, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]RouteInfo, error)

// Routes calls f.
func (f SourceFunc) Routes(ctx context.Context) ([]RouteInfo, error) {
	return f(ctx)
}

// StaticSource serves a fixed list.
type StaticSource []RouteInfo

// Routes returns a copy of the list.
func (s StaticSource) Routes(context.Context) ([]RouteInfo, error) {
	return append([]RouteInfo(nil), s...), nil
}

// DefaultRoutes is the listing served when no routes directory or manifest
// is configured.
var DefaultRoutes = StaticSource{
	{Path: "/", Label: "Home", Type: TypeStatic},
	{Path: "/dashboard", Label: "Dashboard", Type: TypeStatic},
	{Path: "/api-docs", Label: "API Docs", Type: TypeStatic},
	{Path: "/users", Label: "Users List", Type: TypeStatic},
	{Path: "/users/[id]", Label: "User Details", Type: TypeDynamic},
	{Path: "/posts/[slug]", Label: "Blog Post", Type: TypeDynamic},
	{Path: "/api/[...path]", Label: "API Gateway", Type: TypeAPI},
}
