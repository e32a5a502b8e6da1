package routesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vango-dev/fantoccini/internal/errors"
)

// maxListingBytes bounds the size of a route listing response.
const maxListingBytes = 1 << 20

// Client fetches the route listing from a routes API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithClientLogger sets the client logger.
func WithClientLogger(l *slog.Logger) ClientOption {
	return func(cl *Client) {
		cl.logger = l
	}
}

// NewClient creates a client for the API at baseURL (e.g. "http://localhost:3001").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Second},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Routes fetches and validates /api/routes. Transport failures and non-2xx
// responses yield E120; a body that is not a valid listing yields E121.
func (c *Client) Routes(ctx context.Context) ([]RouteInfo, error) {
	url := c.baseURL + "/api/routes"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.New("E120").WithDetail("%s", url).Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.New("E120").WithDetail("%s", url).Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.New("E120").WithDetail("%s returned %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListingBytes))
	if err != nil {
		return nil, errors.New("E120").WithDetail("reading %s", url).Wrap(err)
	}

	routes, err := DecodeRoutes(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched route listing", "url", url, "routes", len(routes))
	return routes, nil
}

// DecodeRoutes parses a route listing body. It requires a "routes" array
// whose entries all have a path, a label and a known type.
func DecodeRoutes(body []byte) ([]RouteInfo, error) {
	var payload struct {
		Routes *[]RouteInfo `json:"routes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.New("E121").Wrap(err)
	}
	if payload.Routes == nil {
		return nil, errors.New("E121").WithDetail(`missing "routes" array`)
	}
	routes := *payload.Routes
	for i, r := range routes {
		if err := validateRoute(r); err != nil {
			return nil, errors.New("E121").WithDetail("routes[%d]: %v", i, err)
		}
	}
	return routes, nil
}

func validateRoute(r RouteInfo) error {
	if !strings.HasPrefix(r.Path, "/") {
		return fmt.Errorf("path %q must start with /", r.Path)
	}
	if r.Label == "" {
		return fmt.Errorf("route %s has no label", r.Path)
	}
	if !r.Type.Valid() {
		return fmt.Errorf("route %s has unknown type %q", r.Path, r.Type)
	}
	return nil
}
