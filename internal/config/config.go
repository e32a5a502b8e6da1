package config

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/fantoccini/internal/errors"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name of the configuration file. It is
	// looked up with a .json, .yaml or .yml extension, in that order.
	ConfigFileName = "fantoccini"

	// DefaultOrigin is the origin of the headless document.
	DefaultOrigin = "http://localhost:3000"

	// DefaultHost is the address the API server binds to.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the API server port.
	DefaultPort = 3001

	// DefaultRoutes is the routes directory, relative to the project root.
	DefaultRoutes = "src/routes"

	// DefaultManifest is the route manifest file, relative to the project root.
	DefaultManifest = "dist/routes.json"
)

// Extensions lists the recognised config file extensions in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Route sources.
const (
	SourceScan     = "scan"
	SourceManifest = "manifest"
	SourceStatic   = "static"
)

// Manifest stores.
const (
	StoreFile = "file"
	StoreS3   = "s3"
)

// Config is the project configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Origin is the scheme and host of the headless document. Links to
	// other origins are hard navigations.
	Origin string `json:"origin,omitempty" yaml:"origin,omitempty"`

	// Paths contains project directories.
	Paths PathsConfig `json:"paths,omitempty" yaml:"paths,omitempty"`

	// Server configures the API and bridge server.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`

	// Routes configures where the route listing comes from.
	Routes RoutesConfig `json:"routes,omitempty" yaml:"routes,omitempty"`

	// Manifest configures the manifest store.
	Manifest ManifestConfig `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Nav configures the navigation bar.
	Nav NavConfig `json:"nav,omitempty" yaml:"nav,omitempty"`

	// Log configures logging.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PathsConfig contains project directories.
type PathsConfig struct {
	// Routes is the routes directory that is scanned for pages.
	Routes string `json:"routes,omitempty" yaml:"routes,omitempty"`

	// Manifest is the manifest file used by the file store.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty"`

	// ShutdownTimeout bounds graceful shutdown, e.g. "10s".
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`

	// Bridge is the websocket endpoint path. "-" disables the bridge.
	Bridge string `json:"bridge,omitempty" yaml:"bridge,omitempty"`

	// MetricsNamespace prefixes the Prometheus metric names.
	MetricsNamespace string `json:"metricsNamespace,omitempty" yaml:"metricsNamespace,omitempty"`
}

// RoutesConfig configures the route listing.
type RoutesConfig struct {
	// Source is "scan", "manifest" or "static".
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Watch rescans the routes directory when it changes. Only used with
	// the scan source.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`

	// Debounce is the quiet period before a rescan, e.g. "200ms".
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`
}

// ManifestConfig configures the manifest store.
type ManifestConfig struct {
	// Store is "file" or "s3".
	Store string `json:"store,omitempty" yaml:"store,omitempty"`

	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key      string `json:"key,omitempty" yaml:"key,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// NavConfig configures the navigation bar.
type NavConfig struct {
	Brand string `json:"brand,omitempty" yaml:"brand,omitempty"`

	// FetchRoutes loads the bar's links from the routes API on mount.
	FetchRoutes bool `json:"fetchRoutes,omitempty" yaml:"fetchRoutes,omitempty"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration file in dir.
func Load(dir string) (*Config, error) {
	path, ok := find(dir)
	if !ok {
		return nil, errors.New("E141").
			WithDetail("No %s.json or %s.yaml found in %s", ConfigFileName, ConfigFileName, dir).
			WithSuggestion("Create " + ConfigFileName + ".yaml or run with defaults")
	}
	return LoadFile(path)
}

// LoadFile reads configuration from path. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").WithDetail("%s", path)
		}
		return nil, errors.New("E140").WithDetail("reading %s", path).Wrap(err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E140").
			WithDetail("Failed to parse %s", filepath.Base(path)).
			WithSuggestion("Check the file syntax").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyEnvOverrides()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads the configuration in dir, falling back to defaults
// when there is no configuration file.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.IsCode(err, "E141") {
		cfg = New()
		cfg.applyEnvOverrides()
		cfg.applyDefaults()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path in the format its extension names.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E140").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E140").WithDetail("writing %s", path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyEnvOverrides applies FANTOCCINI_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FANTOCCINI_ORIGIN"); v != "" {
		c.Origin = v
	}
	if v := os.Getenv("FANTOCCINI_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("FANTOCCINI_ROUTES"); v != "" {
		c.Paths.Routes = v
	}
	if v := os.Getenv("FANTOCCINI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}

	// Paths
	if c.Paths.Routes == "" {
		c.Paths.Routes = DefaultRoutes
	}
	if c.Paths.Manifest == "" {
		c.Paths.Manifest = DefaultManifest
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "10s"
	}
	if c.Server.Bridge == "" {
		c.Server.Bridge = "/ws"
	}
	if c.Server.MetricsNamespace == "" {
		c.Server.MetricsNamespace = "fantoccini"
	}

	// Routes
	if c.Routes.Source == "" {
		c.Routes.Source = SourceScan
	}
	if c.Routes.Debounce == "" {
		c.Routes.Debounce = "200ms"
	}

	// Manifest
	if c.Manifest.Store == "" {
		c.Manifest.Store = StoreFile
	}
	if c.Manifest.Key == "" {
		c.Manifest.Key = "routes.json"
	}

	// Nav
	if c.Nav.Brand == "" {
		c.Nav.Brand = "🚀 Fantoccini"
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("E140").WithDetail("origin %q must be an http(s) URL", c.Origin)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E140").WithDetail("Port must be between 0 and 65535")
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E140").WithDetail("server.shutdownTimeout %q", c.Server.ShutdownTimeout).Wrap(err)
	}
	if _, err := time.ParseDuration(c.Routes.Debounce); err != nil {
		return errors.New("E140").WithDetail("routes.debounce %q", c.Routes.Debounce).Wrap(err)
	}
	if c.Server.Bridge != "-" && !strings.HasPrefix(c.Server.Bridge, "/") {
		return errors.New("E140").WithDetail("server.bridge %q must start with /", c.Server.Bridge)
	}

	switch c.Routes.Source {
	case SourceScan, SourceManifest, SourceStatic:
	default:
		return errors.New("E140").WithDetail("unknown routes.source %q", c.Routes.Source)
	}
	switch c.Manifest.Store {
	case StoreFile:
	case StoreS3:
		if c.Manifest.Bucket == "" {
			return errors.New("E140").WithDetail("manifest.bucket is required for the s3 store")
		}
	default:
		return errors.New("E140").WithDetail("unknown manifest.store %q", c.Manifest.Store)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E140").WithDetail("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// Debounce returns the routes watcher quiet period.
func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Routes.Debounce)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, errors.New("E140").WithDetail("log.level %q", c.Log.Level).Wrap(err)
	}
	return level, nil
}

// RoutesPath returns the absolute path to the routes directory.
func (c *Config) RoutesPath() string {
	return c.resolve(c.Paths.Routes)
}

// ManifestPath returns the absolute path to the manifest file.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Paths.Manifest)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

func find(dir string) (string, bool) {
	for _, ext := range Extensions {
		path := filepath.Join(dir, ConfigFileName+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, ok := find(dir)
	return ok
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing the config file, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No %s config found in %s or any parent directory", ConfigFileName, startDir)
		}
		dir = parent
	}
}
