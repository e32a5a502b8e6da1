// Package bridge exposes headless pages over websockets.
//
// Every connection gets its own Page, created by a PageFactory, and a
// session id. Clients send Commands (navigate, click, back, forward) and
// receive a signal frame for every client-side route change followed by an
// html frame with the page markup once the command has settled.
package bridge

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/fantoccini/pkg/router"
)

// Page is the document a session drives. Its methods are safe to call from
// any goroutine.
type Page interface {
	// Apply runs cmd and returns the page markup once it has settled.
	Apply(ctx context.Context, cmd Command) (string, error)

	// Subscribe registers fn for navigation signals.
	Subscribe(fn func(router.Signal)) (unsubscribe func())

	// Close releases the page.
	Close() error
}

// PageFactory creates the page for a new session.
type PageFactory func(ctx context.Context, sessionID string) (Page, error)

// ConnTracker is told about connections opening and closing.
// *routesapi.Server satisfies it.
type ConnTracker interface {
	ConnOpened()
	ConnClosed()
}

// Config holds connection settings.
type Config struct {
	// ReadTimeout is the maximum time to wait for a message or pong.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a frame.
	WriteTimeout time.Duration

	// PingInterval is the time between heartbeat pings. It must be shorter
	// than ReadTimeout.
	PingInterval time.Duration

	// MaxMessageSize limits inbound frames, in bytes.
	MaxMessageSize int64

	// SendBuffer is the number of outbound frames queued per session.
	// Frames beyond it are dropped.
	SendBuffer int

	// CheckOrigin validates the handshake origin. Nil allows same-origin
	// requests only.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns the default connection settings.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:    60 * time.Second,
		WriteTimeout:   10 * time.Second,
		PingInterval:   30 * time.Second,
		MaxMessageSize: 64 * 1024,
		SendBuffer:     64,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = def.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.PingInterval <= 0 || c.PingInterval >= c.ReadTimeout {
		c.PingInterval = c.ReadTimeout * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = def.MaxMessageSize
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = def.SendBuffer
	}
	return c
}

// Option configures a Server.
type Option func(*Server)

// WithConfig replaces the connection settings.
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// WithTracker reports connections to t.
func WithTracker(t ConnTracker) Option {
	return func(s *Server) {
		s.tracker = t
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// Server upgrades HTTP requests to bridge sessions.
type Server struct {
	newPage  PageFactory
	cfg      Config
	tracker  ConnTracker
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
	wg       sync.WaitGroup
}

// NewServer creates a bridge server.
func NewServer(newPage PageFactory, opts ...Option) *Server {
	s := &Server{
		newPage:  newPage,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.withDefaults()
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.cfg.CheckOrigin,
	}
	return s
}

// ServeHTTP upgrades the request and runs the session until the client
// disconnects or the server shuts down.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()
	defer s.wg.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.cfg, s.logger)
	page, err := s.newPage(r.Context(), sess.id)
	if err != nil {
		s.logger.Error("creating page failed", "session", sess.id, "error", err)
		sess.fail(err)
		return
	}
	sess.page = page

	s.mu.Lock()
	s.sessions[sess.id] = sess
	if s.closed {
		sess.Close()
	}
	s.mu.Unlock()
	if s.tracker != nil {
		s.tracker.ConnOpened()
	}
	s.logger.Info("bridge session opened", "session", sess.id, "remote", r.RemoteAddr)

	sess.run()

	s.mu.Lock()
	delete(s.sessions, sess.id)
	s.mu.Unlock()
	if s.tracker != nil {
		s.tracker.ConnClosed()
	}
	s.logger.Info("bridge session closed", "session", sess.id)
}

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown refuses new connections, closes every session and waits for
// their handlers to return or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()

	for _, sess := range open {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
