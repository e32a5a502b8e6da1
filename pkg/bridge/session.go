package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/fantoccini/pkg/router"
)

// Session is one websocket connection and the page it drives.
//
// The read loop runs on the handler goroutine and applies commands one at
// a time. A separate write loop owns all outbound data frames and closes
// the connection when the session ends.
type Session struct {
	id     string
	conn   *websocket.Conn
	cfg    Config
	logger *slog.Logger
	page   Page

	send      chan Frame
	done      chan struct{}
	closeOnce sync.Once

	ctx    context.Context
	cancel context.CancelFunc
}

func newSession(conn *websocket.Conn, cfg Config, logger *slog.Logger) *Session {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:     id,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With("session", id),
		send:   make(chan Frame, cfg.SendBuffer),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
}

// ID returns the session id sent in the hello frame.
func (s *Session) ID() string { return s.id }

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close ends the session. Queued frames are flushed before the connection
// closes. Close is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
	})
}

func (s *Session) run() {
	unsubscribe := s.page.Subscribe(func(sig router.Signal) {
		s.enqueue(SignalFrame(sig))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop()
	}()

	s.enqueue(Frame{Type: FrameHello, Session: s.id})
	s.apply(Command{Op: OpRender})
	s.readLoop()

	s.Close()
	unsubscribe()
	<-writerDone
	if err := s.page.Close(); err != nil {
		s.logger.Warn("closing page failed", "error", err)
	}
}

// fail reports err to the client and closes a session that never started.
func (s *Session) fail(err error) {
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	_ = s.conn.WriteJSON(Frame{Type: FrameError, Error: err.Error()})
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "page unavailable"),
		time.Now().Add(s.cfg.WriteTimeout))
	s.conn.Close()
	s.Close()
}

func (s *Session) readLoop() {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
	})

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.logger.Debug("command decode error", "error", err)
			s.enqueue(Frame{Type: FrameError, Error: "malformed command"})
			continue
		}
		s.apply(cmd)
	}
}

func (s *Session) apply(cmd Command) {
	cmd, err := cmd.Normalize()
	if err != nil {
		s.enqueue(Frame{Type: FrameError, Error: err.Error()})
		return
	}
	markup, err := s.page.Apply(s.ctx, cmd)
	if err != nil {
		s.logger.Warn("command failed", "op", cmd.Op, "path", cmd.Path, "error", err)
		s.enqueue(Frame{Type: FrameError, Error: err.Error()})
		return
	}
	s.enqueue(Frame{Type: FrameHTML, HTML: markup})
}

// enqueue queues f for the write loop, dropping it when the buffer is full.
func (s *Session) enqueue(f Frame) {
	select {
	case <-s.done:
		return
	default:
	}
	select {
	case s.send <- f:
	default:
		s.logger.Warn("send buffer full, dropping frame", "type", f.Type)
	}
}

func (s *Session) writeLoop() {
	defer s.conn.Close()

	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case f := <-s.send:
			if err := s.write(f); err != nil {
				s.logger.Debug("write error", "error", err)
				s.Close()
				return
			}

		case <-ticker.C:
			if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.cfg.WriteTimeout)); err != nil {
				s.logger.Debug("ping error", "error", err)
				s.Close()
				return
			}

		case <-s.done:
			s.flush()
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.cfg.WriteTimeout))
			return
		}
	}
}

func (s *Session) write(f Frame) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteJSON(f)
}

func (s *Session) flush() {
	for {
		select {
		case f := <-s.send:
			if s.write(f) != nil {
				return
			}
		default:
			return
		}
	}
}
