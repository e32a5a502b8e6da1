package bridge

import (
	"fmt"

	"github.com/vango-dev/fantoccini/pkg/router"
	"github.com/vango-dev/fantoccini/pkg/routepath"
)

// Op is the operation of an inbound command.
type Op string

const (
	// OpNavigate performs a client-side navigation to Path.
	OpNavigate Op = "navigate"

	// OpClick clicks the element matching Selector, or when Selector is
	// empty the first link whose href is Path.
	OpClick Op = "click"

	// OpBack and OpForward traverse the session history.
	OpBack    Op = "back"
	OpForward Op = "forward"

	// OpRender sends the current markup without changing anything.
	OpRender Op = "render"
)

// Command is an inbound frame.
type Command struct {
	Op       Op     `json:"op"`
	Path     string `json:"path,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// Validate checks that the command carries what its op needs.
func (c Command) Validate() error {
	switch c.Op {
	case OpNavigate:
		if c.Path == "" {
			return fmt.Errorf("navigate requires a path")
		}
	case OpClick:
		if c.Path == "" && c.Selector == "" {
			return fmt.Errorf("click requires a path or a selector")
		}
	case OpBack, OpForward, OpRender:
	default:
		return fmt.Errorf("unknown op %q", c.Op)
	}
	return nil
}

// Normalize validates the command and cleans a navigation path. Navigation
// is limited to paths on the document's origin.
func (c Command) Normalize() (Command, error) {
	if err := c.Validate(); err != nil {
		return c, err
	}
	if c.Op == OpNavigate {
		path, err := routepath.Clean(c.Path)
		if err != nil {
			return c, fmt.Errorf("navigate %q: %w", c.Path, err)
		}
		c.Path = path
	}
	return c, nil
}

// FrameType identifies an outbound frame.
type FrameType string

const (
	FrameHello  FrameType = "hello"
	FrameSignal FrameType = "signal"
	FrameHTML   FrameType = "html"
	FrameError  FrameType = "error"
)

// Frame is an outbound message.
type Frame struct {
	Type FrameType `json:"type"`

	// Session is set on hello frames.
	Session string `json:"session,omitempty"`

	// Pathname, Params and Pattern are set on signal frames.
	Pathname string            `json:"pathname,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
	Pattern  string            `json:"pattern,omitempty"`

	// HTML is set on html frames.
	HTML string `json:"html,omitempty"`

	// Error is set on error frames.
	Error string `json:"error,omitempty"`
}

// SignalFrame converts a navigation signal to a frame.
func SignalFrame(sig router.Signal) Frame {
	return Frame{
		Type:     FrameSignal,
		Pathname: sig.Pathname,
		Params:   sig.Params.Map(),
		Pattern:  sig.Pattern,
	}
}
