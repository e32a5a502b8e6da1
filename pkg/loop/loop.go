// Package loop provides the single-threaded cooperative task loop that owns
// all document and component state.
//
// Work that must touch the document is posted to the loop and runs to
// completion before the next task starts. Blocking work (network fetches)
// runs on its own goroutine through Go and hands its result back to the
// loop as a continuation, which is how "next tick" deferral is expressed.
package loop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Loop is a FIFO task queue drained by exactly one goroutine at a time.
type Loop struct {
	mu       sync.Mutex
	queue    []func()
	wake     chan struct{}
	inflight sync.WaitGroup
	closed   atomic.Bool
	logger   *slog.Logger
}

// New creates a loop. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		wake:   make(chan struct{}, 1),
		logger: logger,
	}
}

// Post queues fn to run on the loop after every task queued before it.
// It is safe to call from any goroutine. Post reports false once the loop
// is closed, in which case fn is discarded.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	if l.closed.Load() {
		return false
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Go runs work on a new goroutine. If work returns a non-nil continuation,
// the continuation is posted to the loop.
//
// Go must be called from the loop goroutine (or before the loop starts) so
// that Settle observes the in-flight work.
func (l *Loop) Go(work func() func()) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		var cont func()
		func() {
			defer func() {
				if r := recover(); r != nil {
					l.logger.Error("async work panic", "panic", r, "stack", string(debug.Stack()))
				}
			}()
			cont = work()
		}()
		if cont != nil {
			l.Post(cont)
		}
	}()
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Drain runs queued tasks on the calling goroutine until the queue is empty,
// including tasks posted while draining. It returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return n
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		l.safeExecute(fn)
		n++
	}
}

// Settle drains the queue, waits for in-flight Go work, and repeats until
// nothing is queued or running. It returns the number of tasks run.
func (l *Loop) Settle() int {
	n := 0
	for {
		n += l.Drain()
		l.inflight.Wait()
		if l.Pending() == 0 {
			return n
		}
	}
}

// Run serves tasks until ctx is cancelled or the loop is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		if l.closed.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops accepting new tasks and wakes a running Run.
func (l *Loop) Close() {
	if l.closed.Swap(true) {
		return
	}
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	return l.closed.Load()
}

// safeExecute runs a task with panic recovery so one bad task cannot stop the loop.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
