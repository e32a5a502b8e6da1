package routesapi

import (
	"sync"
	"time"
)

// Stats tracks request counts, open connections and the running average
// response time reported by /api/stats.
type Stats struct {
	mu          sync.Mutex
	start       time.Time
	requests    int64
	connections int64
	avg         float64 // milliseconds
	now         func() time.Time
}

// NewStats creates stats whose uptime starts now.
func NewStats() *Stats {
	return &Stats{start: time.Now(), now: time.Now}
}

// Observe records one completed request.
func (s *Stats) Observe(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	ms := float64(d) / float64(time.Millisecond)
	s.avg = (s.avg*float64(s.requests-1) + ms) / float64(s.requests)
}

// ConnOpened records a new long-lived connection.
func (s *Stats) ConnOpened() {
	s.mu.Lock()
	s.connections++
	s.mu.Unlock()
}

// ConnClosed records a closed long-lived connection.
func (s *Stats) ConnClosed() {
	s.mu.Lock()
	if s.connections > 0 {
		s.connections--
	}
	s.mu.Unlock()
}

// Snapshot returns the current values.
func (s *Stats) Snapshot() StatsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsResponse{
		Uptime:       int64(s.now().Sub(s.start) / time.Second),
		Requests:     s.requests,
		Connections:  s.connections,
		ResponseTime: int64(s.avg + 0.5),
	}
}
