// Package poll coordinates the dashboard's timer-driven refreshes. Nothing
// orders independent fetches on the wire, so a slow in-flight response can
// arrive after a newer one; the Sequencer stamps every issued request with a
// monotonic sequence number per resource and rejects any response that is
// not the newest outstanding one, so stale data can never overwrite fresher
// state.
package poll

import "sync"

// Resource names one independently polled endpoint.
type Resource string

const (
	ResourceMetrics Resource = "metrics"
	ResourceLogs    Resource = "logs"
	ResourceResults Resource = "results"
	// The unread badge and the full inbox list are fetched on different
	// cadences; separate resources keep one from invalidating the other.
	ResourceNotifications Resource = "notifications"
	ResourceInbox         Resource = "inbox"
	ResourceHealth        Resource = "health"
)

// Sequencer issues and checks per-resource sequence numbers. Safe for
// concurrent use; fetch commands run on their own goroutines.
type Sequencer struct {
	mu     sync.Mutex
	issued map[Resource]uint64
}

// NewSequencer returns an empty sequencer.
func NewSequencer() *Sequencer {
	return &Sequencer{issued: make(map[Resource]uint64)}
}

// Next stamps a new request for the resource and returns its sequence.
func (s *Sequencer) Next(r Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[r]++
	return s.issued[r]
}

// Current reports whether seq is still the newest issued request for the
// resource. A response carrying an older stamp must be dropped.
func (s *Sequencer) Current(r Resource, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issued[r] == seq
}
