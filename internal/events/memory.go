package events

import "sync"

// DefaultMemoryCapacity bounds the in-memory ring.
const DefaultMemoryCapacity = 1000

// MemorySink keeps the most recent events in a bounded ring. It is the
// default sink and the one used in tests.
type MemorySink struct {
	mu       sync.Mutex
	events   []Event
	capacity int
}

// NewMemorySink creates a memory sink holding at most capacity events.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemorySink{capacity: capacity}
}

// Append records the event, evicting the oldest once at capacity.
func (s *MemorySink) Append(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	if len(s.events) > s.capacity {
		s.events = s.events[len(s.events)-s.capacity:]
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (s *MemorySink) Recent(limit int) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.events)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Event, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}

// Close is a no-op for the memory sink.
func (s *MemorySink) Close() error { return nil }
