package testutil

import "sync"

// Sequence numbers the steps of a scenario trace. The first Next returns 1.
type Sequence struct {
	mu sync.Mutex
	n  int64
}

// Next advances and returns the sequence.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return s.n
}

// Current returns the last value handed out, 0 before the first Next.
func (s *Sequence) Current() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}
