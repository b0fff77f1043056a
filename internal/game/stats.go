package game

import (
	"sync"
	"time"
)

// frameStats records the last N tick durations in a ring buffer so the
// status line can show a smoothed frame time.
type frameStats struct {
	buffer    []time.Duration
	nextIndex int
	filled    int
	mu        sync.RWMutex
}

func newFrameStats(ringSize int) *frameStats {
	if ringSize < 1 {
		ringSize = 1
	}
	return &frameStats{
		buffer: make([]time.Duration, ringSize),
	}
}

func (s *frameStats) record(d time.Duration) {
	s.mu.Lock()
	s.buffer[s.nextIndex] = d
	s.nextIndex++
	if s.nextIndex >= len(s.buffer) {
		s.nextIndex = 0
	}
	if s.filled < len(s.buffer) {
		s.filled++
	}
	s.mu.Unlock()
}

// snapshot returns up to the last n durations, oldest first.
func (s *frameStats) snapshot(n int) []time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n > s.filled {
		n = s.filled
	}
	out := make([]time.Duration, n)
	// Walk backwards from nextIndex - 1
	idx := s.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(s.buffer) - 1
		}
		out[i] = s.buffer[idx]
		idx--
	}
	return out
}

// mean returns the average over the recorded window.
func (s *frameStats) mean() time.Duration {
	samples := s.snapshot(len(s.buffer))
	if len(samples) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range samples {
		sum += d
	}
	return sum / time.Duration(len(samples))
}

func (s *frameStats) reset() {
	s.mu.Lock()
	s.nextIndex = 0
	s.filled = 0
	s.mu.Unlock()
}
