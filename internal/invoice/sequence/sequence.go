// Package sequence hands out monotonic per-period invoice sequences.
package sequence

import (
	"fmt"
	"sync"
	"time"
)

// Sequencer issues increasing sequence numbers scoped to a billing
// period. It is an in-process collaborator; durable, collision-free
// allocation belongs to whatever system persists the drafts.
type Sequencer struct {
	mu   sync.Mutex
	next map[string]int64
}

func NewSequencer() *Sequencer {
	return &Sequencer{next: make(map[string]int64)}
}

// Next returns the next sequence for the given period, starting at 1.
func (s *Sequencer) Next(year int, month time.Month) int64 {
	key := fmt.Sprintf("%04d-%02d", year, int(month))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next[key]++
	return s.next[key]
}

// Peek reports the sequence the next call to Next would return, without
// advancing it.
func (s *Sequencer) Peek(year int, month time.Month) int64 {
	key := fmt.Sprintf("%04d-%02d", year, int(month))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next[key] + 1
}
