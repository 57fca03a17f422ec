// Package semaphore implements the per-edge mutual-exclusion registry
// shared by every train, guaranteeing at most one train occupies a given
// edge at a time.
package semaphore

import (
	"sync"

	"github.com/jabolina/go-trains/internal/mapgraph"
)

// Semaphore maps a canonical edge key to its availability. A plain mapping
// would suffice under the sequential, single-threaded driver this runs
// under today, but TryAcquire performs check-and-set atomically under a
// mutex so a parallelised driver can reuse this type unchanged.
type Semaphore struct {
	mu        sync.Mutex
	available map[mapgraph.EdgeKey]bool
}

// New creates a Semaphore with every given key initialized to available.
func New(keys []mapgraph.EdgeKey) *Semaphore {
	s := &Semaphore{available: make(map[mapgraph.EdgeKey]bool, len(keys))}
	for _, k := range keys {
		s.available[k] = true
	}
	return s
}

// TryAcquire atomically checks whether key is available and, if so, marks
// it occupied and returns true. Returns false without side effects if the
// edge is already held or unknown.
func (s *Semaphore) TryAcquire(key mapgraph.EdgeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	avail, known := s.available[key]
	if !known || !avail {
		return false
	}
	s.available[key] = false
	return true
}

// Release marks key as available again.
func (s *Semaphore) Release(key mapgraph.EdgeKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available[key] = true
}

// Available reports the current availability of key.
func (s *Semaphore) Available(key mapgraph.EdgeKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available[key]
}
