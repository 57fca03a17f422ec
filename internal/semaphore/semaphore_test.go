package semaphore

import (
	"testing"

	"github.com/jabolina/go-trains/internal/mapgraph"
)

func TestTryAcquire_MutualExclusion(t *testing.T) {
	key := mapgraph.MakeEdgeKey(0, 1)
	s := New([]mapgraph.EdgeKey{key})

	if !s.TryAcquire(key) {
		t.Fatal("expected first acquire to succeed")
	}
	if s.TryAcquire(key) {
		t.Fatal("expected second acquire to fail while held")
	}
	if s.Available(key) {
		t.Fatal("expected key to be unavailable while held")
	}

	s.Release(key)
	if !s.Available(key) {
		t.Fatal("expected key to be available after release")
	}
	if !s.TryAcquire(key) {
		t.Fatal("expected acquire to succeed after release")
	}
}

func TestTryAcquire_UnknownKey(t *testing.T) {
	s := New(nil)
	if s.TryAcquire(mapgraph.MakeEdgeKey(0, 1)) {
		t.Fatal("expected acquire of an unregistered edge to fail")
	}
}
