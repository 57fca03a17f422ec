package train

import "github.com/jabolina/go-trains/internal/mapgraph"

// move advances the train one tick along its committed path, acquiring and
// releasing edges from the shared semaphore as it goes (§4.6). Constant
// speed per segment; no acceleration model.
func (t *Train) move() {
	if len(t.path) == 0 {
		return
	}

	next := t.path[0]
	t.pos.X += t.v.X * t.vStep
	t.pos.Y += t.v.Y * t.vStep

	toNextX := next.X - t.pos.X
	toNextY := next.Y - t.pos.Y
	if toNextX*t.v.X < 0 || toNextY*t.v.Y < 0 {
		// Overshot the next vertex: clamp.
		t.pos = next
	}

	if t.pos.Equal(next) {
		if t.haveEdge {
			t.sem.Release(t.currentEdge)
			t.haveEdge = false
		}
		t.path = t.path[1:]
		t.v = mapgraph.Point{}

		if t.haveGoal && t.pos.Equal(t.currentGoal) {
			// Arrival handled by handleArrival; stop here.
			return
		}
	}

	if len(t.path) == 0 {
		return
	}

	if t.v == (mapgraph.Point{}) {
		key, ok := t.edgeKeyFor(t.pos, t.path[0])
		if !ok {
			t.log.Errorf("train %s: no edge between %v and %v", t.id, t.pos, t.path[0])
			return
		}
		if !t.sem.TryAcquire(key) {
			// Road occupied. Try again next tick.
			t.metrics.SemaphoreWait()
			return
		}
		t.currentEdge = key
		t.haveEdge = true

		dir := t.path[0]
		magnitude := t.pos.Distance(dir)
		if magnitude == 0 {
			return
		}
		ux := (dir.X - t.pos.X) / magnitude
		uy := (dir.Y - t.pos.Y) / magnitude
		t.v = mapgraph.Point{X: t.vMax * ux, Y: t.vMax * uy}
	}
}

// handleArrival implements §4.5's arrival transitions once pos == currentGoal.
func (t *Train) handleArrival() {
	if !t.haveGoal || !t.pos.Equal(t.currentGoal) {
		return
	}

	switch t.mode {
	case ModeAccept:
		t.mode = ModeBusy
		t.currentGoal = t.queue[0].dropoff
	case ModeBusy:
		t.queue = t.queue[1:]
		if len(t.queue) > 0 {
			t.mode = ModeAccept
			t.currentGoal = t.queue[0].pickup
		} else {
			t.haveGoal = false
			t.mode = ModeWait
		}
	case ModeOutOfOrder:
		t.haveGoal = false
		t.registry.Remove(t.id)
	}
}
