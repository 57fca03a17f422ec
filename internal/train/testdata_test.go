package train

import (
	"math/rand"
	"testing"

	"github.com/jabolina/go-trains/internal/devices"
	"github.com/jabolina/go-trains/internal/mapgraph"
	"github.com/jabolina/go-trains/internal/network"
	"github.com/jabolina/go-trains/internal/routing"
	"github.com/jabolina/go-trains/internal/semaphore"
)

// buildHarness creates a shared map/semaphore/bus/registry for a line of
// stops A(0,0)-B(10,0)-C(20,0) with unit weight-per-distance edges, used
// across the election and motion scenario tests.
type harness struct {
	m        *mapgraph.Map
	sem      *semaphore.Semaphore
	bus      *network.Bus
	registry *devices.Registry
	oracle   routing.Oracle
}

func buildHarness(t *testing.T) *harness {
	t.Helper()
	vertices := []mapgraph.Vertex{
		{ID: "A", Pos: mapgraph.Point{X: 0, Y: 0}, IsStop: true},
		{ID: "B", Pos: mapgraph.Point{X: 10, Y: 0}, IsStop: true},
		{ID: "C", Pos: mapgraph.Point{X: 20, Y: 0}, IsStop: true},
	}
	edges := map[mapgraph.EdgeKey]float64{
		mapgraph.MakeEdgeKey(0, 1): 10,
		mapgraph.MakeEdgeKey(1, 2): 10,
	}
	m, err := mapgraph.NewMap(vertices, edges)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}

	sem := semaphore.New(m.EdgeKeys())
	registry := devices.NewRegistry()
	bus := network.New(registry, network.Ranges{Train: 1000, Client: 1000}, nil, nil)

	return &harness{m: m, sem: sem, bus: bus, registry: registry, oracle: routing.NewDijkstra(m)}
}

func (h *harness) edgeKeyFor(from, to mapgraph.Point) (mapgraph.EdgeKey, bool) {
	fromIdx, ok := h.vertexAt(from)
	if !ok {
		return mapgraph.EdgeKey{}, false
	}
	toIdx, ok := h.vertexAt(to)
	if !ok {
		return mapgraph.EdgeKey{}, false
	}
	if _, exists := h.m.Weight(fromIdx, toIdx); !exists {
		return mapgraph.EdgeKey{}, false
	}
	return mapgraph.MakeEdgeKey(fromIdx, toIdx), true
}

func (h *harness) vertexAt(p mapgraph.Point) (int, bool) {
	for i := 0; i < h.m.Len(); i++ {
		if h.m.Vertex(i).Pos.Equal(p) {
			return i, true
		}
	}
	return 0, false
}

func (h *harness) newTrain(t *testing.T, id devices.ID, pos mapgraph.Point, delay int) *Train {
	t.Helper()
	tr := New(Config{
		ID:         id,
		Pos:        pos,
		Oracle:     h.oracle,
		Semaphore:  h.sem,
		Bus:        h.bus,
		Registry:   h.registry,
		Rand:       rand.New(rand.NewSource(42)),
		EdgeKeyFor: h.edgeKeyFor,
	})
	tr.delayWanted = delay
	if err := h.registry.Register(tr); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return tr
}
