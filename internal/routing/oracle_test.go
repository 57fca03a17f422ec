package routing

import (
	"testing"

	"github.com/jabolina/go-trains/internal/mapgraph"
)

func buildLine(t *testing.T) *mapgraph.Map {
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
	return m
}

func TestDijkstra_RouteAcrossTwoHops(t *testing.T) {
	m := buildLine(t)
	oracle := NewDijkstra(m)

	path, length, err := oracle.Route(mapgraph.Point{X: 0, Y: 0}, mapgraph.Point{X: 20, Y: 0})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if length != 20 {
		t.Fatalf("expected length 20, got %v", length)
	}
	if len(path) != 3 {
		t.Fatalf("expected 3-vertex path, got %v", path)
	}
}

func TestDijkstra_NoRoute(t *testing.T) {
	vertices := []mapgraph.Vertex{
		{ID: "A", Pos: mapgraph.Point{X: 0, Y: 0}},
		{ID: "B", Pos: mapgraph.Point{X: 10, Y: 0}},
	}
	m, err := mapgraph.NewMap(vertices, map[mapgraph.EdgeKey]float64{})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	oracle := NewDijkstra(m)
	_, _, err = oracle.Route(vertices[0].Pos, vertices[1].Pos)
	if err != ErrNoRoute {
		t.Fatalf("expected ErrNoRoute, got %v", err)
	}
}

func TestStub_FixedDistance(t *testing.T) {
	path, length, err := Stub{}.Route(mapgraph.Point{}, mapgraph.Point{X: 1, Y: 1})
	if err != nil {
		t.Fatalf("Route: %v", err)
	}
	if length != 4 || path != nil {
		t.Fatalf("expected nil path and length 4, got %v %v", path, length)
	}
}
