// Package mapgraph holds the immutable road graph: vertices, their planar
// positions, which ones are passenger stops, and the weighted edges between
// them.
package mapgraph

import (
	"fmt"
	"math"
)

// Point is a planar position.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Equal compares two points for exact equality, the way the train's motion
// model tests arrival by position equality rather than by a tolerance.
func (p Point) Equal(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Vertex is a single node of the road graph.
type Vertex struct {
	ID     string
	Pos    Point
	IsStop bool
}

// EdgeKey is the canonical, unordered identifier of an edge between two
// vertex indices: (max(u,v), min(u,v)).
type EdgeKey struct {
	Hi int
	Lo int
}

// MakeEdgeKey canonicalizes a pair of vertex indices into an EdgeKey.
func MakeEdgeKey(u, v int) EdgeKey {
	if u < v {
		u, v = v, u
	}
	return EdgeKey{Hi: u, Lo: v}
}

// Map is the immutable weighted undirected graph the fleet operates on.
type Map struct {
	vertices []Vertex
	index    map[string]int
	weights  map[EdgeKey]float64
	adj      map[int][]int
}

// NewMap builds a Map from a vertex list and a canonical edge-weight map.
// It validates that identifiers are unique and weights are non-negative.
func NewMap(vertices []Vertex, edges map[EdgeKey]float64) (*Map, error) {
	index := make(map[string]int, len(vertices))
	for i, v := range vertices {
		if _, exists := index[v.ID]; exists {
			return nil, fmt.Errorf("mapgraph: duplicate vertex id %q", v.ID)
		}
		index[v.ID] = i
	}

	adj := make(map[int][]int, len(vertices))
	for key, w := range edges {
		if w < 0 {
			return nil, fmt.Errorf("mapgraph: negative edge weight for %v", key)
		}
		if key.Hi < 0 || key.Hi >= len(vertices) || key.Lo < 0 || key.Lo >= len(vertices) {
			return nil, fmt.Errorf("mapgraph: edge %v references a vertex out of range", key)
		}
		adj[key.Hi] = append(adj[key.Hi], key.Lo)
		adj[key.Lo] = append(adj[key.Lo], key.Hi)
	}

	return &Map{
		vertices: vertices,
		index:    index,
		weights:  edges,
		adj:      adj,
	}, nil
}

// Len returns the number of vertices.
func (m *Map) Len() int {
	return len(m.vertices)
}

// Vertex returns the vertex at the given index.
func (m *Map) Vertex(i int) Vertex {
	return m.vertices[i]
}

// IndexOf returns the vertex index for a given identifier.
func (m *Map) IndexOf(id string) (int, bool) {
	i, ok := m.index[id]
	return i, ok
}

// Neighbors returns the indices of vertices directly connected to v.
func (m *Map) Neighbors(v int) []int {
	return m.adj[v]
}

// Weight returns the edge weight between u and v, and whether it exists.
func (m *Map) Weight(u, v int) (float64, bool) {
	w, ok := m.weights[MakeEdgeKey(u, v)]
	return w, ok
}

// Stops returns the indices of every vertex flagged as a passenger stop.
func (m *Map) Stops() []int {
	var stops []int
	for i, v := range m.vertices {
		if v.IsStop {
			stops = append(stops, i)
		}
	}
	return stops
}

// EdgeKeys returns every canonical edge key in the map, used to seed the
// EdgeSemaphore with one entry per edge.
func (m *Map) EdgeKeys() []EdgeKey {
	keys := make([]EdgeKey, 0, len(m.weights))
	for k := range m.weights {
		keys = append(keys, k)
	}
	return keys
}

// IsStopName reports whether an identifier denotes a stopping point: any
// name that does not begin with an underscore.
func IsStopName(id string) bool {
	return id != "" && id[0] != '_'
}
