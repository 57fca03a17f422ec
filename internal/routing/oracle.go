// Package routing provides the shortest-path capability the train agent
// uses to plan a route to a client's pickup. It is a pluggable capability:
// Oracle is the contract, Dijkstra the real implementation, Stub the
// original source's placeholder behavior kept around for tests that only
// care about a fixed distance.
package routing

import (
	"container/heap"
	"errors"

	"github.com/jabolina/go-trains/internal/mapgraph"
)

// ErrNoRoute is returned when no path connects the two vertices. The train
// MUST treat this as a declined request, per the request/election contract.
var ErrNoRoute = errors.New("routing: no path between vertices")

// Oracle computes a route between two vertices of the map, returning the
// ordered path of positions to traverse and its total length.
type Oracle interface {
	Route(from, to mapgraph.Point) ([]mapgraph.Point, float64, error)
}

// Dijkstra is a real shortest-path oracle over a mapgraph.Map's weighted
// adjacency.
type Dijkstra struct {
	m *mapgraph.Map
}

// NewDijkstra builds an Oracle backed by Dijkstra's algorithm over m.
func NewDijkstra(m *mapgraph.Map) *Dijkstra {
	return &Dijkstra{m: m}
}

// Route implements Oracle.
func (d *Dijkstra) Route(from, to mapgraph.Point) ([]mapgraph.Point, float64, error) {
	fromIdx, ok := d.vertexAt(from)
	if !ok {
		return nil, 0, ErrNoRoute
	}
	toIdx, ok := d.vertexAt(to)
	if !ok {
		return nil, 0, ErrNoRoute
	}
	if fromIdx == toIdx {
		return nil, 0, nil
	}

	dist := make(map[int]float64, d.m.Len())
	prev := make(map[int]int, d.m.Len())
	visited := make(map[int]bool, d.m.Len())
	dist[fromIdx] = 0

	pq := &priorityQueue{{vertex: fromIdx, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		curr := heap.Pop(pq).(item)
		if visited[curr.vertex] {
			continue
		}
		visited[curr.vertex] = true
		if curr.vertex == toIdx {
			break
		}

		for _, next := range d.m.Neighbors(curr.vertex) {
			w, ok := d.m.Weight(curr.vertex, next)
			if !ok {
				continue
			}
			alt := dist[curr.vertex] + w
			if existing, seen := dist[next]; !seen || alt < existing {
				dist[next] = alt
				prev[next] = curr.vertex
				heap.Push(pq, item{vertex: next, dist: alt})
			}
		}
	}

	finalDist, reached := dist[toIdx]
	if !reached {
		return nil, 0, ErrNoRoute
	}

	path := []int{toIdx}
	for path[len(path)-1] != fromIdx {
		p, ok := prev[path[len(path)-1]]
		if !ok {
			return nil, 0, ErrNoRoute
		}
		path = append(path, p)
	}
	reverse(path)

	points := make([]mapgraph.Point, len(path))
	for i, idx := range path {
		points[i] = d.m.Vertex(idx).Pos
	}
	return points, finalDist, nil
}

func (d *Dijkstra) vertexAt(p mapgraph.Point) (int, bool) {
	for i := 0; i < d.m.Len(); i++ {
		if d.m.Vertex(i).Pos.Equal(p) {
			return i, true
		}
	}
	return 0, false
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

type item struct {
	vertex int
	dist   float64
}

type priorityQueue []item

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(item)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	x := old[n-1]
	*pq = old[:n-1]
	return x
}

// Stub reproduces the original source's calculate_route placeholder: an
// empty path and a fixed distance of 4, regardless of the endpoints asked
// for. Useful only in tests that don't exercise path shape.
type Stub struct{}

// Route implements Oracle.
func (Stub) Route(mapgraph.Point, mapgraph.Point) ([]mapgraph.Point, float64, error) {
	return nil, 4, nil
}
