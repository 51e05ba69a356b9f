package roadmap

import (
	"container/heap"
	"math"
	"sync"
)

// GoalHeuristics caches, per goal vertex, an admissible lower bound h*(v,
// goal) computed by a single reverse Dijkstra run (spec.md §4.A). Safe for
// concurrent reads/writes across solver runs sharing one Roadmap; the
// Roadmap itself is immutable once built (spec.md §5).
type GoalHeuristics struct {
	r      *Roadmap
	mu     sync.Mutex
	tables map[VertexID]map[VertexID]float64
}

// NewGoalHeuristics creates an (initially empty) heuristic cache over r.
func NewGoalHeuristics(r *Roadmap) *GoalHeuristics {
	return &GoalHeuristics{r: r, tables: make(map[VertexID]map[VertexID]float64)}
}

// Value returns h*(v, goal), computing and caching the full reverse-Dijkstra
// table from goal on first use.
func (g *GoalHeuristics) Value(v, goal VertexID) float64 {
	g.mu.Lock()
	table, ok := g.tables[goal]
	if !ok {
		table = dijkstraFrom(g.r, goal)
		g.tables[goal] = table
	}
	g.mu.Unlock()

	if d, ok := table[v]; ok {
		return d
	}
	return math.Inf(1)
}

type dijkstraItem struct {
	v     VertexID
	dist  float64
	index int
}

type dijkstraHeap []*dijkstraItem

func (h dijkstraHeap) Len() int           { return len(h) }
func (h dijkstraHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h dijkstraHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *dijkstraHeap) Push(x interface{}) {
	it := x.(*dijkstraItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *dijkstraHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// dijkstraFrom computes shortest-path distance from `source` to every
// vertex, treating edges as undirected (since traversal durations are
// symmetric, running Dijkstra from the goal gives h* for every start).
func dijkstraFrom(r *Roadmap, source VertexID) map[VertexID]float64 {
	dist := make(map[VertexID]float64, len(r.Vertices))
	for v := range r.Vertices {
		dist[v] = math.Inf(1)
	}
	dist[source] = 0

	h := &dijkstraHeap{{v: source, dist: 0}}
	heap.Init(h)

	for h.Len() > 0 {
		cur := heap.Pop(h).(*dijkstraItem)
		if cur.dist > dist[cur.v] {
			continue
		}
		for _, e := range r.edges[cur.v] {
			nd := cur.dist + e.Duration
			if nd < dist[e.To] {
				dist[e.To] = nd
				heap.Push(h, &dijkstraItem{v: e.To, dist: nd})
			}
		}
	}
	return dist
}
