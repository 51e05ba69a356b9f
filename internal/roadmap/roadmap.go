package roadmap

import "sort"

// Roadmap is an undirected weighted graph with 2-D vertex coordinates.
type Roadmap struct {
	Vertices map[VertexID]*Vertex
	edges    map[VertexID][]Edge

	// neighborOrder[v] lists v's neighbors in a stable, precomputed order
	// (ascending VertexID) used as the low-level tie-break key (spec.md §4.A).
	neighborOrder map[VertexID][]VertexID
}

// New creates an empty roadmap.
func New() *Roadmap {
	return &Roadmap{
		Vertices:      make(map[VertexID]*Vertex),
		edges:         make(map[VertexID][]Edge),
		neighborOrder: make(map[VertexID][]VertexID),
	}
}

// AddVertex registers a vertex. No two vertices may share coordinates
// (spec.md §3); callers are expected to enforce this at load time.
func (r *Roadmap) AddVertex(v *Vertex) {
	r.Vertices[v.ID] = v
	if _, ok := r.edges[v.ID]; !ok {
		r.edges[v.ID] = nil
	}
}

// AddEdge adds a bidirectional edge whose duration is the Euclidean
// distance between the endpoints at unit speed.
func (r *Roadmap) AddEdge(from, to VertexID) {
	dur := r.Vertices[from].Pos.Dist(r.Vertices[to].Pos)
	r.edges[from] = append(r.edges[from], Edge{From: from, To: to, Duration: dur})
	r.edges[to] = append(r.edges[to], Edge{From: to, To: from, Duration: dur})
	r.invalidateOrder(from)
	r.invalidateOrder(to)
}

func (r *Roadmap) invalidateOrder(v VertexID) {
	delete(r.neighborOrder, v)
}

// Edges returns the outgoing edges of v.
func (r *Roadmap) Edges(v VertexID) []Edge {
	return r.edges[v]
}

// EdgeBetween returns the edge v->w, if one exists.
func (r *Roadmap) EdgeBetween(v, w VertexID) (Edge, bool) {
	for _, e := range r.edges[v] {
		if e.To == w {
			return e, true
		}
	}
	return Edge{}, false
}

// NeighborOrder returns v's neighbors (not v itself) in the stable order
// SIPP uses to break successor-generation ties: ascending VertexID,
// computed once and cached.
func (r *Roadmap) NeighborOrder(v VertexID) []VertexID {
	if order, ok := r.neighborOrder[v]; ok {
		return order
	}
	order := make([]VertexID, 0, len(r.edges[v]))
	for _, e := range r.edges[v] {
		order = append(order, e.To)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	r.neighborOrder[v] = order
	return order
}

// Degree returns the number of distinct neighbors of v.
func (r *Roadmap) Degree(v VertexID) int {
	return len(r.edges[v])
}
