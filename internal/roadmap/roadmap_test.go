package roadmap

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func line3() *Roadmap {
	r := New()
	r.AddVertex(&Vertex{ID: 0, Pos: Point{X: 0, Y: 0}})
	r.AddVertex(&Vertex{ID: 1, Pos: Point{X: 1, Y: 0}})
	r.AddVertex(&Vertex{ID: 2, Pos: Point{X: 2, Y: 0}})
	r.AddEdge(0, 1)
	r.AddEdge(1, 2)
	return r
}

func TestEdgeDurationIsEuclidean(t *testing.T) {
	r := line3()
	e, ok := r.EdgeBetween(0, 1)
	require.True(t, ok, "expected edge 0->1")
	require.Equal(t, 1.0, e.Duration)
}

func TestNeighborOrderStableAscending(t *testing.T) {
	r := New()
	r.AddVertex(&Vertex{ID: 5, Pos: Point{0, 0}})
	r.AddVertex(&Vertex{ID: 1, Pos: Point{1, 0}})
	r.AddVertex(&Vertex{ID: 3, Pos: Point{2, 0}})
	r.AddEdge(5, 1)
	r.AddEdge(5, 3)

	order := r.NeighborOrder(5)
	require.Equal(t, []VertexID{1, 3}, order)
}

func TestGoalHeuristicIsShortestPath(t *testing.T) {
	r := line3()
	gh := NewGoalHeuristics(r)

	require.Equal(t, 2.0, gh.Value(0, 2), "h*(0,2)")
	require.Equal(t, 0.0, gh.Value(2, 2), "h*(2,2)")
}
