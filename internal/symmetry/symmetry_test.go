package symmetry

import (
	"math"
	"testing"

	"github.com/continuum-robotics/ccbs/internal/conflict"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// corridorRoadmap builds a 5-vertex chain 0-1-2-3-4, all degree <=2.
func corridorRoadmap() *roadmap.Roadmap {
	r := roadmap.New()
	for i := roadmap.VertexID(0); i <= 4; i++ {
		r.AddVertex(&roadmap.Vertex{ID: i, Pos: roadmap.Point{X: float64(i), Y: 0}})
	}
	for i := roadmap.VertexID(0); i < 4; i++ {
		r.AddEdge(i, i+1)
	}
	return r
}

func TestDetectCorridorOpposingTraversal(t *testing.T) {
	r := corridorRoadmap()
	c := conflict.Conflict{
		AgentA: 1, AgentB: 2,
		MoveA: roadmap.Move{From: 1, To: 2, Start: 0, End: 1},
		MoveB: roadmap.Move{From: 2, To: 1, Start: 0, End: 1},
	}
	corridor, ok := DetectCorridor(r, c)
	if !ok {
		t.Fatal("expected a corridor conflict")
	}
	if corridor.Length <= 0 {
		t.Errorf("expected positive corridor length, got %v", corridor.Length)
	}
}

func TestDetectCorridorFalseWhenNotDegreeTwo(t *testing.T) {
	r := roadmap.New()
	r.AddVertex(&roadmap.Vertex{ID: 0, Pos: roadmap.Point{X: 0, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 1, Pos: roadmap.Point{X: 1, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 2, Pos: roadmap.Point{X: 1, Y: 1}})
	r.AddVertex(&roadmap.Vertex{ID: 3, Pos: roadmap.Point{X: -1, Y: 0}})
	r.AddEdge(0, 1)
	r.AddEdge(0, 2)
	r.AddEdge(0, 3)

	c := conflict.Conflict{
		MoveA: roadmap.Move{From: 1, To: 0, Start: 0, End: 1},
		MoveB: roadmap.Move{From: 0, To: 1, Start: 0, End: 1},
	}
	// Vertex 0 has degree 3 and vertex 1 has degree 1: neither is a
	// through-corridor vertex.
	if _, ok := DetectCorridor(r, c); ok {
		t.Error("expected no corridor when neither shared vertex has degree 2")
	}
}

func TestRangeConstraintWidensWindow(t *testing.T) {
	r := corridorRoadmap()
	c := conflict.Conflict{
		MoveA: roadmap.Move{From: 1, To: 2, Start: 0, End: 1},
		MoveB: roadmap.Move{From: 2, To: 1, Start: 0, End: 1},
	}
	corridor, _ := DetectCorridor(r, c)
	n := RangeConstraintA(1, corridor, 0)
	if n.Hi-n.Lo != corridor.Length {
		t.Errorf("range constraint window %v should span the full corridor length %v", n.Hi-n.Lo, corridor.Length)
	}
}

func TestDetectTargetFindsPassThrough(t *testing.T) {
	pathB := roadmap.Path{
		{From: 0, To: 1, Start: 0, End: 1},
		{From: 1, To: 3, Start: 1, End: 2},
		{From: 3, To: 5, Start: 2, End: 3},
	}
	m, ok := DetectTarget(3, 0.5, pathB)
	if !ok {
		t.Fatal("expected b's path to pass through a's goal")
	}
	if m.To != 3 {
		t.Errorf("expected the move arriving at goal 3, got %v", m)
	}
}

func TestDetectTargetNoneWhenPathAvoidsGoal(t *testing.T) {
	pathB := roadmap.Path{
		{From: 0, To: 7, Start: 0, End: 1},
	}
	if _, ok := DetectTarget(3, 0.5, pathB); ok {
		t.Error("expected no target symmetry when b never visits a's goal")
	}
}

func TestTargetConstraintOpenEnded(t *testing.T) {
	through := roadmap.Move{From: 1, To: 3, Start: 1, End: 2}
	n := Constraint(2, through, 1.5)
	if !math.IsInf(n.Hi, 1) {
		t.Errorf("target constraint should be open-ended, got Hi=%v", n.Hi)
	}
}
