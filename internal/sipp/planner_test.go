package sipp

import (
	"math"
	"testing"
	"time"

	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/continuum-robotics/ccbs/internal/safeinterval"
)

func line3() *roadmap.Roadmap {
	r := roadmap.New()
	r.AddVertex(&roadmap.Vertex{ID: 0, Pos: roadmap.Point{X: 0, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 1, Pos: roadmap.Point{X: 1, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 2, Pos: roadmap.Point{X: 2, Y: 0}})
	r.AddEdge(0, 1)
	r.AddEdge(1, 2)
	return r
}

func TestPlanUnconstrainedShortestPath(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	tbl := safeinterval.Build(r, 1, constraints.Empty)

	path, err := Plan(r, gh, tbl, 1, 0, 2, time.Time{}, Options{UsePrecalculatedHeuristic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 2 {
		t.Fatalf("expected 2 moves, got %d: %v", len(path), path)
	}
	if path.Duration() != 2.0 {
		t.Errorf("duration = %v, want 2.0", path.Duration())
	}
	if path[0].From != 0 || path[0].To != 1 || path[1].From != 1 || path[1].To != 2 {
		t.Errorf("unexpected path shape: %v", path)
	}
}

func TestPlanTrivialStartEqualsGoal(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	tbl := safeinterval.Build(r, 1, constraints.Empty)

	path, err := Plan(r, gh, tbl, 1, 0, 0, time.Time{}, Options{UsePrecalculatedHeuristic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 0 {
		t.Errorf("expected empty path when start==goal, got %v", path)
	}
}

func TestPlanInsertsWaitWhenEdgeBlocked(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	cs := constraints.Empty.WithNegative(constraints.Negative{Agent: 1, From: 0, To: 1, Lo: 0, Hi: 2})
	tbl := safeinterval.Build(r, 1, cs)

	path, err := Plan(r, gh, tbl, 1, 0, 2, time.Time{}, Options{UsePrecalculatedHeuristic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 3 {
		t.Fatalf("expected wait + 2 moves, got %d: %v", len(path), path)
	}
	wait := path[0]
	if !wait.IsWait() || wait.Start != 0 || wait.End != 2 {
		t.Errorf("expected a wait move [0,2) at vertex 0, got %v", wait)
	}
	if path[1].Start != 2 {
		t.Errorf("expected first edge move to depart at t=2, got %v", path[1])
	}
}

func TestPlanEuclideanHeuristicFindsSameShortestPath(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	tbl := safeinterval.Build(r, 1, constraints.Empty)

	path, err := Plan(r, gh, tbl, 1, 0, 2, time.Time{}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path.Duration() != 2.0 {
		t.Errorf("duration = %v, want 2.0 (Euclidean heuristic should still find the shortest path)", path.Duration())
	}
}

func TestPlanNoPathWhenGoalUnreachable(t *testing.T) {
	r := roadmap.New()
	r.AddVertex(&roadmap.Vertex{ID: 0, Pos: roadmap.Point{X: 0, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 1, Pos: roadmap.Point{X: 5, Y: 5}})
	gh := roadmap.NewGoalHeuristics(r)
	tbl := safeinterval.Build(r, 1, constraints.Empty)

	_, err := Plan(r, gh, tbl, 1, 0, 1, time.Time{}, Options{UsePrecalculatedHeuristic: true})
	if err != ErrNoPath {
		t.Errorf("expected ErrNoPath, got %v", err)
	}
}

func TestPlanRespectsDeadline(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	tbl := safeinterval.Build(r, 1, constraints.Empty)

	past := time.Now().Add(-time.Hour)
	_, err := Plan(r, gh, tbl, 1, 0, 2, past, Options{UsePrecalculatedHeuristic: true})
	if err != ErrDeadlineExceeded {
		t.Errorf("expected ErrDeadlineExceeded, got %v", err)
	}
}

func TestPlanVertexWaitConstraintForcesDetourTiming(t *testing.T) {
	r := line3()
	gh := roadmap.NewGoalHeuristics(r)
	// Forbid being at vertex 1 during [0.5, 1.5) -- the agent must delay its
	// arrival there.
	cs := constraints.Empty.WithNegative(constraints.Negative{Agent: 1, From: 1, To: 1, Lo: 0.5, Hi: 1.5})
	tbl := safeinterval.Build(r, 1, cs)

	path, err := Plan(r, gh, tbl, 1, 0, 2, time.Time{}, Options{UsePrecalculatedHeuristic: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, m := range path {
		if m.To == 1 && m.End > 0.5 && m.End < 1.5 {
			t.Errorf("move %v arrives at vertex 1 during the forbidden window", m)
		}
	}
	if math.IsInf(path.Duration(), 0) {
		t.Fatal("expected a finite-duration path")
	}
}
