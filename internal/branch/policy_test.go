package branch

import (
	"testing"

	"github.com/continuum-robotics/ccbs/internal/conflict"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

func noDeltas(conflict.Conflict) (float64, float64) { return 0, 0 }

// moveAt builds a move starting at start. The conflicts below give both of
// their moves the same Start, so EarliestStart() = min(MoveA.Start,
// MoveB.Start) is exactly that value.
func moveAt(start float64) roadmap.Move {
	return roadmap.Move{Start: start}
}

func TestHeuristicPrefersCardinal(t *testing.T) {
	cs := []conflict.Conflict{
		{AgentA: 1, AgentB: 2, Class: conflict.NonCardinal, MoveA: moveAt(0), MoveB: moveAt(0)},
		{AgentA: 3, AgentB: 4, Class: conflict.Cardinal, MoveA: moveAt(5), MoveB: moveAt(5)},
	}
	idx := Heuristic.Select(cs, 0, noDeltas)
	if idx != 1 {
		t.Errorf("expected the cardinal conflict (index 1) to be chosen, got %d", idx)
	}
}

func TestHeuristicTieBreaksByEarliestTime(t *testing.T) {
	cs := []conflict.Conflict{
		{AgentA: 1, AgentB: 2, Class: conflict.Cardinal, MoveA: moveAt(5), MoveB: moveAt(5)},
		{AgentA: 3, AgentB: 4, Class: conflict.Cardinal, MoveA: moveAt(1), MoveB: moveAt(1)},
	}
	idx := Heuristic.Select(cs, 0, noDeltas)
	if idx != 1 {
		t.Errorf("expected the earlier conflict (index 1) to be chosen, got %d", idx)
	}
}

func TestSingleConflictShortCircuits(t *testing.T) {
	cs := []conflict.Conflict{{AgentA: 1, AgentB: 2, Class: conflict.NonCardinal}}
	if idx := Heuristic.Select(cs, 0, noDeltas); idx != 0 {
		t.Errorf("single-conflict case should trivially return 0, got %d", idx)
	}
}

type fixedScorer struct{ idx int }

func (f fixedScorer) Score(_ []Observation) int { return f.idx }

func TestScorerOverridesHeuristic(t *testing.T) {
	p := Policy{Scorer: fixedScorer{idx: 0}}
	cs := []conflict.Conflict{
		{AgentA: 1, AgentB: 2, Class: conflict.NonCardinal, MoveA: moveAt(0), MoveB: moveAt(0)},
		{AgentA: 3, AgentB: 4, Class: conflict.Cardinal, MoveA: moveAt(5), MoveB: moveAt(5)},
	}
	idx := p.Select(cs, 0, noDeltas)
	if idx != 0 {
		t.Errorf("a non-nil scorer should override the built-in heuristic, got %d", idx)
	}
}
