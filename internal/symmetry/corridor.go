// Package symmetry implements the pruning refinements of spec.md §4.F:
// corridor symmetry (opposing traversal of a degree-2 vertex chain) and
// target symmetry (an agent dwelling at its goal blocking another's
// shortest path through it).
package symmetry

import (
	"github.com/continuum-robotics/ccbs/internal/conflict"
	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Corridor describes the chain of degree-2 vertices ahead of move A that
// the two conflicting moves traverse in opposing directions.
type Corridor struct {
	// EntryFrom/EntryTo is the directed entry edge each agent's own first
	// move into the corridor takes (opposite for the two agents).
	EntryFromA, EntryToA roadmap.VertexID
	EntryFromB, EntryToB roadmap.VertexID
	// Length is the one-way traversal duration from move A's start vertex,
	// in A's direction of travel, up to the first vertex that does not have
	// degree 2.
	Length float64
}

// DetectCorridor reports whether the conflict's two moves both lie on a
// corridor (a path-like subgraph of degree-2 vertices) traversed in
// opposing directions, and if so returns its extent.
//
// A corridor conflict exists when move B traverses move A's edge in the
// opposite direction and at least one endpoint of that edge has degree 2
// (i.e. the two agents are walking straight at each other down a
// single-file hallway).
func DetectCorridor(r *roadmap.Roadmap, c conflict.Conflict) (Corridor, bool) {
	if c.MoveA.To != c.MoveB.From || c.MoveA.From != c.MoveB.To {
		return Corridor{}, false
	}
	if r.Degree(c.MoveA.To) != 2 && r.Degree(c.MoveA.From) != 2 {
		return Corridor{}, false
	}

	_, length := walkCorridor(r, c.MoveA.From, c.MoveA.To)
	return Corridor{
		EntryFromA: c.MoveA.From, EntryToA: c.MoveA.To,
		EntryFromB: c.MoveB.From, EntryToB: c.MoveB.To,
		Length: length,
	}, true
}

// walkCorridor follows the degree-2 chain starting at `from` heading
// towards `to` until it reaches a vertex that is not degree-2 (the far
// end), accumulating total edge duration.
func walkCorridor(r *roadmap.Roadmap, from, to roadmap.VertexID) (end roadmap.VertexID, length float64) {
	prev, cur := from, to
	e, _ := r.EdgeBetween(from, to)
	length = e.Duration

	for r.Degree(cur) == 2 {
		var next roadmap.VertexID
		found := false
		for _, w := range r.NeighborOrder(cur) {
			if w != prev {
				next = w
				found = true
				break
			}
		}
		if !found {
			break
		}
		edge, _ := r.EdgeBetween(cur, next)
		length += edge.Duration
		prev, cur = cur, next
	}
	return cur, length
}

// RangeConstraintA builds the stronger corridor negative constraint on
// agent A's entry edge, forbidding it from entering the corridor for the
// full one-way traversal window rather than just the single conflicting
// move's short collision window (spec.md §4.F): this prunes the symmetric
// subtree of per-move constraints that would otherwise each resolve only
// locally.
func RangeConstraintA(agent roadmap.AgentID, corridor Corridor, windowStart float64) constraints.Negative {
	return constraints.Negative{
		Agent: agent,
		From:  corridor.EntryFromA,
		To:    corridor.EntryToA,
		Lo:    windowStart,
		Hi:    windowStart + corridor.Length,
	}
}

// RangeConstraintB is RangeConstraintA for the other participant.
func RangeConstraintB(agent roadmap.AgentID, corridor Corridor, windowStart float64) constraints.Negative {
	return constraints.Negative{
		Agent: agent,
		From:  corridor.EntryFromB,
		To:    corridor.EntryToB,
		Lo:    windowStart,
		Hi:    windowStart + corridor.Length,
	}
}
