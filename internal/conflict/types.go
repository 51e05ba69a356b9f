// Package conflict implements the conflict detector (spec.md §4.E) and the
// cardinal/semi-cardinal/non-cardinal classification (spec.md §4.F): given
// a set of timed paths, it finds pairwise disk-disk collisions and, for a
// given conflict, measures how much replanning each participant under a
// forbidding constraint would cost.
package conflict

import "github.com/continuum-robotics/ccbs/internal/roadmap"

// Class is a conflict's cardinality classification (spec.md §4.F).
type Class int

const (
	NonCardinal Class = iota
	SemiCardinal
	Cardinal
)

func (c Class) String() string {
	switch c {
	case Cardinal:
		return "cardinal"
	case SemiCardinal:
		return "semi-cardinal"
	default:
		return "non-cardinal"
	}
}

// Conflict is a pairwise collision between agent A's move and agent B's
// move (spec.md §3). LoA/HiA is the collision interval on move A — the
// maximal half-open range of start times for move A that still collides
// with move B held fixed — and symmetrically for LoB/HiB.
type Conflict struct {
	AgentA, AgentB roadmap.AgentID
	MoveA, MoveB   roadmap.Move
	LoA, HiA       float64
	LoB, HiB       float64
	Class          Class
}

// EarliestStart is the smaller of the two moves' start times, used to order
// conflicts by the spec's earliest-conflict rule.
func (c Conflict) EarliestStart() float64 {
	if c.MoveA.Start < c.MoveB.Start {
		return c.MoveA.Start
	}
	return c.MoveB.Start
}
