package symmetry

import (
	"math"

	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// DetectTarget reports whether agent a's goal lies on agent b's remaining
// path (i.e. b's path passes through a's goal vertex after a has already
// arrived and is dwelling there), the recurring symmetry of spec.md §4.F.
// arriveA is a's arrival time at its own goal; pathB is b's full planned
// path.
func DetectTarget(goalA roadmap.VertexID, arriveA float64, pathB roadmap.Path) (roadmap.Move, bool) {
	for _, m := range pathB {
		if m.To == goalA && m.End > arriveA {
			return m, true
		}
	}
	return roadmap.Move{}, false
}

// Constraint builds the negative constraint forbidding agent b from
// entering a's goal vertex while a is dwelling there: b may not begin the
// move that would land it at goalA at any start time whose arrival falls
// within a's dwell window [arriveA, +Inf).
func Constraint(agentB roadmap.AgentID, through roadmap.Move, arriveA float64) constraints.Negative {
	dur := through.End - through.Start
	lo := arriveA - dur
	if lo < 0 {
		lo = 0
	}
	return constraints.Negative{
		Agent: agentB,
		From:  through.From,
		To:    through.To,
		Lo:    lo,
		Hi:    math.Inf(1), // a's dwell is open-ended once it has reached its goal.
	}
}
