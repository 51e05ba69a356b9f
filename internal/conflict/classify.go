package conflict

import (
	"math"
	"time"

	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/continuum-robotics/ccbs/internal/safeinterval"
	"github.com/continuum-robotics/ccbs/internal/sipp"
)

// Classify replans each participant of c under a constraint forbidding its
// own move's collision interval and compares the resulting cost against its
// current path duration, yielding the cardinality classification of
// spec.md §4.F. currentDurA/currentDurB are the agents' durations in the
// node under analysis.
func Classify(r *roadmap.Roadmap, gh *roadmap.GoalHeuristics, cs *constraints.Set, agentA, agentB roadmap.Agent, c Conflict, currentDurA, currentDurB float64, deadline time.Time, opts sipp.Options) Class {
	deltaA := probeDelta(r, gh, cs, agentA, c.AgentA, c.MoveA, c.LoA, c.HiA, currentDurA, deadline, opts)
	deltaB := probeDelta(r, gh, cs, agentB, c.AgentB, c.MoveB, c.LoB, c.HiB, currentDurB, deadline, opts)

	const epsilon = 1e-9
	aUp := deltaA > epsilon
	bUp := deltaB > epsilon
	switch {
	case aUp && bUp:
		return Cardinal
	case aUp || bUp:
		return SemiCardinal
	default:
		return NonCardinal
	}
}

// probeDelta replans agent under a negative constraint forbidding move's
// directed edge over [lo,hi) and returns the cost delta versus currentDur,
// or +Inf if the probe finds no path at all.
func probeDelta(r *roadmap.Roadmap, gh *roadmap.GoalHeuristics, cs *constraints.Set, agent roadmap.Agent, id roadmap.AgentID, move roadmap.Move, lo, hi, currentDur float64, deadline time.Time, opts sipp.Options) float64 {
	forbidding := cs.WithNegative(constraints.Negative{Agent: id, From: move.From, To: move.To, Lo: lo, Hi: hi})
	tbl := safeinterval.Build(r, id, forbidding)

	path, err := sipp.Plan(r, gh, tbl, id, agent.Start, agent.Goal, deadline, opts)
	if err != nil {
		return math.Inf(1)
	}
	delta := path.Duration() - currentDur
	if delta < 0 {
		// Replanning under a strictly additional constraint cannot be
		// cheaper than the unconstrained optimum it was derived from;
		// treat a negative delta from floating-point noise as zero.
		return 0
	}
	return delta
}
