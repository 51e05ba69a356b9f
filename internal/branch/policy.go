// Package branch implements the branching-policy interface of spec.md
// §4.I: given a high-level node's conflict list, select which conflict to
// split on. The heuristic policy is deterministic and built in; a second
// implementation lets an external scorer (the reinforcement-learning
// controller trained out of scope) drive the decision. Grounded on the
// teacher's Solver plug-in interface and on the original Python
// implementation's RLPolicyHook, whose select_conflict returns None to mean
// "defer to the built-in policy" — the same nil-means-fallback contract is
// used here.
package branch

import (
	"sort"

	"github.com/continuum-robotics/ccbs/internal/conflict"
)

// Observation is the fixed-length feature vector describing one candidate
// conflict, handed to a Scorer (spec.md §4.I).
type Observation struct {
	Class        conflict.Class
	Depth        int
	EarliestTime float64
	DeltaA       float64
	DeltaB       float64
	AgentA       int
	AgentB       int
}

// Scorer is the abstract capability a learned branching policy exposes:
// given the observations for every candidate conflict, return the index of
// the one to split on. The core never assumes determinism and must
// reproduce the search given the same sequence of scorer decisions
// (spec.md §4.I).
type Scorer interface {
	Score(observations []Observation) int
}

// Policy selects which conflict (by index into conflicts) a high-level
// node should split on. A nil Scorer means "use the deterministic
// heuristic" (spec.md §4.I); this mirrors the original RL hook's
// None-means-fallback contract.
type Policy struct {
	Scorer Scorer
}

// Heuristic is the built-in deterministic policy: cardinal first, then
// semi-cardinal, then earliest t_start, then lowest agent-id pair.
var Heuristic = Policy{}

// Select returns the index into conflicts to branch on. depth is the
// constraint-tree depth of the node being expanded, passed through to a
// Scorer's observations.
func (p Policy) Select(conflicts []conflict.Conflict, depth int, deltas func(conflict.Conflict) (float64, float64)) int {
	if len(conflicts) == 1 {
		return 0
	}
	if p.Scorer != nil {
		obs := make([]Observation, len(conflicts))
		for i, c := range conflicts {
			da, db := deltas(c)
			obs[i] = Observation{
				Class: c.Class, Depth: depth, EarliestTime: c.EarliestStart(),
				DeltaA: da, DeltaB: db,
				AgentA: int(c.AgentA), AgentB: int(c.AgentB),
			}
		}
		return p.Scorer.Score(obs)
	}
	return heuristicSelect(conflicts)
}

func heuristicSelect(conflicts []conflict.Conflict) int {
	idx := make([]int, len(conflicts))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		a, b := conflicts[idx[i]], conflicts[idx[j]]
		if a.Class != b.Class {
			return a.Class > b.Class // Cardinal(2) > SemiCardinal(1) > NonCardinal(0)
		}
		if a.EarliestStart() != b.EarliestStart() {
			return a.EarliestStart() < b.EarliestStart()
		}
		pa, pb := agentPair(a), agentPair(b)
		return pa[0] < pb[0] || (pa[0] == pb[0] && pa[1] < pb[1])
	})
	return idx[0]
}

func agentPair(c conflict.Conflict) [2]int {
	a, b := int(c.AgentA), int(c.AgentB)
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}
