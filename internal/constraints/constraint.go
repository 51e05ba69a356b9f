// Package constraints implements the multi-constraint aggregator (spec.md
// §4.J): it collects, dedupes, and merges the positive/negative constraints
// accumulated along a constraint-tree path before handing them to the
// low-level planner.
package constraints

import (
	"math"
	"sort"

	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Negative forbids an agent from beginning to traverse edge From->To at any
// start time in [Lo, Hi).
type Negative struct {
	Agent    roadmap.AgentID
	From, To roadmap.VertexID
	Lo, Hi   float64
}

// Positive pins an agent to traverse edge From->To starting exactly at
// Start; used only by disjoint splitting.
type Positive struct {
	Agent    roadmap.AgentID
	From, To roadmap.VertexID
	Start    float64
}

// Set holds every constraint accumulated along one root-to-node path of the
// constraint tree. It is built by appending (I2, constraints never shrink)
// and is cheap to extend via WithNegative or WithPositive, each of which
// returns a new Set sharing the parent's unchanged backing slice by
// read-only reference (copy-on-write, spec.md §5) — the parent is never
// mutated.
type Set struct {
	negatives []Negative
	positives []Positive
}

// Empty is the constraint set at the constraint-tree root.
var Empty = &Set{}

// WithNegative returns a new Set equal to s plus n, with adjacent/
// overlapping intervals on the same (agent, directed edge) merged.
func (s *Set) WithNegative(n Negative) *Set {
	next := &Set{
		negatives: append(append([]Negative(nil), s.negatives...), n),
		positives: s.positives,
	}
	next.negatives = mergeNegatives(next.negatives)
	return next
}

// positiveEpsilon is the time tolerance used to decide whether two positive
// constraints on the same agent pin the same departure.
const positiveEpsilon = 1e-9

// WithPositive returns a new Set equal to s plus p, and true, unless p
// conflicts with an existing positive constraint already held for the same
// agent (same vertex and departure time, pinning a different move) — in
// that case it returns s unchanged and false, signaling the caller that
// this child is infeasible (the two sibling branches that produced these
// positives were not actually disjoint) and must be discarded rather than
// replanned.
func (s *Set) WithPositive(p Positive) (*Set, bool) {
	for _, existing := range s.positives {
		if existing.Agent != p.Agent || existing.From != p.From {
			continue
		}
		if math.Abs(existing.Start-p.Start) >= positiveEpsilon {
			continue
		}
		if existing.To != p.To {
			return s, false
		}
		return s, true // exact duplicate: no-op
	}
	return &Set{
		negatives: s.negatives,
		positives: append(append([]Positive(nil), s.positives...), p),
	}, true
}

// Negatives returns every negative constraint on agent a.
func (s *Set) Negatives(a roadmap.AgentID) []Negative {
	out := make([]Negative, 0, len(s.negatives))
	for _, n := range s.negatives {
		if n.Agent == a {
			out = append(out, n)
		}
	}
	return out
}

// Positives returns every positive constraint on agent a.
func (s *Set) Positives(a roadmap.AgentID) []Positive {
	out := make([]Positive, 0, len(s.positives))
	for _, p := range s.positives {
		if p.Agent == a {
			out = append(out, p)
		}
	}
	return out
}

// NegativesOn returns the negative constraints on agent a restricted to the
// directed edge from->to, sorted by Lo.
func (s *Set) NegativesOn(a roadmap.AgentID, from, to roadmap.VertexID) []Negative {
	out := make([]Negative, 0)
	for _, n := range s.negatives {
		if n.Agent == a && n.From == from && n.To == to {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lo < out[j].Lo })
	return out
}

// mergeNegatives merges adjacent or overlapping negative-constraint
// intervals that share an agent and directed edge (spec.md §4.J).
func mergeNegatives(ns []Negative) []Negative {
	byKey := make(map[[3]int64][]Negative)
	var order [][3]int64
	for _, n := range ns {
		k := [3]int64{int64(n.Agent), int64(n.From), int64(n.To)}
		if _, ok := byKey[k]; !ok {
			order = append(order, k)
		}
		byKey[k] = append(byKey[k], n)
	}

	out := make([]Negative, 0, len(ns))
	for _, k := range order {
		group := byKey[k]
		sort.Slice(group, func(i, j int) bool { return group[i].Lo < group[j].Lo })
		merged := make([]Negative, 0, len(group))
		cur := group[0]
		for _, n := range group[1:] {
			if n.Lo <= cur.Hi {
				if n.Hi > cur.Hi {
					cur.Hi = n.Hi
				}
				continue
			}
			merged = append(merged, cur)
			cur = n
		}
		merged = append(merged, cur)
		out = append(out, merged...)
	}
	return out
}
