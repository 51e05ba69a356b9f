// Package safeinterval builds, per agent, the per-vertex and per-edge safe
// intervals SIPP searches over (spec.md §4.C): ordered, disjoint, half-open
// time ranges derived from that agent's constraint set.
package safeinterval

import (
	"math"
	"sort"

	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Interval is a half-open time range [Lo, Hi); Hi may be +Inf.
type Interval struct {
	Lo, Hi float64
}

// Table answers safe-interval queries for a single agent over a roadmap,
// built once from that agent's constraint set (I5: pairwise disjoint,
// ordered by start).
type Table struct {
	r     *roadmap.Roadmap
	agent roadmap.AgentID

	// vertexSafe[v] holds the safe intervals at v: the complement, in
	// [0,inf), of the windows in which the agent may not be at v. Only
	// self-edge negative constraints (From==To==v, i.e. wait forbids)
	// produce such windows; see Build.
	vertexSafe map[roadmap.VertexID][]Interval

	// edgeAllowedStart[(from,to)] is the complement, in [0,inf), of the
	// negative-constraint intervals on that directed edge, further
	// narrowed by the agent's positive constraints (applyPositives): the
	// start times at which the agent is permitted to begin traversing it.
	edgeAllowedStart map[edgeKey][]Interval
}

type edgeKey struct {
	From, To roadmap.VertexID
}

// Build constructs the safe-interval table for one agent from its
// constraint set.
func Build(r *roadmap.Roadmap, agent roadmap.AgentID, cs *constraints.Set) *Table {
	t := &Table{
		r:                r,
		agent:            agent,
		vertexSafe:       make(map[roadmap.VertexID][]Interval),
		edgeAllowedStart: make(map[edgeKey][]Interval),
	}

	negs := cs.Negatives(agent)

	// Vertex occupancy: a negative constraint on directed edge (u,v) forbids
	// starting that move in [lo,hi), which forbids occupying u during
	// [lo,hi) (the agent can't be departing from u then) only insofar as it
	// would need to depart; the table models vertex occupancy purely from
	// constraints aimed directly at a vertex, which in this model are
	// expressed as self-edge negative constraints (From==To==v), i.e. wait
	// forbids. Edge negative constraints instead restrict edge departure
	// times and are handled by edgeAllowedStart.
	forbidden := make(map[roadmap.VertexID][]Interval)
	for _, n := range negs {
		if n.From == n.To {
			forbidden[n.From] = append(forbidden[n.From], Interval{n.Lo, n.Hi})
		}
	}
	for v := range r.Vertices {
		t.vertexSafe[v] = complement(mergeSorted(forbidden[v]))
	}

	edgeForbidden := make(map[edgeKey][]Interval)
	for _, n := range negs {
		if n.From == n.To {
			continue
		}
		k := edgeKey{n.From, n.To}
		edgeForbidden[k] = append(edgeForbidden[k], Interval{n.Lo, n.Hi})
	}
	for v := range r.Vertices {
		for _, e := range r.Edges(v) {
			k := edgeKey{e.From, e.To}
			if _, ok := t.edgeAllowedStart[k]; ok {
				continue
			}
			t.edgeAllowedStart[k] = complement(mergeSorted(edgeForbidden[k]))
		}
	}

	applyPositives(r, cs.Positives(agent), t)

	return t
}

// applyPositives restricts t so that, at each positive constraint's vertex
// and safe interval, the only legal successor is the pinned move departing
// no earlier than Start (I1: "equivalent to the negation of all alternative
// moves at that vertex at that time"). Every sibling outgoing edge has the
// whole enclosing safe interval removed from its allowed-start set; the
// pinned edge itself has everything before Start removed, so SIPP's
// earliest-departure search can only ever pick Start for it.
func applyPositives(r *roadmap.Roadmap, positives []constraints.Positive, t *Table) {
	for _, p := range positives {
		iv, _, ok := t.IntervalAt(p.From, p.Start)
		if !ok {
			continue // already infeasible; the planner will report no path
		}
		for _, e := range r.Edges(p.From) {
			k := edgeKey{e.From, e.To}
			if e.To == p.To {
				t.edgeAllowedStart[k] = intersectAll(t.edgeAllowedStart[k], Interval{p.Start, math.Inf(1)})
			} else {
				t.edgeAllowedStart[k] = subtractOne(t.edgeAllowedStart[k], iv)
			}
		}
	}
}

// intersectAll intersects every interval in ivs with bound, dropping any
// empty results.
func intersectAll(ivs []Interval, bound Interval) []Interval {
	var out []Interval
	for _, iv := range ivs {
		lo, hi := math.Max(iv.Lo, bound.Lo), math.Min(iv.Hi, bound.Hi)
		if hi-lo > epsilon {
			out = append(out, Interval{lo, hi})
		}
	}
	return out
}

// subtractOne removes cut from every interval in ivs, splitting an interval
// that straddles cut into the (up to two) remaining pieces.
func subtractOne(ivs []Interval, cut Interval) []Interval {
	var out []Interval
	for _, iv := range ivs {
		if cut.Hi <= iv.Lo+epsilon || cut.Lo >= iv.Hi-epsilon {
			out = append(out, iv)
			continue
		}
		if cut.Lo > iv.Lo+epsilon {
			out = append(out, Interval{iv.Lo, cut.Lo})
		}
		if cut.Hi < iv.Hi-epsilon {
			out = append(out, Interval{cut.Hi, iv.Hi})
		}
	}
	return out
}

// VertexIntervals returns the safe intervals at v, in ascending order.
func (t *Table) VertexIntervals(v roadmap.VertexID) []Interval {
	return t.vertexSafe[v]
}

// IntervalAt returns the safe interval at v containing time, and its index
// within VertexIntervals(v), if one exists.
func (t *Table) IntervalAt(v roadmap.VertexID, time float64) (Interval, int, bool) {
	ivs := t.vertexSafe[v]
	for i, iv := range ivs {
		if time >= iv.Lo-epsilon && time < iv.Hi {
			return iv, i, true
		}
	}
	return Interval{}, -1, false
}

// EdgeAllowedStarts returns the start-time intervals during which the agent
// may begin traversing from->to, in ascending order.
func (t *Table) EdgeAllowedStarts(from, to roadmap.VertexID) []Interval {
	return t.edgeAllowedStart[edgeKey{from, to}]
}

const epsilon = 1e-9

// mergeSorted sorts and coalesces overlapping/adjacent intervals.
func mergeSorted(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Lo < ivs[j].Lo })
	out := make([]Interval, 0, len(ivs))
	cur := ivs[0]
	for _, iv := range ivs[1:] {
		if iv.Lo <= cur.Hi+epsilon {
			if iv.Hi > cur.Hi {
				cur.Hi = iv.Hi
			}
			continue
		}
		out = append(out, cur)
		cur = iv
	}
	return append(out, cur)
}

// complement returns the complement of a sorted, disjoint set of forbidden
// intervals within [0, +Inf).
func complement(forbidden []Interval) []Interval {
	if len(forbidden) == 0 {
		return []Interval{{0, math.Inf(1)}}
	}
	var out []Interval
	cursor := 0.0
	for _, f := range forbidden {
		if f.Lo > cursor+epsilon {
			out = append(out, Interval{cursor, f.Lo})
		}
		if f.Hi > cursor {
			cursor = f.Hi
		}
	}
	out = append(out, Interval{cursor, math.Inf(1)})
	return out
}
