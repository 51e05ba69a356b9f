// Package sipp implements the low-level single-agent planner (spec.md
// §4.D): a best-first search over (vertex, safe-interval) states that
// produces a minimum-duration timed path respecting a safe-interval table,
// or reports NoPath. Grounded on the teacher's space-time A* search
// structure (container/heap priority queue, g/f cost node, explicit parent
// chain for reconstruction) generalized from discrete time steps to
// continuous safe intervals.
package sipp

import (
	"container/heap"
	"errors"
	"math"
	"time"

	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/continuum-robotics/ccbs/internal/safeinterval"
)

// ErrNoPath is returned when the open set empties without reaching the
// goal under the goal condition (spec.md §4.D). It is not treated as an
// error by callers: the high-level search prunes the node and continues.
var ErrNoPath = errors.New("sipp: no path under current constraints")

// ErrDeadlineExceeded signals the caller-supplied deadline was hit mid
// search.
var ErrDeadlineExceeded = errors.New("sipp: deadline exceeded")

// defaultPrecision is used when Options.Precision is left at its zero value.
const defaultPrecision = 1e-9

// Options configures the numeric tolerance and goal-heuristic strategy used
// by Plan (spec.md config table: precision, use_precalculated_heuristic).
type Options struct {
	// Precision is the time tolerance π used when intersecting departure
	// windows and deciding whether an interval is wide enough to admit a
	// move. Zero selects defaultPrecision.
	Precision float64

	// UsePrecalculatedHeuristic selects roadmap.GoalHeuristics' cached
	// reverse-Dijkstra h* (true) over a straight-line Euclidean lower bound
	// recomputed on every node (false). Both are admissible; the cached
	// table costs one Dijkstra run per distinct goal but guides search more
	// tightly.
	UsePrecalculatedHeuristic bool
}

func (o Options) precision() float64 {
	if o.Precision > 0 {
		return o.Precision
	}
	return defaultPrecision
}

func (o Options) heuristic(r *roadmap.Roadmap, gh *roadmap.GoalHeuristics, v, goal roadmap.VertexID) float64 {
	if o.UsePrecalculatedHeuristic {
		return gh.Value(v, goal)
	}
	return r.Vertices[v].Pos.Dist(r.Vertices[goal].Pos)
}

// Plan runs the safe-interval search for one agent from start to goal.
// deadline is checked at each node pop (spec.md §5); pass the zero Time to
// disable the check.
func Plan(r *roadmap.Roadmap, gh *roadmap.GoalHeuristics, tbl *safeinterval.Table, agent roadmap.AgentID, start, goal roadmap.VertexID, deadline time.Time, opts Options) (roadmap.Path, error) {
	iv0, idx0, ok := tbl.IntervalAt(start, 0)
	if !ok {
		return nil, ErrNoPath
	}

	root := &sippNode{
		st:     state{v: int(start), interval: idx0},
		arrive: 0,
		iv:     iv0,
		g:      0,
	}
	root.f = root.g + opts.heuristic(r, gh, start, goal)

	open := &sippHeap{root}
	heap.Init(open)
	best := map[state]float64{root.st: 0}

	for open.Len() > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrDeadlineExceeded
		}

		n := heap.Pop(open).(*sippNode)
		if g, ok := best[n.st]; ok && n.g > g+1e-12 {
			continue // stale entry, a cheaper one for this state was already expanded
		}

		if roadmap.VertexID(n.st.v) == goal && math.IsInf(n.iv.Hi, 1) {
			return reconstruct(agent, n), nil
		}

		for _, w := range r.NeighborOrder(roadmap.VertexID(n.st.v)) {
			edge, ok := r.EdgeBetween(roadmap.VertexID(n.st.v), w)
			if !ok {
				continue
			}
			depWindow := safeinterval.Interval{Lo: n.arrive, Hi: n.iv.Hi}
			allowed := tbl.EdgeAllowedStarts(roadmap.VertexID(n.st.v), w)

			for j, destIv := range tbl.VertexIntervals(w) {
				arrivalWindow := safeinterval.Interval{Lo: destIv.Lo - edge.Duration, Hi: destIv.Hi - edge.Duration}
				depart, found := earliestDeparture(depWindow, allowed, arrivalWindow, opts.precision())
				if !found {
					continue
				}
				arrive := depart + edge.Duration
				succ := state{v: int(w), interval: j}
				if g, ok := best[succ]; ok && arrive >= g-1e-12 {
					continue
				}
				best[succ] = arrive
				child := &sippNode{
					st:       succ,
					arrive:   arrive,
					departAt: depart,
					iv:       destIv,
					g:        arrive,
					parent:   n,
				}
				child.f = child.g + opts.heuristic(r, gh, w, goal)
				heap.Push(open, child)
			}
		}
	}

	return nil, ErrNoPath
}

// earliestDeparture returns the smallest t in depWindow that also falls in
// some interval of allowed and within arrivalWindow, or !found if no such t
// exists. allowed is sorted ascending and disjoint (safeinterval.Table's
// invariant). precision is the minimum interval width treated as non-empty.
func earliestDeparture(depWindow safeinterval.Interval, allowed []safeinterval.Interval, arrivalWindow safeinterval.Interval, precision float64) (t float64, found bool) {
	best := math.Inf(1)
	for _, a := range allowed {
		lo := max3(depWindow.Lo, a.Lo, arrivalWindow.Lo)
		hi := min3(depWindow.Hi, a.Hi, arrivalWindow.Hi)
		if hi-lo > precision {
			if lo < best {
				best = lo
				found = true
			}
		}
	}
	return best, found
}

func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }

// reconstruct walks the parent chain from the goal node back to the root,
// inserting an explicit wait move wherever a node's departure time is later
// than its predecessor's arrival (spec.md §3: paths must be temporally
// contiguous).
func reconstruct(agent roadmap.AgentID, goalNode *sippNode) roadmap.Path {
	var chain []*sippNode
	for n := goalNode; n.parent != nil; n = n.parent {
		chain = append(chain, n)
	}
	// chain is goal-to-root; reverse it.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	var path roadmap.Path
	for _, n := range chain {
		from := roadmap.VertexID(n.parent.st.v)
		if n.departAt > n.parent.arrive+1e-9 {
			path = append(path, roadmap.Move{
				Agent: agent, From: from, To: from,
				Start: n.parent.arrive, End: n.departAt,
			})
		}
		path = append(path, roadmap.Move{
			Agent: agent, From: from, To: roadmap.VertexID(n.st.v),
			Start: n.departAt, End: n.arrive,
		})
	}
	return path
}
