package conflict

import (
	"sort"

	"github.com/continuum-robotics/ccbs/internal/geom"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/tidwall/rtree"
)

// moveRef identifies one move within the flattened per-agent path list used
// by the broad-phase index.
type moveRef struct {
	agent roadmap.AgentID
	move  roadmap.Move
}

// FindAll returns every pairwise conflict among paths, needed for cardinal
// and symmetry analysis (spec.md §4.E). A tidwall/rtree spatial index over
// each move's swept bounding box narrows the O(n^2) move-pair sweep down to
// candidates whose bounding boxes actually overlap before paying for the
// exact quadratic geometry test.
func FindAll(r *roadmap.Roadmap, paths map[roadmap.AgentID]roadmap.Path, radius float64) []Conflict {
	refs := flatten(paths)
	if len(refs) < 2 {
		return nil
	}

	var tr rtree.RTreeG[int]
	for i, ref := range refs {
		min, max := boundingBox(r, ref.move, radius)
		tr.Insert(min, max, i)
	}

	var out []Conflict
	seen := make(map[[2]int]bool)
	for i, ref := range refs {
		min, max := boundingBox(r, ref.move, radius)
		tr.Search(min, max, func(_, _ [2]float64, j int) bool {
			if j <= i {
				return true
			}
			other := refs[j]
			if other.agent == ref.agent {
				return true
			}
			key := [2]int{i, j}
			if seen[key] {
				return true
			}
			seen[key] = true

			if c, ok := testPair(r, ref, other, radius); ok {
				out = append(out, c)
			}
			return true
		})
	}
	return out
}

// FindFirst returns only the earliest conflict (smallest t_start on its
// earlier move, ties broken by smaller agent-pair), which is all plain
// expansion needs.
func FindFirst(r *roadmap.Roadmap, paths map[roadmap.AgentID]roadmap.Path, radius float64) (Conflict, bool) {
	all := FindAll(r, paths, radius)
	if len(all) == 0 {
		return Conflict{}, false
	}
	sort.Slice(all, func(i, j int) bool {
		ci, cj := all[i], all[j]
		if ci.EarliestStart() != cj.EarliestStart() {
			return ci.EarliestStart() < cj.EarliestStart()
		}
		pi, pj := agentPairKey(ci), agentPairKey(cj)
		return pi[0] < pj[0] || (pi[0] == pj[0] && pi[1] < pj[1])
	})
	return all[0], true
}

func agentPairKey(c Conflict) [2]roadmap.AgentID {
	a, b := c.AgentA, c.AgentB
	if a > b {
		a, b = b, a
	}
	return [2]roadmap.AgentID{a, b}
}

func flatten(paths map[roadmap.AgentID]roadmap.Path) []moveRef {
	var refs []moveRef
	agents := make([]roadmap.AgentID, 0, len(paths))
	for a := range paths {
		agents = append(agents, a)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	for _, a := range agents {
		for _, m := range paths[a] {
			refs = append(refs, moveRef{agent: a, move: m})
		}
	}
	return refs
}

// boundingBox returns the 2-D box enclosing a move's swept disk, inflated
// by radius.
func boundingBox(r *roadmap.Roadmap, m roadmap.Move, radius float64) (min, max [2]float64) {
	from := r.Vertices[m.From].Pos
	to := r.Vertices[m.To].Pos
	minX, maxX := from.X, to.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := from.Y, to.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return [2]float64{minX - radius, minY - radius}, [2]float64{maxX + radius, maxY + radius}
}

func toGeomMove(r *roadmap.Roadmap, m roadmap.Move) geom.Move {
	return geom.Move{
		From:  r.Vertices[m.From].Pos,
		To:    r.Vertices[m.To].Pos,
		Start: m.Start,
		End:   m.End,
	}
}

func testPair(r *roadmap.Roadmap, a, b moveRef, radius float64) (Conflict, bool) {
	ga, gb := toGeomMove(r, a.move), toGeomMove(r, b.move)
	if !geom.Collides(ga, gb, radius) {
		return Conflict{}, false
	}

	loA, hiA, okA := geom.StartTimeWindow(gb, ga.From, ga.To, ga.End-ga.Start, radius)
	loB, hiB, okB := geom.StartTimeWindow(ga, gb.From, gb.To, gb.End-gb.Start, radius)
	if !okA || !okB {
		// The narrow-phase Collides check found an instant of overlap, so
		// both windows should be non-empty; defensively treat a computation
		// mismatch as "no usable conflict" rather than panic downstream.
		return Conflict{}, false
	}

	return Conflict{
		AgentA: a.agent, AgentB: b.agent,
		MoveA: a.move, MoveB: b.move,
		LoA: loA, HiA: hiA,
		LoB: loB, HiB: hiB,
	}, true
}
