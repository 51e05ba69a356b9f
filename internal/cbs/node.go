package cbs

import (
	"github.com/continuum-robotics/ccbs/internal/conflict"
	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// hln is one high-level node (spec.md §3 "High-level node"). Children never
// own their parent; the arena in search.go indexes nodes by integer so the
// constraint tree never forms a Go reference cycle (design note: "Cyclic
// references from HLN to parent").
type hln struct {
	idx       int
	parentIdx int // -1 for the root

	constraints *constraints.Set
	paths       map[roadmap.AgentID]roadmap.Path // shared by reference; only the replanned agent's entry differs from the parent's map

	g float64
	h float64

	conflicts []conflict.Conflict
	depth     int
}

func (n *hln) f() float64 { return n.g + n.h }

// hlnHeap is a container/heap.Interface priority queue keyed on (f, fewer
// conflicts, lower node id), grounded on the teacher's cbsHeap.
type hlnHeap []*hln

func (h hlnHeap) Len() int { return len(h) }
func (h hlnHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if fa, fb := a.f(), b.f(); fa != fb {
		return fa < fb
	}
	if len(a.conflicts) != len(b.conflicts) {
		return len(a.conflicts) < len(b.conflicts)
	}
	return a.idx < b.idx
}
func (h hlnHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *hlnHeap) Push(x any)   { *h = append(*h, x.(*hln)) }
func (h *hlnHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

// copyPaths shallow-copies the map wrapper only; Path slices themselves are
// never mutated in place (spec.md §9 "Shared immutable paths"), so reusing
// the same backing arrays across nodes is safe.
func copyPaths(p map[roadmap.AgentID]roadmap.Path) map[roadmap.AgentID]roadmap.Path {
	out := make(map[roadmap.AgentID]roadmap.Path, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

func totalG(p map[roadmap.AgentID]roadmap.Path) float64 {
	var g float64
	for _, path := range p {
		g += path.Duration()
	}
	return g
}
