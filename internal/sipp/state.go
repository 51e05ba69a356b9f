package sipp

import "github.com/continuum-robotics/ccbs/internal/safeinterval"

// state is (vertex, safe-interval index) — the SIPP search state (spec.md
// §4.D).
type state struct {
	v        int // roadmap.VertexID, stored as int for compact map keys
	interval int
}

// sippNode is a priority-queue entry, mirroring the teacher's astarNode:
// g/f cost fields plus a parent back-pointer for path reconstruction.
type sippNode struct {
	st       state
	departAt float64 // time the agent departs the previous vertex (0 at the root)
	arrive   float64 // time the agent arrives at st.v and the interval it occupies
	iv       safeinterval.Interval
	g        float64
	f        float64
	parent   *sippNode
	index    int // heap index
}

// sippHeap implements heap.Interface exactly like the teacher's astarHeap.
type sippHeap []*sippNode

func (h sippHeap) Len() int { return len(h) }
func (h sippHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	// Tie-break: smaller destination interval index, then smaller vertex id
	// (spec.md §4.D).
	if h[i].st.interval != h[j].st.interval {
		return h[i].st.interval < h[j].st.interval
	}
	return h[i].st.v < h[j].st.v
}
func (h sippHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *sippHeap) Push(x any) {
	n := x.(*sippNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *sippHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}
