// Package cbs implements the high-level constraint-tree search (spec.md
// §4.H): best-first expansion of high-level nodes, branching on conflicts
// via a pluggable policy, with optional disjoint splitting and corridor/
// target symmetry pruning. Grounded on the teacher's cbsNode/cbsHeap
// expand-and-replan loop, generalized from discrete vertex constraints to
// continuous safe-interval constraints and a richer splitting rule set.
package cbs

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/continuum-robotics/ccbs/internal/branch"
	"github.com/continuum-robotics/ccbs/internal/conflict"
	"github.com/continuum-robotics/ccbs/internal/constraints"
	"github.com/continuum-robotics/ccbs/internal/geom"
	"github.com/continuum-robotics/ccbs/internal/hvalue"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/continuum-robotics/ccbs/internal/safeinterval"
	"github.com/continuum-robotics/ccbs/internal/sipp"
	"github.com/continuum-robotics/ccbs/internal/symmetry"
)

// Config is the configuration surface of spec.md §6 consumed by the
// high-level search.
type Config struct {
	Radius                    float64
	Precision                 float64
	HLHType                   hvalue.Type
	UsePrecalculatedHeuristic bool
	UseDisjointSplitting      bool
	UseCardinal               bool
	UseCorridorSymmetry       bool
	UseTargetSymmetry         bool
	TimeLimit                 time.Duration
	StepLimit                 int // 0 means unlimited
	Scorer                    branch.Scorer
}

func (c Config) sippOptions() sipp.Options {
	return sipp.Options{Precision: c.Precision, UsePrecalculatedHeuristic: c.UsePrecalculatedHeuristic}
}

// Reason explains why a search did not find a solution.
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonTimeout    Reason = "timeout"
	ReasonStepLimit  Reason = "step_limit"
	ReasonInfeasible Reason = "infeasible"
)

// Solution is the produced object of spec.md §6.
type Solution struct {
	Found              bool
	Flowtime           float64
	Makespan           float64
	Time               time.Duration
	HighLevelExpanded  int
	LowLevelExpansions int
	Paths              map[roadmap.AgentID]roadmap.Path
	Reason             Reason
}

// InvalidInputError reports malformed input (spec.md §7): an out-of-range
// agent radius, a start/goal vertex absent from the roadmap, or two agents
// sharing a start vertex. No search is performed when this is returned.
type InvalidInputError struct{ Msg string }

func (e InvalidInputError) Error() string { return "ccbs: invalid input: " + e.Msg }

func validate(r *roadmap.Roadmap, agents []roadmap.Agent, radius float64) error {
	if radius <= 0 || radius > 0.5 {
		return InvalidInputError{Msg: fmt.Sprintf("agent_size %v out of range (0,0.5]", radius)}
	}
	starts := make(map[roadmap.VertexID]roadmap.AgentID, len(agents))
	for _, a := range agents {
		if _, ok := r.Vertices[a.Start]; !ok {
			return InvalidInputError{Msg: fmt.Sprintf("agent %d: start vertex %d not in roadmap", a.ID, a.Start)}
		}
		if _, ok := r.Vertices[a.Goal]; !ok {
			return InvalidInputError{Msg: fmt.Sprintf("agent %d: goal vertex %d not in roadmap", a.ID, a.Goal)}
		}
		if other, ok := starts[a.Start]; ok {
			return InvalidInputError{Msg: fmt.Sprintf("agents %d and %d share start vertex %d", other, a.ID, a.Start)}
		}
		starts[a.Start] = a.ID
	}
	return nil
}

// search holds the mutable state of one Solve call: the node arena, the
// low-level-expansion counter, and the shared roadmap/heuristic inputs.
type search struct {
	r      *roadmap.Roadmap
	gh     *roadmap.GoalHeuristics
	cfg    Config
	agents map[roadmap.AgentID]roadmap.Agent

	arena       []*hln
	lowLevelExp int
	expanded    int
	deadline    time.Time
}

// Solve runs the high-level search to completion, to a step/time budget
// exhaustion, or to infeasibility (spec.md §4.H). An InvalidInputError is
// returned, with a zero Solution, when the instance itself is malformed;
// no search is performed in that case (spec.md §7).
func Solve(r *roadmap.Roadmap, gh *roadmap.GoalHeuristics, agents []roadmap.Agent, cfg Config) (Solution, error) {
	if err := validate(r, agents, cfg.Radius); err != nil {
		return Solution{}, err
	}

	start := time.Now()
	s := &search{r: r, gh: gh, cfg: cfg, agents: make(map[roadmap.AgentID]roadmap.Agent, len(agents))}
	for _, a := range agents {
		s.agents[a.ID] = a
	}
	if cfg.TimeLimit > 0 {
		s.deadline = start.Add(cfg.TimeLimit)
	}

	root, ok := s.buildRoot(agents)
	if !ok {
		return Solution{Found: false, Reason: ReasonInfeasible, Time: time.Since(start), LowLevelExpansions: s.lowLevelExp}, nil
	}

	open := &hlnHeap{root}
	heap.Init(open)

	for open.Len() > 0 {
		if !s.deadline.IsZero() && time.Now().After(s.deadline) {
			return Solution{Found: false, Reason: ReasonTimeout, Time: time.Since(start), HighLevelExpanded: s.expanded, LowLevelExpansions: s.lowLevelExp}, nil
		}
		if cfg.StepLimit > 0 && len(s.arena) > cfg.StepLimit {
			return Solution{Found: false, Reason: ReasonStepLimit, Time: time.Since(start), HighLevelExpanded: s.expanded, LowLevelExpansions: s.lowLevelExp}, nil
		}

		n := heap.Pop(open).(*hln)
		s.expanded++
		if len(n.conflicts) == 0 {
			return Solution{
				Found: true, Flowtime: n.g, Makespan: makespan(n.paths),
				Time: time.Since(start), HighLevelExpanded: s.expanded, LowLevelExpansions: s.lowLevelExp,
				Paths: n.paths,
			}, nil
		}

		idx := branch.Policy{Scorer: cfg.Scorer}.Select(n.conflicts, n.depth, func(c conflict.Conflict) (float64, float64) {
			return s.delta(n, c)
		})
		chosen := n.conflicts[idx]

		for _, child := range s.split(n, chosen) {
			if built, ok := s.buildChild(n, child); ok {
				heap.Push(open, built)
			}
		}
	}

	return Solution{Found: false, Reason: ReasonInfeasible, Time: time.Since(start), HighLevelExpanded: s.expanded, LowLevelExpansions: s.lowLevelExp}, nil
}

func makespan(paths map[roadmap.AgentID]roadmap.Path) float64 {
	var m float64
	for _, p := range paths {
		if d := p.Duration(); d > m {
			m = d
		}
	}
	return m
}

// buildRoot plans every agent unconstrained and computes its conflict set.
func (s *search) buildRoot(agents []roadmap.Agent) (*hln, bool) {
	paths := make(map[roadmap.AgentID]roadmap.Path, len(agents))
	for _, a := range agents {
		p, ok := s.plan(a, constraints.Empty)
		if !ok {
			return nil, false
		}
		paths[a.ID] = p
	}
	n := &hln{idx: 0, parentIdx: -1, constraints: constraints.Empty, paths: paths, g: totalG(paths)}
	s.finish(n)
	s.arena = append(s.arena, n)
	return n, true
}

func (s *search) plan(a roadmap.Agent, cs *constraints.Set) (roadmap.Path, bool) {
	s.lowLevelExp++
	tbl := safeinterval.Build(s.r, a.ID, cs)
	p, err := sipp.Plan(s.r, s.gh, tbl, a.ID, a.Start, a.Goal, s.deadline, s.cfg.sippOptions())
	if err != nil {
		return nil, false
	}
	return p, true
}

// childSpec describes one branch of a split: the agent to replan and the
// constraint(s) to add for it, plus constraints propagated to other agents
// (disjoint splitting only).
type childSpec struct {
	agent     roadmap.AgentID
	negative  *constraints.Negative
	positive  *constraints.Positive
	propagate []constraints.Negative
}

// split turns a chosen conflict into the children to create, applying
// corridor symmetry, target symmetry, or standard/disjoint splitting in
// that preference order (spec.md §4.F, §4.H).
func (s *search) split(n *hln, c conflict.Conflict) []childSpec {
	if s.cfg.UseCorridorSymmetry {
		if corridor, ok := symmetry.DetectCorridor(s.r, c); ok {
			na := symmetry.RangeConstraintA(c.AgentA, corridor, c.MoveA.Start)
			nb := symmetry.RangeConstraintB(c.AgentB, corridor, c.MoveB.Start)
			return []childSpec{{agent: c.AgentA, negative: &na}, {agent: c.AgentB, negative: &nb}}
		}
	}

	if s.cfg.UseTargetSymmetry {
		if spec, ok := s.targetSplit(n, c); ok {
			return []childSpec{spec}
		}
	}

	if s.cfg.UseDisjointSplitting {
		return s.disjointSplit(n, c)
	}

	na := constraints.Negative{Agent: c.AgentA, From: c.MoveA.From, To: c.MoveA.To, Lo: c.LoA, Hi: c.HiA}
	nb := constraints.Negative{Agent: c.AgentB, From: c.MoveB.From, To: c.MoveB.To, Lo: c.LoB, Hi: c.HiB}
	return []childSpec{{agent: c.AgentA, negative: &na}, {agent: c.AgentB, negative: &nb}}
}

// targetSplit checks whether either participant is dwelling at its own
// goal while the other's remaining path passes through it, and if so
// returns the single deterministic constraint that breaks the symmetry
// instead of branching (spec.md §4.F).
func (s *search) targetSplit(n *hln, c conflict.Conflict) (childSpec, bool) {
	agentA := s.agents[c.AgentA]
	if m, ok := symmetry.DetectTarget(agentA.Goal, n.paths[c.AgentA].Duration(), n.paths[c.AgentB]); ok {
		neg := symmetry.Constraint(c.AgentB, m, n.paths[c.AgentA].Duration())
		return childSpec{agent: c.AgentB, negative: &neg}, true
	}
	agentB := s.agents[c.AgentB]
	if m, ok := symmetry.DetectTarget(agentB.Goal, n.paths[c.AgentB].Duration(), n.paths[c.AgentA]); ok {
		neg := symmetry.Constraint(c.AgentA, m, n.paths[c.AgentB].Duration())
		return childSpec{agent: c.AgentA, negative: &neg}, true
	}
	return childSpec{}, false
}

// disjointSplit builds the positive/negative pair of spec.md §4.H point 3:
// one child pins agent A to its conflicting move and propagates the
// equivalent negative constraint to every other agent whose current move
// would then collide with it; the other child is the standard negative
// constraint on A alone.
func (s *search) disjointSplit(n *hln, c conflict.Conflict) []childSpec {
	pos := constraints.Positive{Agent: c.AgentA, From: c.MoveA.From, To: c.MoveA.To, Start: c.MoveA.Start}
	propagated := s.propagatePositive(n, c.AgentA, c.MoveA)

	na := constraints.Negative{Agent: c.AgentA, From: c.MoveA.From, To: c.MoveA.To, Lo: c.LoA, Hi: c.HiA}
	return []childSpec{
		{agent: c.AgentA, positive: &pos, propagate: propagated},
		{agent: c.AgentA, negative: &na},
	}
}

func (s *search) propagatePositive(n *hln, fixedAgent roadmap.AgentID, fixedMove roadmap.Move) []constraints.Negative {
	fixed := toGeomMove(s.r, fixedMove)
	var out []constraints.Negative
	for agentID, path := range n.paths {
		if agentID == fixedAgent {
			continue
		}
		for _, m := range path {
			other := toGeomMove(s.r, m)
			if !geom.Collides(fixed, other, s.cfg.Radius) {
				continue
			}
			lo, hi, ok := geom.StartTimeWindow(fixed, other.From, other.To, other.End-other.Start, s.cfg.Radius)
			if !ok {
				continue
			}
			out = append(out, constraints.Negative{Agent: agentID, From: m.From, To: m.To, Lo: lo, Hi: hi})
		}
	}
	return out
}

func toGeomMove(r *roadmap.Roadmap, m roadmap.Move) geom.Move {
	return geom.Move{From: r.Vertices[m.From].Pos, To: r.Vertices[m.To].Pos, Start: m.Start, End: m.End}
}

// buildChild replans the affected agent(s) under the new constraint(s) and
// finalizes the resulting node, or reports infeasible (nil g treated as
// +Inf, per spec.md §7: SIPP failure is a prune signal, not an error).
func (s *search) buildChild(parent *hln, spec childSpec) (*hln, bool) {
	cs := parent.constraints
	if spec.negative != nil {
		cs = cs.WithNegative(*spec.negative)
	}
	if spec.positive != nil {
		var ok bool
		cs, ok = cs.WithPositive(*spec.positive)
		if !ok {
			return nil, false
		}
	}
	for _, neg := range spec.propagate {
		cs = cs.WithNegative(neg)
	}

	paths := copyPaths(parent.paths)
	toReplan := []roadmap.AgentID{spec.agent}
	for _, neg := range spec.propagate {
		toReplan = append(toReplan, neg.Agent)
	}
	for _, id := range toReplan {
		p, ok := s.plan(s.agents[id], cs)
		if !ok {
			return nil, false
		}
		paths[id] = p
	}

	n := &hln{
		idx: len(s.arena), parentIdx: parent.idx,
		constraints: cs, paths: paths,
		g: totalG(paths), depth: parent.depth + 1,
	}
	s.finish(n)
	s.arena = append(s.arena, n)
	return n, true
}

// finish computes a node's conflict set, classification (if the
// configuration needs it for branching or h), and h-value.
func (s *search) finish(n *hln) {
	n.conflicts = conflict.FindAll(s.r, n.paths, s.cfg.Radius)
	if len(n.conflicts) == 0 {
		n.h = 0
		return
	}

	if s.cfg.UseCardinal || s.cfg.HLHType != hvalue.TypeNone {
		for i := range n.conflicts {
			n.conflicts[i].Class = s.classify(n, n.conflicts[i])
		}
	}

	if s.cfg.HLHType == hvalue.TypeNone {
		n.h = 0
		return
	}
	var edges []hvalue.Edge
	for _, c := range n.conflicts {
		if c.Class != conflict.Cardinal {
			continue
		}
		da, db := s.delta(n, c)
		w := da
		if db < w {
			w = db
		}
		edges = append(edges, hvalue.Edge{A: c.AgentA, B: c.AgentB, Weight: w})
	}
	n.h = hvalue.Value(s.cfg.HLHType, edges)
}

func (s *search) classify(n *hln, c conflict.Conflict) conflict.Class {
	agentA, agentB := s.agents[c.AgentA], s.agents[c.AgentB]
	return conflict.Classify(s.r, s.gh, n.constraints, agentA, agentB, c, n.paths[c.AgentA].Duration(), n.paths[c.AgentB].Duration(), s.deadline, s.cfg.sippOptions())
}

// delta recomputes the two replanning cost deltas for a conflict (used by
// the h-value edge weight and by a learned scorer's observations).
func (s *search) delta(n *hln, c conflict.Conflict) (float64, float64) {
	agentA, agentB := s.agents[c.AgentA], s.agents[c.AgentB]
	dA := s.probeDelta(n, agentA, c.AgentA, c.MoveA, c.LoA, c.HiA)
	dB := s.probeDelta(n, agentB, c.AgentB, c.MoveB, c.LoB, c.HiB)
	return dA, dB
}

func (s *search) probeDelta(n *hln, agent roadmap.Agent, id roadmap.AgentID, move roadmap.Move, lo, hi float64) float64 {
	forbidding := n.constraints.WithNegative(constraints.Negative{Agent: id, From: move.From, To: move.To, Lo: lo, Hi: hi})
	s.lowLevelExp++
	tbl := safeinterval.Build(s.r, id, forbidding)
	p, err := sipp.Plan(s.r, s.gh, tbl, id, agent.Start, agent.Goal, s.deadline, s.cfg.sippOptions())
	if err != nil {
		return 1e18
	}
	d := p.Duration() - n.paths[id].Duration()
	if d < 0 {
		return 0
	}
	return d
}
