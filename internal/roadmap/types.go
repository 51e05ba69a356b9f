// Package roadmap defines the graph model CCBS plans over: vertices carry
// 2-D coordinates, edges carry a fixed traversal duration, and a stable
// per-vertex neighbor order is precomputed for low-level tie-breaking.
package roadmap

import "math"

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length of p.
func (p Point) Norm() float64 { return math.Sqrt(p.Dot(p)) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Norm() }

// VertexID is a unique vertex identifier.
type VertexID int

// Vertex is a location on the roadmap.
type Vertex struct {
	ID  VertexID
	Pos Point
}

// Edge connects two vertices; Duration is the fixed traversal time at unit
// speed (Euclidean distance between the endpoints).
type Edge struct {
	From, To VertexID
	Duration float64
}

// AgentID is a unique agent identifier.
type AgentID int

// Agent is a disk of radius Radius moving from Start to Goal at unit speed.
// The radius is shared across all agents in an instance (spec.md §3); it is
// kept per-agent here only so call sites don't need a side channel, and
// every agent in a well-formed instance carries the same value.
type Agent struct {
	ID     AgentID
	Start  VertexID
	Goal   VertexID
	Radius float64
}

// Move is a single agent's traversal of edge From->To over [Start, End)
// (spec.md §3). A wait move has From == To and arbitrary positive duration.
type Move struct {
	Agent      AgentID
	From, To   VertexID
	Start, End float64
}

// IsWait reports whether m is a wait move.
func (m Move) IsWait() bool { return m.From == m.To }

// Path is one agent's ordered, temporally contiguous sequence of moves,
// beginning at its start vertex at t=0 and ending at its goal vertex.
type Path []Move

// Duration returns the path's total elapsed time (its flowtime
// contribution), i.e. the End of its last move.
func (p Path) Duration() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].End
}
