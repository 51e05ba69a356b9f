// Package geom implements the exact geometry kernel CCBS uses to decide
// whether two moving disks ever overlap, and to compute the maximal
// start-time interval of a candidate move that keeps a collision with a
// fixed move non-empty (spec.md §4.B).
package geom

import (
	"math"

	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Epsilon is the single tolerance used for every strict/non-strict time
// and distance comparison in the kernel (spec.md §4.B numeric policy).
const Epsilon = 1e-9

// Move is a single agent's traversal of edge From->To over [Start, End).
// A wait move has From == To.
type Move struct {
	From, To   roadmap.Point
	Start, End float64
}

func (m Move) duration() float64 { return m.End - m.Start }

func (m Move) velocity() roadmap.Point {
	d := m.duration()
	if d <= Epsilon {
		return roadmap.Point{}
	}
	disp := m.To.Sub(m.From)
	return roadmap.Point{X: disp.X / d, Y: disp.Y / d}
}

// positionAt returns the agent's position at local time t measured from
// m.Start (not clamped; callers restrict t to [0, duration]).
func (m Move) positionAt(t float64) roadmap.Point {
	v := m.velocity()
	return roadmap.Point{X: m.From.X + v.X*t, Y: m.From.Y + v.Y*t}
}

// Collides reports whether two disks of radius r collide at any instant in
// their shared time window, i.e. Overlap's [lo,hi) is non-empty.
func Collides(a, b Move, r float64) bool {
	_, _, ok := Overlap(a, b, r)
	return ok
}

// Overlap returns the maximal half-open sub-interval of
// [max(a.Start,b.Start), min(a.End,b.End)) during which the two disks of
// radius r overlap, i.e. the squared inter-center distance drops below
// (2r)^2. ok is false if the two moves never collide.
func Overlap(a, b Move, r float64) (lo, hi float64, ok bool) {
	winLo := math.Max(a.Start, b.Start)
	winHi := math.Min(a.End, b.End)
	if winHi-winLo <= -Epsilon {
		return 0, 0, false
	}

	// Sharing a vertex at overlapping times is always a collision
	// (case d, spec.md §4.B).
	if a.From == a.To && b.From == b.To && a.From == b.From {
		return winLo, winHi, true
	}

	threshold := 2 * r
	threshold2 := threshold * threshold

	// diff(t) = posA(t-a.Start) - posB(t-b.Start), affine in absolute t since
	// both starts are fixed here (unlike the start-time-search in
	// StartTimeWindow below).
	velA := a.velocity()
	velB := b.velocity()
	slope := roadmap.Point{X: velA.X - velB.X, Y: velA.Y - velB.Y}
	// intercept = diff(0)
	posA0 := a.positionAt(winLo - a.Start)
	posB0 := b.positionAt(winLo - b.Start)
	intercept := posA0.Sub(posB0)

	// dist2(s) = |intercept + s*slope|^2 for s = t - winLo in [0, winHi-winLo].
	A := slope.Dot(slope)
	B := 2 * intercept.Dot(slope)
	C := intercept.Dot(intercept)

	lo2, hi2, any := solveBelowThreshold(A, B, C-threshold2, 0, winHi-winLo)
	if !any {
		return 0, 0, false
	}
	return winLo + lo2, winLo + hi2, true
}

// StartTimeWindow answers the question in spec.md §4.B: fixing `fixed`,
// and given that the other agent would traverse otherFrom->otherTo over
// otherDuration starting at some unknown time tau, return the maximal
// half-open interval of tau for which the two disks would collide. This is
// the interval used to build a negative constraint on the other agent's
// directed edge (spec.md §3).
func StartTimeWindow(fixed Move, otherFrom, otherTo roadmap.Point, otherDuration, r float64) (lo, hi float64, ok bool) {
	if otherDuration <= Epsilon {
		// Other move is a wait at otherFrom: collision depends only on
		// distance from the fixed move's swept segment to a stationary
		// point, which is independent of the wait's start time. Either it
		// always collides across the fixed move's active window or never.
		d, hit := minDistToStationary(fixed, otherFrom)
		if hit && d < 2*r {
			return fixed.Start, fixed.End, true
		}
		return 0, 0, false
	}

	velA := fixed.velocity()
	P := fixed.From.Sub(otherFrom)                                                                                 // C0
	Q := roadmap.Point{X: (otherTo.X - otherFrom.X) / otherDuration, Y: (otherTo.Y - otherFrom.Y) / otherDuration} // velB
	K := roadmap.Point{X: velA.X - Q.X, Y: velA.Y - Q.Y}

	threshold2 := (2 * r) * (2 * r)
	k2 := K.Dot(K)

	var a2, a1, a0 float64
	if k2 > Epsilon {
		pq := P.Dot(Q)
		pk := P.Dot(K)
		qk := Q.Dot(K)
		a2 = Q.Dot(Q) - qk*qk/k2
		a1 = 2*pq - 2*pk*qk/k2
		a0 = P.Dot(P) - pk*pk/k2
	} else {
		// Relative velocity is ~0 over the whole window: the other agent's
		// position relative to the fixed move's sweep doesn't depend on t',
		// only on the start-time offset Delta.
		a2 = Q.Dot(Q)
		a1 = 2 * P.Dot(Q)
		a0 = P.Dot(P)
	}

	// Delta is only meaningful where the two moves' time windows can overlap
	// at all: the other move spans local time [Delta, Delta+otherDuration)
	// against the fixed move's [0, fixedDuration). Outside
	// (-otherDuration, fixedDuration) the two never share an instant, so no
	// distance test applies there regardless of how the quadratic evaluates
	// (this also keeps degenerate exactly-antiparallel cases, where the
	// unclamped minimum is identically below threshold for every Delta,
	// from producing an unbounded forbidden window).
	deltaWindowLo := -otherDuration
	deltaWindowHi := fixed.duration()
	if deltaWindowHi-deltaWindowLo <= Epsilon {
		return 0, 0, false
	}

	deltaLo, deltaHi, any := solveBelowThreshold(a2, a1, a0-threshold2, deltaWindowLo, deltaWindowHi)
	if !any {
		return 0, 0, false
	}
	return fixed.Start + deltaLo, fixed.Start + deltaHi, true
}

// minDistToStationary returns the minimum distance between a stationary
// point and the fixed move's swept segment, minimized over the fixed
// move's own active window.
func minDistToStationary(fixed Move, point roadmap.Point) (float64, bool) {
	dur := fixed.duration()
	if dur <= Epsilon {
		return fixed.From.Dist(point), true
	}
	vel := fixed.velocity()
	// f(t') = |fixed.From + t'*vel - point|^2 for t' in [0, dur].
	diff := fixed.From.Sub(point)
	A := vel.Dot(vel)
	B := 2 * diff.Dot(vel)
	if A <= Epsilon {
		return diff.Norm(), true
	}
	tStar := -B / (2 * A)
	if tStar < 0 {
		tStar = 0
	}
	if tStar > dur {
		tStar = dur
	}
	p := roadmap.Point{X: fixed.From.X + vel.X*tStar, Y: fixed.From.Y + vel.Y*tStar}
	return p.Dist(point), true
}

// solveBelowThreshold finds the maximal sub-interval of [lo,hi] on which
// a*x^2+b*x+c < 0, for a >= 0 (guaranteed by the PSD construction above).
func solveBelowThreshold(a, b, c, lo, hi float64) (rlo, rhi float64, ok bool) {
	if a <= Epsilon {
		// Linear (or constant) case.
		if math.Abs(b) <= Epsilon {
			if c < 0 {
				return lo, hi, true
			}
			return 0, 0, false
		}
		root := -c / b
		if b > 0 {
			// below threshold for x < root
			rhi := math.Min(hi, root)
			if rhi <= lo+Epsilon {
				return 0, 0, false
			}
			return lo, rhi, true
		}
		// b < 0: below threshold for x > root
		rlo := math.Max(lo, root)
		if rlo >= hi-Epsilon {
			return 0, 0, false
		}
		return rlo, hi, true
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	r1 := (-b - sq) / (2 * a)
	r2 := (-b + sq) / (2 * a)
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	rlo = math.Max(lo, r1)
	rhi = math.Min(hi, r2)
	if rhi <= rlo+Epsilon {
		return 0, 0, false
	}
	return rlo, rhi, true
}
