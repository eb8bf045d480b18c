// Package geometry provides the 2D vector and segment primitives that the
// routing engine builds on: closest-point projection and segment/disc
// intersection tests.
//
// Points are represented with gonum's r2.Vec rather than a hand-rolled
// struct, since the rest of the module already depends on gonum for
// plotting.
package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Point is a position or displacement in the plane.
type Point = r2.Vec

// Seg is a directed line segment from A to B.
type Seg struct {
	A, B Point
}

func sub(p, q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func add(p, q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func scale(f float64, p Point) Point { return Point{X: f * p.X, Y: f * p.Y} }
func dot(p, q Point) float64 { return p.X*q.X + p.Y*q.Y }

// Norm returns the Euclidean length of p.
func Norm(p Point) float64 { return r2.Norm(p) }

// Normalize returns p scaled to unit length. The zero vector is returned
// unchanged.
func Normalize(p Point) Point {
	n := Norm(p)
	if n == 0 {
		return p
	}
	return scale(1/n, p)
}

// Perp returns p rotated ninety degrees counter-clockwise.
func Perp(p Point) Point {
	return Point{X: -p.Y, Y: p.X}
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return Norm(sub(p, q))
}

// Lerp returns the point a fraction t of the way from a to b.
func Lerp(a, b Point, t float64) Point {
	return add(a, scale(t, sub(b, a)))
}

// ClosestPointOnSegment projects p onto the segment a-b, clamping the
// parameter to [0, 1], and returns the closest point together with that
// clamped parameter.
func ClosestPointOnSegment(a, b, p Point) (closest Point, t float64) {
	ab := sub(b, a)
	denom := dot(ab, ab)
	if denom == 0 {
		return a, 0
	}
	t = dot(sub(p, a), ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return add(a, scale(t, ab)), t
}

// DistanceToSegment returns the shortest distance from p to the segment
// a-b, along with the parameter t of the closest point.
func DistanceToSegment(a, b, p Point) (dist, t float64) {
	closest, t := ClosestPointOnSegment(a, b, p)
	return Distance(p, closest), t
}

// SegmentHitsDisc reports whether the segment a-b passes within radius of
// center, using the distance from the closest point on the segment to the
// center. This is an approximation of true entry/exit parametrization: it
// answers "does the segment ever get this close" rather than solving the
// quadratic for exact entry and exit parameters. That is sufficient for
// detour planning, where only the fact and the closest approach point
// matter.
func SegmentHitsDisc(a, b, center Point, radius float64) (hit bool, closest Point, t, dist float64) {
	closest, t = ClosestPointOnSegment(a, b, center)
	dist = Distance(closest, center)
	return dist < radius, closest, t, dist
}
