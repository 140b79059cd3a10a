package fracture

import (
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// isAbovePlane checks if p is on the positive side of the plane through o with
// normal n. Points on the plane count as above.
func isAbovePlane(p, n, o model3d.Coord3D) bool {
	return n.Dot(p.Sub(o)) >= 0
}

// linePlaneIntersection finds where the segment a->b crosses the plane with
// normal n through p0.
//
// The returned s is the fraction of the way from a to b.
// If the segment doesn't touch the plane, ok is false.
func linePlaneIntersection(a, b, n, p0 model3d.Coord3D) (x model3d.Coord3D, s float64, ok bool) {
	if a == b || n == (model3d.Coord3D{}) {
		return
	}
	s = p0.Sub(a).Dot(n) / b.Sub(a).Dot(n)
	if s >= 0 && s <= 1 {
		return a.Add(b.Sub(a).Scale(s)), s, true
	}
	return
}

// linesIntersect checks if the segments a1->a2 and b1->b2 cross.
// Segments which share an endpoint are not considered intersecting.
func linesIntersect(a1, a2, b1, b2 model2d.Coord) bool {
	return segmentsIntersect(a1, a2, b1, b2, false)
}

// isQuadConvex checks if the diagonals a1->a2 and b1->b2 of a quad cross,
// treating shared endpoints as a crossing.
func isQuadConvex(a1, a2, b1, b2 model2d.Coord) bool {
	return segmentsIntersect(a1, a2, b1, b2, true)
}

func segmentsIntersect(a1, a2, b1, b2 model2d.Coord, includeSharedEndpoints bool) bool {
	if a1 == b1 || a1 == b2 || a2 == b1 || a2 == b2 {
		return includeSharedEndpoints
	}
	a12 := a2.Sub(a1)
	b12 := b2.Sub(b1)

	a1xb := (a1.X-b1.X)*b12.Y - (a1.Y-b1.Y)*b12.X
	a2xb := (a2.X-b1.X)*b12.Y - (a2.Y-b1.Y)*b12.X
	b1xa := (b1.X-a1.X)*a12.Y - (b1.Y-a1.Y)*a12.X
	b2xa := (b2.X-a1.X)*a12.Y - (b2.Y-a1.Y)*a12.X

	return ((a1xb >= 0 && a2xb <= 0) || (a1xb <= 0 && a2xb >= 0)) &&
		((b1xa >= 0 && b2xa <= 0) || (b1xa <= 0 && b2xa >= 0))
}

// isPointOnRightSideOfLine checks if c is to the right of (or on) the line
// running from a to b.
func isPointOnRightSideOfLine(a, b, c model2d.Coord) bool {
	return (b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X) <= 0
}
