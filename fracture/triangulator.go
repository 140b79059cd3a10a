package fracture

import (
	"log"
	"math"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// ErrSearchExhausted is reported when a search through the triangulation
// fails to terminate within its iteration limit. The affected point or edge
// is skipped, leaving a best-effort triangulation.
var ErrSearchExhausted = errors.New("search exhausted")

// Columns of a triangle row. Edge E12 runs from V1 to V2, and its entry holds
// the triangle on the other side of that edge.
const (
	vert1 = iota
	vert2
	vert3
	edge12
	edge23
	edge31
)

const (
	superTriangle = 0
	outOfBounds   = -1
)

// Lookup tables indexed by edge column.
var (
	edgeVertex1   = [6]int{0, 0, 0, vert1, vert2, vert3}
	edgeVertex2   = [6]int{0, 0, 0, vert2, vert3, vert1}
	oppositePoint = [6]int{0, 0, 0, vert3, vert1, vert2}
	nextEdge      = [6]int{0, 0, 0, edge23, edge31, edge12}
	previousEdge  = [6]int{0, 0, 0, edge31, edge12, edge23}
)

// Triangulate computes a constrained Delaunay triangulation of coplanar
// points.
//
// The constraints bound the region to triangulate: only triangles inside the
// boundary they form are returned. Each constraint should be directed so that
// triangles inside the region traverse it from V1 to V2 when wound
// counter-clockwise about -normal. Without constraints, the convex hull is
// triangulated.
//
// The result holds index triples into points. If the points do not span an
// area, the result is empty.
func Triangulate(points []model3d.Coord3D, constraints []EdgeConstraint,
	normal model3d.Coord3D) []int {
	return NewConstrainedTriangulator(points, constraints, normal).Triangulate()
}

// A ConstrainedTriangulator holds the state of a single triangulation.
//
// Triangles are stored in a flat table of rows [V1, V2, V3, E12, E23, E31].
// The super-triangle occupies row 0, and boundary edges are marked with -1.
type ConstrainedTriangulator struct {
	// ScaleFactor is the factor that projected coordinates were divided by
	// to fit them into the unit square.
	ScaleFactor float64

	// Warnings collects recoverable search failures.
	Warnings []error

	// Verbose, if true, logs warnings as they occur.
	Verbose bool

	n            int
	numTriangles int
	triangles    [][6]int
	points       []triangulationPoint
	skip         []bool

	constraints   []EdgeConstraint
	constraintSet map[[2]int]bool

	vertexTriangles []int
	visited         []bool

	// edges backs the edge handles used while enforcing constraints, so that
	// several lists of edges observe every diagonal swap.
	edges []EdgeConstraint
}

// NewConstrainedTriangulator projects points onto the plane with the given
// normal and prepares them for triangulation.
func NewConstrainedTriangulator(points []model3d.Coord3D, constraints []EdgeConstraint,
	normal model3d.Coord3D) *ConstrainedTriangulator {
	res := &ConstrainedTriangulator{
		ScaleFactor: 1,
		constraints: append([]EdgeConstraint{}, constraints...),
	}
	if len(points) < 3 {
		return res
	}

	// The first in-plane edge of the input defines one basis vector.
	var e1 model3d.Coord3D
	for _, p := range points[1:] {
		if p != points[0] {
			e1 = points[0].Sub(p).Normalize()
			break
		}
	}
	e3 := e1.Cross(normal.Normalize())
	if norm := e3.Norm(); norm == 0 || math.IsNaN(norm) {
		return res
	}
	e3 = e3.Normalize()

	res.n = len(points)
	res.triangles = make([][6]int, 2*res.n+1)
	res.skip = make([]bool, len(res.triangles))
	res.points = make([]triangulationPoint, res.n+3)
	for i, p := range points {
		res.points[i] = triangulationPoint{
			Coords: model2d.XY(p.Dot(e1), p.Dot(e3)),
			Index:  i,
		}
	}

	res.constraintSet = map[[2]int]bool{}
	for _, c := range res.constraints {
		if c.V1 != c.V2 {
			res.constraintSet[c.Key()] = true
		}
	}
	return res
}

// PlaneCoords gets the 2D coordinates of each input point on the
// triangulation plane, translated so that the minimum is at the origin.
//
// This should be called after Triangulate.
func (c *ConstrainedTriangulator) PlaneCoords() []model2d.Coord {
	res := make([]model2d.Coord, c.n)
	for i := range res {
		res[i] = c.points[i].Coords.Scale(c.ScaleFactor)
	}
	return res
}

// Triangulate runs the triangulation and returns index triples into the
// input points.
func (c *ConstrainedTriangulator) Triangulate() []int {
	if c.n < 3 {
		return []int{}
	}

	c.addSuperTriangle()
	if !c.normalizeCoordinates() || c.isCollinear() {
		return []int{}
	}
	c.computeTriangulation()

	if len(c.constraints) > 0 {
		c.applyConstraints()
		c.discardTrianglesViolatingConstraints()
	}
	c.discardTrianglesWithSuperTriangleVertices()
	return c.indices()
}

// indices lists the vertices of every triangle that was not discarded.
func (c *ConstrainedTriangulator) indices() []int {
	res := make([]int, 0, 3*c.numTriangles)
	for i := 0; i < c.numTriangles; i++ {
		if !c.skip[i] {
			t := &c.triangles[i]
			res = append(res, t[vert1], t[vert2], t[vert3])
		}
	}
	return res
}

func (c *ConstrainedTriangulator) addSuperTriangle() {
	n := c.n
	c.points[n] = triangulationPoint{Coords: model2d.XY(-100, -100), Index: n}
	c.points[n+1] = triangulationPoint{Coords: model2d.XY(0, 100), Index: n + 1}
	c.points[n+2] = triangulationPoint{Coords: model2d.XY(100, -100), Index: n + 2}

	c.triangles[superTriangle] = [6]int{n, n + 1, n + 2, outOfBounds, outOfBounds, outOfBounds}
	c.numTriangles = 1
}

// normalizeCoordinates maps the input points into the unit square.
// It returns false if the points have no extent.
func (c *ConstrainedTriangulator) normalizeCoordinates() bool {
	min := model2d.XY(math.Inf(1), math.Inf(1))
	max := model2d.XY(math.Inf(-1), math.Inf(-1))
	for _, p := range c.points[:c.n] {
		min = min.Min(p.Coords)
		max = max.Max(p.Coords)
	}
	size := max.Sub(min)
	c.ScaleFactor = math.Max(size.X, size.Y)
	if !(c.ScaleFactor > 0) || math.IsInf(c.ScaleFactor, 0) {
		c.ScaleFactor = 1
		return false
	}
	for i := range c.points[:c.n] {
		p := &c.points[i]
		p.Coords = p.Coords.Sub(min).Scale(1 / c.ScaleFactor)
	}
	return true
}

// isCollinear checks if the normalized points enclose no area.
func (c *ConstrainedTriangulator) isCollinear() bool {
	const epsilon = 1e-12
	origin := c.points[0].Coords
	var far model2d.Coord
	var farDist float64
	for _, p := range c.points[1:c.n] {
		if d := p.Coords.Dist(origin); d > farDist {
			far, farDist = p.Coords.Sub(origin), d
		}
	}
	for _, p := range c.points[1:c.n] {
		d := p.Coords.Sub(origin)
		if math.Abs(far.X*d.Y-far.Y*d.X) > epsilon {
			return false
		}
	}
	return true
}

func (c *ConstrainedTriangulator) computeTriangulation() {
	tSearch := 0
	tLast := 0

	sorted := sortPointsIntoBins(c.points, c.n)
	for _, p := range sorted[:c.n] {
		// Walk towards the point until we find a triangle containing it.
		// Triangles are wound clockwise, so the point must be on the right
		// side of all three edges.
		inserted := false
		for counter := 0; !inserted; counter++ {
			if counter > tLast || tSearch == outOfBounds {
				break
			}
			t := &c.triangles[tSearch]
			v1 := c.points[t[vert1]].Coords
			v2 := c.points[t[vert2]].Coords
			v3 := c.points[t[vert3]].Coords
			if !isPointOnRightSideOfLine(v1, v2, p.Coords) {
				tSearch = t[edge12]
			} else if !isPointOnRightSideOfLine(v2, v3, p.Coords) {
				tSearch = t[edge23]
			} else if !isPointOnRightSideOfLine(v3, v1, p.Coords) {
				tSearch = t[edge31]
			} else {
				c.insertPointIntoTriangle(p, tSearch, tLast)
				tLast += 2
				tSearch = tLast
				inserted = true
			}
		}
		if !inserted {
			c.warn(errors.Wrapf(ErrSearchExhausted, "locate point %d", p.Index))
			tSearch = tLast
		}
	}
	c.numTriangles = tLast + 1
}

// insertPointIntoTriangle splits triangle t into three triangles which share
// the point p as their first vertex. The two new triangles are stored after
// row lastTriangle.
//
//	                 V1
//	                 *
//	                /|\
//	               /3|2\
//	              /  |  \
//	             /   |   \
//	            /    |    \
//	           /  t1 | t3  \
//	          /      |      \
//	         /     1 * 1     \
//	        /     __/1\__     \
//	       /   __/       \__   \
//	      / 2_/     t2      \_3 \
//	     / /3                 2\ \
//	    *-------------------------*
//	  V3                           V2
func (c *ConstrainedTriangulator) insertPointIntoTriangle(p triangulationPoint, t,
	lastTriangle int) {
	t1 := t
	t2 := lastTriangle + 1
	t3 := lastTriangle + 2
	old := c.triangles[t]

	c.triangles[t2] = [6]int{p.Index, old[vert2], old[vert3], t3, old[edge23], t1}
	c.triangles[t3] = [6]int{p.Index, old[vert1], old[vert2], t1, old[edge12], t2}
	c.updateAdjacency(old[edge12], t, t3)
	c.updateAdjacency(old[edge23], t, t2)
	c.triangles[t1] = [6]int{p.Index, old[vert3], old[vert1], t2, old[edge31], t3}

	c.restoreDelaunayTriangulation(p.Index, t1, t2, t3)
}

// updateAdjacency replaces tOld with tNew in the adjacency of triangle t.
func (c *ConstrainedTriangulator) updateAdjacency(t, tOld, tNew int) {
	if t == outOfBounds {
		return
	}
	if edge, ok := c.findSharedEdge(t, tOld); ok {
		c.triangles[t][edge] = tNew
	}
}

// findSharedEdge finds the edge column of tOrigin which borders tAdjacent.
func (c *ConstrainedTriangulator) findSharedEdge(tOrigin, tAdjacent int) (int, bool) {
	if tOrigin == outOfBounds {
		return 0, false
	}
	t := &c.triangles[tOrigin]
	for _, edge := range [3]int{edge12, edge23, edge31} {
		if t[edge] == tAdjacent {
			return edge, true
		}
	}
	return 0, false
}

// restoreDelaunayTriangulation flips edges around a newly inserted point
// until every triangle touching it satisfies the Delaunay condition.
func (c *ConstrainedTriangulator) restoreDelaunayTriangulation(p, t1, t2, t3 int) {
	type pair struct {
		T1, T2 int
	}
	stack := []pair{
		{t1, c.triangles[t1][edge23]},
		{t2, c.triangles[t2][edge23]},
		{t3, c.triangles[t3][edge23]},
	}
	maxIters := 4 * len(c.triangles)
	for iters := 0; len(stack) > 0; iters++ {
		if iters > maxIters {
			c.warn(errors.Wrapf(ErrSearchExhausted, "legalize around point %d", p))
			return
		}
		// t1 contains p as V1, and t2 borders t1 along the edge opposite p.
		next := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if next.T2 == outOfBounds {
			continue
		}
		if t3, t4, ok := c.swapQuadDiagonalIfNeeded(p, next.T1, next.T2); ok {
			stack = append(stack, pair{next.T1, t3}, pair{next.T2, t4})
		}
	}
}

// swapQuadDiagonalIfNeeded swaps the diagonal of the quad formed by t1 and t2
// if p lies within the circumcircle of t2. The point p must be V1 of t1.
//
// On a swap, both triangles keep p as V1, and t3 and t4 are the triangles
// that now border t1 and t2 opposite p.
//
//	            BEFORE                          AFTER
//
//	              q3                              q3
//	 *-------------*-------------*  *-------------*-------------*
//	  \           / \           /    \           /|\           /
//	   \   t3    /   \   t4    /      \   t3    /3|2\   t4    /
//	    \       /     \       /        \       /  |  \       /
//	     \     /       \     /          \     /   |   \     /
//	      \   /   t2    \   /            \   /    |    \   /
//	       \ /           \ /              \ /     |     \ /
//	     q1 *-------------* q2          q1 * 2 t1 | t2 3 * q2
//	         \2         3/                  \     |     /
//	          \         /                    \    |    /
//	           \  t1   /                      \   |   /
//	            \     /                        \  |  /
//	             \   /                          \1|1/
//	              \1/                            \|/
//	               * q4 == p                      * q4 == p
func (c *ConstrainedTriangulator) swapQuadDiagonalIfNeeded(p, t1, t2 int) (t3, t4 int,
	swapped bool) {
	q4 := p
	var q1, q2, q3 int
	tri2 := c.triangles[t2]
	if tri2[edge12] == t1 {
		q1, q2, q3 = tri2[vert2], tri2[vert1], tri2[vert3]
		t3, t4 = tri2[edge23], tri2[edge31]
	} else if tri2[edge23] == t1 {
		q1, q2, q3 = tri2[vert3], tri2[vert2], tri2[vert1]
		t3, t4 = tri2[edge31], tri2[edge12]
	} else {
		q1, q2, q3 = tri2[vert1], tri2[vert3], tri2[vert2]
		t3, t4 = tri2[edge12], tri2[edge23]
	}

	if !swapTest(c.points[q1].Coords, c.points[q2].Coords, c.points[q3].Coords,
		c.points[q4].Coords) {
		return t3, t4, false
	}

	c.updateAdjacency(t3, t2, t1)
	c.updateAdjacency(c.triangles[t1][edge31], t1, t2)

	t1Edge31 := c.triangles[t1][edge31]
	c.triangles[t1][vert1], c.triangles[t1][vert2], c.triangles[t1][vert3] = q4, q1, q3
	c.triangles[t2] = [6]int{q4, q3, q2, t1, t4, t1Edge31}
	c.triangles[t1][edge23] = t3
	c.triangles[t1][edge31] = t2
	return t3, t4, true
}

// swapTest checks if v4 lies inside the circumcircle of v1, v2, v3, where
// v1->v2 is the diagonal of the quad v1, v4, v2, v3.
//
// The test compares the angles at v3 and v4 through their cosines and sines,
// which avoids computing a circumradius for nearly collinear points.
func swapTest(v1, v2, v3, v4 model2d.Coord) bool {
	x13 := v1.X - v3.X
	x23 := v2.X - v3.X
	y13 := v1.Y - v3.Y
	y23 := v2.Y - v3.Y
	x14 := v1.X - v4.X
	x24 := v2.X - v4.X
	y14 := v1.Y - v4.Y
	y24 := v2.Y - v4.Y

	cosA := x13*x23 + y13*y23
	cosB := x24*x14 + y24*y14
	if cosA >= 0 && cosB >= 0 {
		return false
	} else if cosA < 0 && cosB < 0 {
		return true
	}
	sinA := x13*y23 - x23*y13
	sinB := x24*y14 - x14*y24
	return sinA*cosB+sinB*cosA < 0
}

func (c *ConstrainedTriangulator) warn(err error) {
	c.Warnings = append(c.Warnings, err)
	if c.Verbose {
		log.Printf("triangulate: %v", err)
	}
}
