package fracture

import (
	"github.com/pkg/errors"
)

// applyConstraints inserts every constraint edge into the triangulation by
// flipping the diagonals of the edges that cross it.
func (c *ConstrainedTriangulator) applyConstraints() {
	c.visited = make([]bool, c.numTriangles)
	c.vertexTriangles = make([]int, c.n+3)
	for i := 0; i < c.numTriangles; i++ {
		t := &c.triangles[i]
		c.vertexTriangles[t[vert1]] = i
		c.vertexTriangles[t[vert2]] = i
		c.vertexTriangles[t[vert3]] = i
	}

	for _, constraint := range c.constraints {
		if constraint.V1 == constraint.V2 {
			continue
		}
		if constraint.V1 < 0 || constraint.V2 < 0 || constraint.V1 >= c.n || constraint.V2 >= c.n {
			c.warn(errors.Errorf("constraint out of range: %v", constraint))
			continue
		}
		c.edges = c.edges[:0]
		intersecting := c.findIntersectingEdges(constraint)
		c.removeIntersectingEdges(constraint, intersecting)
	}
}

// newEdge stores an edge in the edge table and returns its handle.
func (c *ConstrainedTriangulator) newEdge(e EdgeConstraint) int {
	c.edges = append(c.edges, e)
	return len(c.edges) - 1
}

// findIntersectingEdges walks from the first vertex of the constraint to the
// second, collecting every triangulation edge the constraint crosses.
func (c *ConstrainedTriangulator) findIntersectingEdges(constraint EdgeConstraint) []int {
	startEdge, ok := c.findStartingEdge(constraint)
	if !ok {
		return nil
	}
	intersecting := []int{c.newEdge(startEdge)}

	vi := c.points[constraint.V1].Coords
	vj := c.points[constraint.V2].Coords

	t := startEdge.T1
	edge := startEdge.T1Edge
	for iters := 0; ; iters++ {
		if iters > c.numTriangles {
			c.warn(errors.Wrapf(ErrSearchExhausted, "walk along constraint %v", constraint))
			break
		}
		lastTriangle := t
		t = c.triangles[t][edge]
		if t == outOfBounds {
			c.warn(errors.Errorf("constraint %v left the triangulation", constraint))
			break
		}
		if c.triangleContainsVertex(t, constraint.V2) {
			break
		}

		tri := &c.triangles[t]
		found := false
		for _, e := range [3]int{edge12, edge23, edge31} {
			if tri[e] == lastTriangle {
				continue
			}
			v1 := c.points[tri[edgeVertex1[e]]].Coords
			v2 := c.points[tri[edgeVertex2[e]]].Coords
			if linesIntersect(vi, vj, v1, v2) {
				edge = e
				intersecting = append(intersecting, c.newEdge(EdgeConstraint{
					V1:     tri[edgeVertex1[e]],
					V2:     tri[edgeVertex2[e]],
					T1:     t,
					T2:     tri[e],
					T1Edge: e,
				}))
				found = true
				break
			}
		}
		if !found {
			c.warn(errors.Errorf("no crossing edge for constraint %v in triangle %d",
				constraint, t))
			break
		}
	}
	return intersecting
}

// findStartingEdge finds the first edge crossed by the constraint, among the
// triangles that share the constraint's first vertex.
//
// It returns false if the constraint is already an edge of the triangulation.
func (c *ConstrainedTriangulator) findStartingEdge(constraint EdgeConstraint) (EdgeConstraint,
	bool) {
	for i := range c.visited {
		c.visited[i] = false
	}

	t := c.vertexTriangles[constraint.V1]
	for {
		c.visited[t] = true
		if c.triangleContainsConstraint(t, constraint) {
			return EdgeConstraint{}, false
		}
		if e, ok := c.edgeConstraintIntersectsTriangle(t, constraint); ok {
			tri := &c.triangles[t]
			return EdgeConstraint{
				V1:     tri[edgeVertex1[e]],
				V2:     tri[edgeVertex2[e]],
				T1:     t,
				T2:     tri[e],
				T1Edge: e,
			}, true
		}

		// Circle around the first vertex.
		next := outOfBounds
		tri := &c.triangles[t]
		for _, e := range [3]int{edge12, edge23, edge31} {
			neighbor := tri[e]
			if neighbor != outOfBounds && !c.visited[neighbor] &&
				c.triangleContainsVertex(neighbor, constraint.V1) {
				next = neighbor
				break
			}
		}
		if next == outOfBounds {
			c.warn(errors.Wrapf(ErrSearchExhausted, "find start of constraint %v", constraint))
			return EdgeConstraint{}, false
		}
		t = next
	}
}

// edgeConstraintIntersectsTriangle finds the edge of t crossed by the
// constraint, if any.
func (c *ConstrainedTriangulator) edgeConstraintIntersectsTriangle(t int,
	constraint EdgeConstraint) (int, bool) {
	vi := c.points[constraint.V1].Coords
	vj := c.points[constraint.V2].Coords
	tri := &c.triangles[t]
	for _, e := range [3]int{edge12, edge23, edge31} {
		v1 := c.points[tri[edgeVertex1[e]]].Coords
		v2 := c.points[tri[edgeVertex2[e]]].Coords
		if linesIntersect(vi, vj, v1, v2) {
			return e, true
		}
	}
	return 0, false
}

func (c *ConstrainedTriangulator) triangleContainsVertex(t, v int) bool {
	if t == outOfBounds {
		return false
	}
	tri := &c.triangles[t]
	return tri[vert1] == v || tri[vert2] == v || tri[vert3] == v
}

func (c *ConstrainedTriangulator) triangleContainsConstraint(t int,
	constraint EdgeConstraint) bool {
	if t >= c.numTriangles {
		return false
	}
	return c.triangleContainsVertex(t, constraint.V1) &&
		c.triangleContainsVertex(t, constraint.V2)
}

// removeIntersectingEdges flips the queued edges until none of them cross
// the constraint, then restores the Delaunay property around the new edges.
func (c *ConstrainedTriangulator) removeIntersectingEdges(constraint EdgeConstraint,
	intersecting []int) {
	vi := c.points[constraint.V1].Coords
	vj := c.points[constraint.V2].Coords

	var newEdges []int
	maxIters := len(c.triangles) * len(c.triangles)
	counter := 0
	for iters := 0; len(intersecting) > 0 && counter <= len(intersecting); iters++ {
		if iters > maxIters {
			break
		}
		h := intersecting[0]
		intersecting = intersecting[1:]
		edge := c.edges[h]

		q, ok := c.findQuadFromSharedEdge(edge.T1, edge.T1Edge)
		if ok {
			// Flipping is only valid if the quad is convex, i.e. its
			// diagonals cross. Otherwise the edge is retried later.
			if isQuadConvex(c.points[q.q4].Coords, c.points[q.q3].Coords,
				c.points[q.q1].Coords, c.points[q.q2].Coords) {
				c.swapQuadDiagonal(q, intersecting, newEdges)
				flipped := c.newEdge(EdgeConstraint{
					V1:     q.q3,
					V2:     q.q4,
					T1:     q.t1,
					T2:     q.t2,
					T1Edge: edge31,
				})
				if linesIntersect(vi, vj, c.points[q.q3].Coords, c.points[q.q4].Coords) {
					intersecting = append(intersecting, flipped)
				} else {
					counter = 0
					newEdges = append(newEdges, flipped)
				}
			} else {
				intersecting = append(intersecting, h)
			}
		}
		counter++
	}
	if len(intersecting) > 0 {
		c.warn(errors.Wrapf(ErrSearchExhausted, "remove %d edges crossing constraint %v",
			len(intersecting), constraint))
	}

	if len(newEdges) > 0 {
		c.restoreConstrainedDelaunayTriangulation(newEdges)
	}
}

// restoreConstrainedDelaunayTriangulation flips the newly created edges until
// they satisfy the Delaunay condition. Constraint edges are never flipped.
func (c *ConstrainedTriangulator) restoreConstrainedDelaunayTriangulation(newEdges []int) {
	maxPasses := len(newEdges) * len(newEdges)
	if maxPasses < 16 {
		maxPasses = 16
	}
	swapped := true
	for pass := 0; swapped; pass++ {
		if pass >= maxPasses {
			c.warn(errors.Wrapf(ErrSearchExhausted, "legalize %d constrained edges",
				len(newEdges)))
			return
		}
		swapped = false
		for i, h := range newEdges {
			edge := c.edges[h]
			if c.constraintSet[edge.Key()] {
				continue
			}
			q, ok := c.findQuadFromSharedEdge(edge.T1, edge.T1Edge)
			if !ok {
				continue
			}
			if swapTest(c.points[q.q1].Coords, c.points[q.q2].Coords,
				c.points[q.q3].Coords, c.points[q.q4].Coords) {
				c.swapQuadDiagonal(q, newEdges)
				newEdges[i] = c.newEdge(EdgeConstraint{
					V1:     q.q3,
					V2:     q.q4,
					T1:     q.t1,
					T2:     q.t2,
					T1Edge: edge31,
				})
				swapped = true
			}
		}
	}
}

// findQuadFromSharedEdge builds the quad formed by t1 and the triangle
// across the given edge of t1.
func (c *ConstrainedTriangulator) findQuadFromSharedEdge(t1, t1SharedEdge int) (quad, bool) {
	if t1 == outOfBounds {
		return quad{}, false
	}
	t2 := c.triangles[t1][t1SharedEdge]
	t2SharedEdge, ok := c.findSharedEdge(t2, t1)
	if !ok {
		return quad{}, false
	}
	tri1 := &c.triangles[t1]
	tri2 := &c.triangles[t2]

	var q quad
	switch t2SharedEdge {
	case edge12:
		q.q1, q.q2, q.q3 = tri2[vert2], tri2[vert1], tri2[vert3]
	case edge23:
		q.q1, q.q2, q.q3 = tri2[vert3], tri2[vert2], tri2[vert1]
	default:
		q.q1, q.q2, q.q3 = tri2[vert1], tri2[vert3], tri2[vert2]
	}
	q.q4 = tri1[oppositePoint[t1SharedEdge]]
	q.t1 = t1
	q.t2 = t2
	q.t1L = tri1[previousEdge[t1SharedEdge]]
	q.t1R = tri1[nextEdge[t1SharedEdge]]
	q.t2L = tri2[nextEdge[t2SharedEdge]]
	q.t2R = tri2[previousEdge[t2SharedEdge]]
	return q, true
}

// swapQuadDiagonal replaces the diagonal q1-q2 of a quad with q3-q4.
//
// Every handle in edgeLists which refers to one of the affected triangles is
// updated to keep describing the same edge.
func (c *ConstrainedTriangulator) swapQuadDiagonal(q quad, edgeLists ...[]int) {
	c.triangles[q.t1] = [6]int{q.q4, q.q1, q.q3, q.t1L, q.t2L, q.t2}
	c.triangles[q.t2] = [6]int{q.q4, q.q3, q.q2, q.t1, q.t2R, q.t1R}

	c.updateAdjacency(q.t2L, q.t2, q.t1)
	c.updateAdjacency(q.t1R, q.t1, q.t2)

	for _, list := range edgeLists {
		for _, h := range list {
			c.updateEdgeAfterSwap(&c.edges[h], q)
		}
	}

	c.vertexTriangles[q.q1] = q.t1
	c.vertexTriangles[q.q2] = q.t2
}

// updateEdgeAfterSwap fixes the triangle references of an edge after the
// quad's diagonal was swapped.
func (c *ConstrainedTriangulator) updateEdgeAfterSwap(edge *EdgeConstraint, q quad) {
	switch {
	case edge.T1 == q.t1 && edge.T2 == q.t1R:
		edge.T1 = q.t2
		edge.T2 = q.t1R
		edge.T1Edge = edge31
	case edge.T1 == q.t1 && edge.T2 == q.t1L:
		edge.T1Edge = edge12
	case edge.T1 == q.t1R && edge.T2 == q.t1:
		edge.T2 = q.t2
	case edge.T1 == q.t2 && edge.T2 == q.t2R:
		edge.T1Edge = edge23
	case edge.T1 == q.t2 && edge.T2 == q.t2L:
		edge.T1 = q.t1
		edge.T2 = q.t2L
		edge.T1Edge = edge23
	case edge.T1 == q.t2L && edge.T2 == q.t2:
		edge.T2 = q.t1
	}
}

// discardTrianglesViolatingConstraints keeps only the triangles reachable
// from a constraint edge without crossing any other constraint edge.
//
// A triangle seeds the search if it traverses a constraint in the
// constraint's own direction, which places it inside the bounded region.
func (c *ConstrainedTriangulator) discardTrianglesViolatingConstraints() {
	for i := range c.skip {
		c.skip[i] = true
	}
	boundaries := map[[2]int]bool{}
	for _, constraint := range c.constraints {
		boundaries[[2]int{constraint.V1, constraint.V2}] = true
	}
	for i := range c.visited {
		c.visited[i] = false
	}

	isBoundary := func(t, e int) bool {
		tri := &c.triangles[t]
		return boundaries[[2]int{tri[edgeVertex1[e]], tri[edgeVertex2[e]]}]
	}

	var frontier []int
	for i := 0; i < c.numTriangles; i++ {
		if c.visited[i] {
			continue
		}
		if !isBoundary(i, edge12) && !isBoundary(i, edge23) && !isBoundary(i, edge31) {
			continue
		}
		c.visited[i] = true
		c.skip[i] = false
		frontier = append(frontier[:0], i)
		for len(frontier) > 0 {
			t := frontier[len(frontier)-1]
			frontier = frontier[:len(frontier)-1]
			for _, e := range [3]int{edge12, edge23, edge31} {
				if isBoundary(t, e) {
					continue
				}
				neighbor := c.triangles[t][e]
				if neighbor != outOfBounds && !c.visited[neighbor] {
					c.visited[neighbor] = true
					c.skip[neighbor] = false
					frontier = append(frontier, neighbor)
				}
			}
		}
	}
}

func (c *ConstrainedTriangulator) discardTrianglesWithSuperTriangleVertices() {
	for i := 0; i < c.numTriangles; i++ {
		if c.triangleContainsVertex(i, c.n) ||
			c.triangleContainsVertex(i, c.n+1) ||
			c.triangleContainsVertex(i, c.n+2) {
			c.skip[i] = true
		}
	}
}
