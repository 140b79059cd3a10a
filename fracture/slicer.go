package fracture

import (
	"log"

	"github.com/unixpickle/model3d/model3d"
)

// A Slicer cuts meshes into two pieces along a plane.
type Slicer struct {
	// Verbose, if true, logs problems encountered while triangulating the
	// cut faces.
	Verbose bool
}

// Slice cuts a mesh along a plane using a default Slicer.
func Slice(m *MeshData, normal, origin model3d.Coord3D) (top, bottom *MeshData) {
	return (&Slicer{}).Slice(m, normal, origin)
}

// SliceMesh cuts an indexed mesh along a plane.
//
// The first result is the part on the side that normal points to.
func SliceMesh(m *Mesh, normal, origin model3d.Coord3D) (above, below *Mesh) {
	top, bottom := Slice(NewMeshData(m), normal, origin)
	return top.ToMesh(), bottom.ToMesh()
}

// Slice cuts m along the plane through origin with the given normal.
//
// Triangles which cross the plane are split, and the hole left in each half is
// filled with a triangulated cap in the CutSubmesh. Vertices exactly on the
// plane belong to the top half.
//
// If normal is zero, the top half receives the entire mesh.
func (s *Slicer) Slice(m *MeshData, normal, origin model3d.Coord3D) (top, bottom *MeshData) {
	top = newMeshData(m.VertexCount(), m.TriangleIndexCount())
	bottom = newMeshData(m.VertexCount(), m.TriangleIndexCount())

	side := make([]bool, m.VertexCount())
	for i := range side {
		v := m.Vertex(i)
		side[i] = isAbovePlane(v.Position, normal, origin)
		if side[i] {
			top.AddMappedVertex(v, i)
		} else {
			bottom.AddMappedVertex(v, i)
		}
	}

	for submesh := range m.Triangles {
		splitTriangles(m, top, bottom, normal, origin, side, submesh)
	}

	// The normal points towards the top half, so the top cap faces the
	// opposite way.
	s.fillCutFaces(top, bottom, normal.Scale(-1))

	top.CalculateBounds()
	bottom.CalculateBounds()
	return
}

func splitTriangles(m, top, bottom *MeshData, normal, origin model3d.Coord3D, side []bool,
	submesh int) {
	triangles := m.Triangles[submesh]
	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i], triangles[i+1], triangles[i+2]
		sa, sb, sc := side[a], side[b], side[c]
		switch {
		case sa && sb && sc:
			top.AddMappedTriangle(a, b, c, submesh)
		case !sa && !sb && !sc:
			bottom.AddMappedTriangle(a, b, c, submesh)

		// Two corners above the plane.
		case sb && sc:
			splitTriangle(m, top, bottom, b, c, a, normal, origin, submesh, true)
		case sc && sa:
			splitTriangle(m, top, bottom, c, a, b, normal, origin, submesh, true)
		case sa && sb:
			splitTriangle(m, top, bottom, a, b, c, normal, origin, submesh, true)

		// Two corners below the plane.
		case !sb && !sc:
			splitTriangle(m, top, bottom, b, c, a, normal, origin, submesh, false)
		case !sc && !sa:
			splitTriangle(m, top, bottom, c, a, b, normal, origin, submesh, false)
		default:
			splitTriangle(m, top, bottom, a, b, c, normal, origin, submesh, false)
		}
	}
}

// splitTriangle splits the triangle (v1, v2, v3), where v1 and v2 lie on one
// side of the plane and v3 lies on the other.
//
// With v3 below the plane:
//
//	    v1 *_____________* v2     ^ normal
//	        \           /         |
//	     ----*---------*----------+---
//	      v13 \       / v23       origin
//	           \     /
//	            \   /
//	             \ /
//	              * v3
//
// Otherwise the picture is flipped, with v3 above the plane. The quad side is
// divided into two triangles.
func splitTriangle(m, top, bottom *MeshData, v1Index, v2Index, v3Index int,
	normal, origin model3d.Coord3D, submesh int, v3Below bool) {
	v1 := m.Vertex(v1Index)
	v2 := m.Vertex(v2Index)
	v3 := m.Vertex(v3Index)

	v13, ok1 := edgeIntersection(v1, v3, v3Below, normal, origin)
	v23, ok2 := edgeIntersection(v2, v3, v3Below, normal, origin)
	if !ok1 || !ok2 {
		return
	}

	top.AddCutFaceVertex(v13.Position, v13.Normal, v13.UV)
	top.AddCutFaceVertex(v23.Position, v23.Normal, v23.UV)
	bottom.AddCutFaceVertex(v13.Position, v13.Normal, v13.UV)
	bottom.AddCutFaceVertex(v23.Position, v23.Normal, v23.UV)

	top13, top23 := len(top.Vertices)-2, len(top.Vertices)-1
	bottom13, bottom23 := len(bottom.Vertices)-2, len(bottom.Vertices)-1
	topCut, bottomCut := len(top.CutVertices), len(bottom.CutVertices)

	// Boundary edges are directed so that each cap runs along them
	// opposite to the adjacent surface triangles.
	if v3Below {
		top.AddTriangle(top23, top13, top.indexMap[v2Index], submesh)
		top.AddTriangle(top13, top.indexMap[v1Index], top.indexMap[v2Index], submesh)
		bottom.AddTriangle(bottom.indexMap[v3Index], bottom13, bottom23, submesh)

		top.Constraints = append(top.Constraints, NewEdgeConstraint(topCut-2, topCut-1))
		bottom.Constraints = append(bottom.Constraints,
			NewEdgeConstraint(bottomCut-1, bottomCut-2))
	} else {
		top.AddTriangle(top13, top23, top.indexMap[v3Index], submesh)
		bottom.AddTriangle(bottom.indexMap[v1Index], bottom.indexMap[v2Index], bottom13, submesh)
		bottom.AddTriangle(bottom.indexMap[v2Index], bottom23, bottom13, submesh)

		top.Constraints = append(top.Constraints, NewEdgeConstraint(topCut-1, topCut-2))
		bottom.Constraints = append(bottom.Constraints,
			NewEdgeConstraint(bottomCut-2, bottomCut-1))
	}
}

// edgeIntersection interpolates a vertex where the edge a->b crosses the
// plane.
//
// The position is always measured from the endpoint above the plane, so that
// every triangle sharing an edge produces the exact same point.
func edgeIntersection(a, b MeshVertex, aAbove bool, normal,
	origin model3d.Coord3D) (MeshVertex, bool) {
	var x model3d.Coord3D
	var s float64
	var ok bool
	if aAbove {
		x, s, ok = linePlaneIntersection(a.Position, b.Position, normal, origin)
	} else {
		x, s, ok = linePlaneIntersection(b.Position, a.Position, normal, origin)
		s = 1 - s
	}
	if !ok {
		return MeshVertex{}, false
	}
	return MeshVertex{
		Position: x,
		Normal:   a.Normal.Add(b.Normal.Sub(a.Normal).Scale(s)).Normalize(),
		UV:       a.UV.Add(b.UV.Sub(a.UV).Scale(s)),
	}, true
}

// fillCutFaces triangulates the cut boundary once and adds the resulting cap
// to both halves. The capNormal is the outward normal of the top cap.
func (s *Slicer) fillCutFaces(top, bottom *MeshData, capNormal model3d.Coord3D) {
	top.WeldCutFaceVertices()
	bottom.WeldCutFaceVertices()
	if len(top.CutVertices) < 3 {
		return
	}

	points := make([]model3d.Coord3D, len(top.CutVertices))
	for i, v := range top.CutVertices {
		points[i] = v.Position
	}
	triangulator := NewConstrainedTriangulator(points, top.Constraints, capNormal)
	triangulator.Verbose = s.Verbose
	triangles := triangulator.Triangulate()
	if s.Verbose && len(triangulator.Warnings) > 0 {
		log.Printf("slice: cap of %d vertices triangulated with %d warnings",
			len(points), len(triangulator.Warnings))
	}

	outward := capNormal.Normalize()
	for i, uv := range triangulator.PlaneCoords() {
		top.CutVertices[i].Normal = outward
		top.CutVertices[i].UV = uv
		bottom.CutVertices[i].Normal = outward.Scale(-1)
		bottom.CutVertices[i].UV = uv
	}

	topOffset := len(top.Vertices)
	bottomOffset := len(bottom.Vertices)
	for i := 0; i+2 < len(triangles); i += 3 {
		t1, t2, t3 := triangles[i], triangles[i+1], triangles[i+2]
		top.AddTriangle(topOffset+t1, topOffset+t2, topOffset+t3, CutSubmesh)
		bottom.AddTriangle(bottomOffset+t1, bottomOffset+t3, bottomOffset+t2, CutSubmesh)
	}
}
