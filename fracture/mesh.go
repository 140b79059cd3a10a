package fracture

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

const (
	// SurfaceSubmesh is the submesh holding the original surface of a mesh.
	SurfaceSubmesh = 0

	// CutSubmesh is the submesh holding faces created by slicing, which are
	// typically rendered with an "inside" material.
	CutSubmesh = 1

	numSubmeshes = 2
)

// A Mesh is an indexed triangle mesh with per-vertex normals and texture
// coordinates, and one index list per submesh.
//
// Triangles are wound counter-clockwise when viewed from outside the mesh,
// matching model3d.
type Mesh struct {
	Vertices []MeshVertex

	// Submeshes stores flat index triples for each submesh.
	Submeshes [][]int
}

// NewMeshModel3D creates an indexed mesh from a model3d mesh.
//
// Triangles receive flat normals and UVs from a planar projection along the
// dominant axis of each normal. Vertices are shared between triangles with
// matching positions and normals.
func NewMeshModel3D(m *model3d.Mesh) *Mesh {
	type vertexKey struct {
		Position model3d.Coord3D
		Normal   model3d.Coord3D
	}
	res := &Mesh{Submeshes: make([][]int, numSubmeshes)}
	indices := map[vertexKey]int{}
	for _, t := range m.TriangleSlice() {
		normal := t.Normal()
		for _, c := range t {
			key := vertexKey{Position: c, Normal: normal}
			idx, ok := indices[key]
			if !ok {
				idx = len(res.Vertices)
				indices[key] = idx
				res.Vertices = append(res.Vertices, MeshVertex{
					Position: c,
					Normal:   normal,
					UV:       planarUV(c, normal),
				})
			}
			res.Submeshes[SurfaceSubmesh] = append(res.Submeshes[SurfaceSubmesh], idx)
		}
	}
	return res
}

func planarUV(c, normal model3d.Coord3D) model2d.Coord {
	a := normal.Abs()
	if a.X >= a.Y && a.X >= a.Z {
		return model2d.XY(c.Y, c.Z)
	} else if a.Y >= a.Z {
		return model2d.XY(c.X, c.Z)
	}
	return model2d.XY(c.X, c.Y)
}

// NumTriangles counts the triangles across all submeshes.
func (m *Mesh) NumTriangles() int {
	var count int
	for _, s := range m.Submeshes {
		count += len(s) / 3
	}
	return count
}

// Triangle gets the triangle at index t of the given submesh.
func (m *Mesh) Triangle(submesh, t int) *model3d.Triangle {
	indices := m.Submeshes[submesh][t*3 : t*3+3]
	return &model3d.Triangle{
		m.Vertices[indices[0]].Position,
		m.Vertices[indices[1]].Position,
		m.Vertices[indices[2]].Position,
	}
}

// Model3D converts the mesh into a model3d mesh, discarding vertex
// attributes and submesh assignments.
//
// Degenerate triangles with repeated corners are skipped.
func (m *Mesh) Model3D() *model3d.Mesh {
	res := model3d.NewMesh()
	for s, indices := range m.Submeshes {
		for t := 0; t < len(indices)/3; t++ {
			tri := m.Triangle(s, t)
			if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
				continue
			}
			res.Add(tri)
		}
	}
	return res
}

// Volume computes the volume enclosed by the mesh.
func (m *Mesh) Volume() float64 {
	return m.Model3D().Volume()
}

// Min gets the minimum corner of the vertex bounding box.
func (m *Mesh) Min() model3d.Coord3D {
	min, _ := vertexBounds(m.Vertices)
	return min
}

// Max gets the maximum corner of the vertex bounding box.
func (m *Mesh) Max() model3d.Coord3D {
	_, max := vertexBounds(m.Vertices)
	return max
}

func vertexBounds(vertices []MeshVertex) (min, max model3d.Coord3D) {
	if len(vertices) == 0 {
		return
	}
	min = model3d.XYZ(math.Inf(1), math.Inf(1), math.Inf(1))
	max = model3d.XYZ(math.Inf(-1), math.Inf(-1), math.Inf(-1))
	for _, v := range vertices {
		min = min.Min(v.Position)
		max = max.Max(v.Position)
	}
	return
}
