package fracture

import (
	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min model3d.Coord3D
	Max model3d.Coord3D
}

// Center gets the midpoint of the box.
func (b Bounds) Center() model3d.Coord3D {
	return b.Min.Mid(b.Max)
}

// MeshData is a mutable mesh buffer used while slicing.
//
// Vertices created by plane intersections are tracked separately in
// CutVertices so that they can be welded and triangulated into a cap. Cut
// vertices are indexed after Vertices, i.e. cut vertex i has the mesh index
// len(Vertices)+i.
type MeshData struct {
	Vertices    []MeshVertex
	CutVertices []MeshVertex

	// Triangles stores flat index triples for each submesh.
	Triangles [numSubmeshes][]int

	// Constraints are the edges of the cut boundary, indexing CutVertices.
	Constraints []EdgeConstraint

	Bounds Bounds

	// indexMap maps source vertex indices to indices in this mesh during a
	// single slice operation.
	indexMap []int
}

func newMeshData(vertexCount, triangleCount int) *MeshData {
	res := &MeshData{
		Vertices:    make([]MeshVertex, 0, vertexCount),
		CutVertices: make([]MeshVertex, 0, vertexCount/10),
		indexMap:    make([]int, vertexCount),
	}
	res.Triangles[SurfaceSubmesh] = make([]int, 0, triangleCount)
	res.Triangles[CutSubmesh] = make([]int, 0, triangleCount/10)
	return res
}

// NewMeshData creates a mesh buffer from an indexed mesh.
//
// Submeshes beyond the cut submesh are merged into the surface. Triangles
// with out-of-range vertex indices, and trailing indices which do not form a
// whole triangle, are dropped.
func NewMeshData(m *Mesh) *MeshData {
	res := &MeshData{
		Vertices: append([]MeshVertex{}, m.Vertices...),
	}
	for i, indices := range m.Submeshes {
		submesh := i
		if submesh > CutSubmesh {
			submesh = SurfaceSubmesh
		}
		for t := 0; t+2 < len(indices); t += 3 {
			tri := indices[t : t+3]
			if !validIndices(tri, len(m.Vertices)) {
				continue
			}
			res.Triangles[submesh] = append(res.Triangles[submesh], tri...)
		}
	}
	res.CalculateBounds()
	return res
}

func validIndices(indices []int, numVertices int) bool {
	for _, x := range indices {
		if x < 0 || x >= numVertices {
			return false
		}
	}
	return true
}

// VertexCount is the total number of vertices, including cut vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Vertices) + len(m.CutVertices)
}

// TriangleIndexCount is the total number of triangle indices across submeshes.
func (m *MeshData) TriangleIndexCount() int {
	var count int
	for _, t := range m.Triangles {
		count += len(t)
	}
	return count
}

// Vertex gets a vertex by its mesh index, which may refer to a cut vertex.
func (m *MeshData) Vertex(i int) MeshVertex {
	if i < len(m.Vertices) {
		return m.Vertices[i]
	}
	return m.CutVertices[i-len(m.Vertices)]
}

// AddCutFaceVertex adds an intersection vertex, both as an ordinary vertex
// and as a cut vertex.
func (m *MeshData) AddCutFaceVertex(position, normal model3d.Coord3D, uv model2d.Coord) {
	vertex := MeshVertex{Position: position, Normal: normal, UV: uv}
	m.Vertices = append(m.Vertices, vertex)
	m.CutVertices = append(m.CutVertices, vertex)
}

// AddMappedVertex adds a vertex copied from a source mesh and remembers its
// new index.
func (m *MeshData) AddMappedVertex(vertex MeshVertex, sourceIndex int) {
	m.Vertices = append(m.Vertices, vertex)
	m.indexMap[sourceIndex] = len(m.Vertices) - 1
}

// AddTriangle adds a triangle using indices into this mesh.
func (m *MeshData) AddTriangle(v1, v2, v3, submesh int) {
	m.Triangles[submesh] = append(m.Triangles[submesh], v1, v2, v3)
}

// AddMappedTriangle adds a triangle using source indices which were
// registered with AddMappedVertex.
func (m *MeshData) AddMappedTriangle(v1, v2, v3, submesh int) {
	m.AddTriangle(m.indexMap[v1], m.indexMap[v2], m.indexMap[v3], submesh)
}

// WeldCutFaceVertices merges cut vertices with identical positions and
// updates the constraints to refer to the merged vertices.
func (m *MeshData) WeldCutFaceVertices() {
	welded := make([]MeshVertex, 0, len(m.CutVertices))
	mapping := make([]int, len(m.CutVertices))
	for i, v := range m.CutVertices {
		mapping[i] = -1
		for j, w := range welded {
			if v.Equal(w) {
				mapping[i] = j
				break
			}
		}
		if mapping[i] == -1 {
			mapping[i] = len(welded)
			welded = append(welded, v)
		}
	}
	for i, c := range m.Constraints {
		m.Constraints[i].V1 = mapping[c.V1]
		m.Constraints[i].V2 = mapping[c.V2]
	}
	m.CutVertices = welded
}

// CalculateBounds recomputes Bounds from the ordinary vertices.
func (m *MeshData) CalculateBounds() {
	min, max := vertexBounds(m.Vertices)
	m.Bounds = Bounds{Min: min, Max: max}
}

// ToMesh converts the buffer into an indexed mesh. Cut vertices are placed
// after the ordinary vertices.
func (m *MeshData) ToMesh() *Mesh {
	res := &Mesh{
		Vertices:  make([]MeshVertex, 0, m.VertexCount()),
		Submeshes: make([][]int, numSubmeshes),
	}
	res.Vertices = append(res.Vertices, m.Vertices...)
	res.Vertices = append(res.Vertices, m.CutVertices...)
	for i, t := range m.Triangles {
		res.Submeshes[i] = append([]int{}, t...)
	}
	return res
}
