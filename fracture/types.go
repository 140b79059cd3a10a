package fracture

import (
	"fmt"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

// A MeshVertex is a single vertex of an indexed mesh.
//
// Two vertices are considered the same vertex if their positions match, even
// if their normals or texture coordinates differ.
type MeshVertex struct {
	Position model3d.Coord3D
	Normal   model3d.Coord3D
	UV       model2d.Coord
}

// Equal checks if two vertices have the same position.
func (m MeshVertex) Equal(other MeshVertex) bool {
	return m.Position == other.Position
}

// Key returns a value suitable for hashing the vertex, consistent with Equal.
func (m MeshVertex) Key() model3d.Coord3D {
	return m.Position
}

func (m MeshVertex) String() string {
	return fmt.Sprintf("Position = %v, Normal = %v, UV = %v", m.Position, m.Normal, m.UV)
}

// An EdgeConstraint is an undirected edge between two vertices which must be
// present in a constrained triangulation.
//
// While a triangulation is being edited, T1 and T2 hold the triangles on
// either side of the edge (crossing from V1 to V2), and T1Edge holds the edge
// slot of T1 which the edge occupies.
type EdgeConstraint struct {
	V1 int
	V2 int

	T1     int
	T2     int
	T1Edge int
}

// NewEdgeConstraint creates a constraint with no adjacency information.
func NewEdgeConstraint(v1, v2 int) EdgeConstraint {
	return EdgeConstraint{V1: v1, V2: v2, T1: outOfBounds, T2: outOfBounds}
}

// Equal checks if two constraints connect the same vertices, regardless of
// direction.
func (e EdgeConstraint) Equal(other EdgeConstraint) bool {
	return (e.V1 == other.V1 && e.V2 == other.V2) ||
		(e.V1 == other.V2 && e.V2 == other.V1)
}

// Key returns a value suitable for hashing the constraint, consistent with
// Equal.
func (e EdgeConstraint) Key() [2]int {
	if e.V1 < e.V2 {
		return [2]int{e.V1, e.V2}
	}
	return [2]int{e.V2, e.V1}
}

func (e EdgeConstraint) String() string {
	return fmt.Sprintf("Edge: T%d->T%d (V%d->V%d)", e.T1, e.T2, e.V1, e.V2)
}
