package fracture

import (
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestMeshDataWeldCutFaceVertices(t *testing.T) {
	m := newMeshData(0, 0)
	positions := []model3d.Coord3D{
		model3d.XYZ(0, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(1, 0, 0),
		model3d.XYZ(1, 1, 0),
		model3d.XYZ(1, 1, 0),
		model3d.XYZ(0, 0, 0),
	}
	for i, p := range positions {
		m.AddCutFaceVertex(p, model3d.Z(1), model2d.XY(float64(i), 0))
	}
	m.Constraints = []EdgeConstraint{
		NewEdgeConstraint(0, 1),
		NewEdgeConstraint(2, 3),
		NewEdgeConstraint(4, 5),
	}

	m.WeldCutFaceVertices()

	if len(m.CutVertices) != 3 {
		t.Fatalf("expected 3 cut vertices but got %d", len(m.CutVertices))
	}
	if len(m.Vertices) != len(positions) {
		t.Fatal("ordinary vertices should not be welded")
	}
	expected := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	for i, c := range m.Constraints {
		if c.V1 != expected[i][0] || c.V2 != expected[i][1] {
			t.Errorf("constraint %d: expected %v but got %v", i, expected[i], c)
		}
	}
	// The first occurrence of each position is kept.
	if m.CutVertices[1].UV.X != 1 {
		t.Errorf("unexpected welded vertex: %v", m.CutVertices[1])
	}
}

func TestMeshDataConversion(t *testing.T) {
	mesh := &Mesh{
		Vertices: []MeshVertex{
			{Position: model3d.XYZ(0, 0, 0)},
			{Position: model3d.XYZ(1, 0, 0)},
			{Position: model3d.XYZ(0, 1, 0)},
			{Position: model3d.XYZ(0, 0, 1)},
		},
		Submeshes: [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}},
	}
	data := NewMeshData(mesh)
	if n := len(data.Triangles[SurfaceSubmesh]); n != 6 {
		t.Fatalf("extra submeshes should merge into the surface, got %d indices", n)
	}
	if n := len(data.Triangles[CutSubmesh]); n != 3 {
		t.Fatalf("expected 3 cut indices but got %d", n)
	}
	if data.Bounds.Min != model3d.Origin || data.Bounds.Max != model3d.XYZ(1, 1, 1) {
		t.Fatalf("unexpected bounds: %v", data.Bounds)
	}
	if c := data.Bounds.Center(); c != model3d.XYZ(0.5, 0.5, 0.5) {
		t.Fatalf("unexpected center: %v", c)
	}

	data.AddCutFaceVertex(model3d.XYZ(2, 2, 2), model3d.X(1), model2d.Coord{})
	data.WeldCutFaceVertices()
	if v := data.Vertex(data.VertexCount() - 1); v.Position != model3d.XYZ(2, 2, 2) {
		t.Fatalf("unexpected last vertex: %v", v)
	}

	out := data.ToMesh()
	if len(out.Vertices) != 6 {
		t.Fatalf("expected 6 vertices but got %d", len(out.Vertices))
	}
	if len(out.Submeshes) != numSubmeshes {
		t.Fatalf("expected %d submeshes but got %d", numSubmeshes, len(out.Submeshes))
	}
}
