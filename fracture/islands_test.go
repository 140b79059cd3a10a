package fracture

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

func TestFindIslands(t *testing.T) {
	m := NewMeshModel3D(testDumbbell())

	islands := FindIslands(m)
	if len(islands) != 2 {
		t.Fatalf("expected 2 islands but got %d", len(islands))
	}
	for i, island := range islands {
		if n := island.NumTriangles(); n != 12 {
			t.Errorf("island %d: expected 12 triangles but got %d", i, n)
		}
		if len(island.Vertices) != 24 {
			t.Errorf("island %d: expected 24 vertices but got %d", i, len(island.Vertices))
		}
		if vol := island.Volume(); math.Abs(vol-1) > 1e-8 {
			t.Errorf("island %d: expected volume 1 but got %f", i, vol)
		}
		if island.Model3D().NeedsRepair() {
			t.Errorf("island %d is not watertight", i)
		}
	}
}

func TestFindIslandsSubmeshes(t *testing.T) {
	m := &Mesh{
		Vertices: []MeshVertex{
			{Position: model3d.XYZ(0, 0, 0)},
			{Position: model3d.XYZ(1, 0, 0)},
			{Position: model3d.XYZ(0, 1, 0)},
			// Same position as vertex 1 but a different normal.
			{Position: model3d.XYZ(1, 0, 0), Normal: model3d.Z(1)},
			{Position: model3d.XYZ(1, 1, 0)},
			{Position: model3d.XYZ(5, 5, 5)},
		},
		Submeshes: [][]int{{0, 1, 2}, {3, 4, 2}},
	}
	islands := FindIslands(m)
	if len(islands) != 1 {
		t.Fatalf("expected 1 island but got %d", len(islands))
	}
	island := islands[0]
	if len(island.Vertices) != 5 {
		t.Fatalf("expected 5 vertices but got %d", len(island.Vertices))
	}
	if len(island.Submeshes) != 2 || len(island.Submeshes[0]) != 3 ||
		len(island.Submeshes[1]) != 3 {
		t.Fatalf("unexpected submeshes: %v", island.Submeshes)
	}
	for s := range island.Submeshes {
		for i := 0; i < 3; i++ {
			expected := m.Vertices[m.Submeshes[s][i]]
			actual := island.Vertices[island.Submeshes[s][i]]
			if expected != actual {
				t.Errorf("submesh %d corner %d: expected %v but got %v", s, i, expected, actual)
			}
		}
	}
}
