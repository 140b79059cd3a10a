package fracture

import (
	"math"
	"testing"

	"github.com/unixpickle/model3d/model3d"
)

// testCube creates a closed box mesh with outward-facing triangles.
func testCube(min, max model3d.Coord3D) *model3d.Mesh {
	var corners [8]model3d.Coord3D
	for i := range corners {
		c := min
		if i&1 != 0 {
			c.X = max.X
		}
		if i&2 != 0 {
			c.Y = max.Y
		}
		if i&4 != 0 {
			c.Z = max.Z
		}
		corners[i] = c
	}
	faces := [6][4]int{
		{0, 2, 6, 4},
		{1, 5, 7, 3},
		{0, 4, 5, 1},
		{2, 3, 7, 6},
		{0, 1, 3, 2},
		{4, 6, 7, 5},
	}
	center := min.Mid(max)
	res := model3d.NewMesh()
	for _, f := range faces {
		for _, tri := range [2][3]int{{f[0], f[1], f[2]}, {f[0], f[2], f[3]}} {
			t := &model3d.Triangle{corners[tri[0]], corners[tri[1]], corners[tri[2]]}
			faceCenter := t[0].Add(t[1]).Add(t[2]).Scale(1.0 / 3)
			if t.Normal().Dot(faceCenter.Sub(center)) < 0 {
				t[1], t[2] = t[2], t[1]
			}
			res.Add(t)
		}
	}
	return res
}

// testDumbbell creates two disjoint unit cubes.
func testDumbbell() *model3d.Mesh {
	res := testCube(model3d.XYZ(-2, -0.5, -0.5), model3d.XYZ(-1, 0.5, 0.5))
	testCube(model3d.XYZ(1, -0.5, -0.5), model3d.XYZ(2, 0.5, 0.5)).Iterate(res.Add)
	return res
}

func testSphere() *Mesh {
	return NewMeshModel3D(model3d.NewMeshIcosphere(model3d.Origin, 1.0, 3))
}

func TestNewMeshModel3D(t *testing.T) {
	cube := testCube(model3d.XYZ(0, 0, 0), model3d.XYZ(1, 2, 3))
	m := NewMeshModel3D(cube)

	if n := m.NumTriangles(); n != 12 {
		t.Fatalf("expected 12 triangles but got %d", n)
	}
	// Each face has its own normal, so corners are split per face.
	if n := len(m.Vertices); n != 24 {
		t.Fatalf("expected 24 vertices but got %d", n)
	}
	if len(m.Submeshes[CutSubmesh]) != 0 {
		t.Fatal("unexpected cut faces")
	}
	for i := 0; i < len(m.Submeshes[SurfaceSubmesh])/3; i++ {
		tri := m.Triangle(SurfaceSubmesh, i)
		for j, c := range tri {
			v := m.Vertices[m.Submeshes[SurfaceSubmesh][i*3+j]]
			if v.Position != c {
				t.Fatalf("triangle %d corner %d: %v != %v", i, j, v.Position, c)
			}
			if v.Normal.Dot(tri.Normal()) < 1-1e-8 {
				t.Fatalf("triangle %d: vertex normal %v should be %v", i, v.Normal, tri.Normal())
			}
		}
	}

	if vol := m.Volume(); math.Abs(vol-6) > 1e-8 {
		t.Errorf("expected volume 6 but got %f", vol)
	}
	if min := m.Min(); min != model3d.XYZ(0, 0, 0) {
		t.Errorf("unexpected min: %v", min)
	}
	if max := m.Max(); max != model3d.XYZ(1, 2, 3) {
		t.Errorf("unexpected max: %v", max)
	}
	if m.Model3D().NeedsRepair() {
		t.Error("mesh should not need repair")
	}
}

func TestMeshModel3DSkipsDegenerate(t *testing.T) {
	m := &Mesh{
		Vertices: []MeshVertex{
			{Position: model3d.XYZ(0, 0, 0)},
			{Position: model3d.XYZ(1, 0, 0)},
			{Position: model3d.XYZ(0, 1, 0)},
			{Position: model3d.XYZ(0, 0, 0)},
		},
		Submeshes: [][]int{{0, 1, 2}, {0, 1, 3}},
	}
	if n := m.NumTriangles(); n != 2 {
		t.Fatalf("expected 2 triangles but got %d", n)
	}
	if n := len(m.Model3D().TriangleSlice()); n != 1 {
		t.Fatalf("expected 1 triangle but got %d", n)
	}
}
