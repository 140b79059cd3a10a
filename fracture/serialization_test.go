package fracture

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestFragmentsSerialization(t *testing.T) {
	meshes := []*Mesh{
		testSerializationMesh(),
		{Submeshes: [][]int{{}, {}}},
		testSerializationMesh(),
	}
	meshes[2].Submeshes[0] = nil

	var buf bytes.Buffer
	if err := WriteFragments(&buf, meshes); err != nil {
		t.Fatal(err)
	}
	decoded, err := ReadFragments(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(meshes) {
		t.Fatalf("expected %d meshes but got %d", len(meshes), len(decoded))
	}
	for i, expected := range meshes {
		checkMeshesEqual(t, expected, decoded[i])
	}
}

func TestMeshSerializationFile(t *testing.T) {
	m := testSerializationMesh()
	path := filepath.Join(t.TempDir(), "mesh.bin")
	if err := Save(path, m, WriteMesh); err != nil {
		t.Fatal(err)
	}
	decoded, err := Load(path, ReadMesh)
	if err != nil {
		t.Fatal(err)
	}
	checkMeshesEqual(t, m, decoded)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.bin"), ReadMesh); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestReadMeshInvalid(t *testing.T) {
	encode := func(values ...uint32) []byte {
		var buf bytes.Buffer
		for _, x := range values {
			binary.Write(&buf, binary.LittleEndian, x)
		}
		return buf.Bytes()
	}
	testCases := map[string][]byte{
		"truncated":    encode(3),
		"bad count":    encode(0, 1, 2, 0, 0),
		"out of range": encode(0, 1, 3, 0, 0, 0),
	}
	for name, data := range testCases {
		if _, err := ReadMesh(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func testSerializationMesh() *Mesh {
	// Values are exactly representable with 32-bit floats.
	return &Mesh{
		Vertices: []MeshVertex{
			{
				Position: model3d.XYZ(0, 0.5, -1),
				Normal:   model3d.Z(1),
				UV:       model2d.XY(0.25, 0.75),
			},
			{
				Position: model3d.XYZ(2, 0, 1.5),
				Normal:   model3d.X(-1),
				UV:       model2d.XY(1, 0),
			},
			{
				Position: model3d.XYZ(-3, 4, 0.125),
				Normal:   model3d.Y(1),
				UV:       model2d.XY(-2, 8),
			},
		},
		Submeshes: [][]int{{0, 1, 2}, {2, 1, 0, 0, 2, 1}},
	}
}

func checkMeshesEqual(t *testing.T, expected, actual *Mesh) {
	if !reflect.DeepEqual(expected.Vertices, actual.Vertices) &&
		(len(expected.Vertices) != 0 || len(actual.Vertices) != 0) {
		t.Fatalf("expected vertices %v but got %v", expected.Vertices, actual.Vertices)
	}
	if len(expected.Submeshes) != len(actual.Submeshes) {
		t.Fatalf("expected %d submeshes but got %d", len(expected.Submeshes),
			len(actual.Submeshes))
	}
	for i, indices := range expected.Submeshes {
		if len(indices) != len(actual.Submeshes[i]) {
			t.Fatalf("submesh %d: expected %v but got %v", i, indices, actual.Submeshes[i])
		}
		for j, x := range indices {
			if actual.Submeshes[i][j] != x {
				t.Fatalf("submesh %d: expected %v but got %v", i, indices, actual.Submeshes[i])
			}
		}
	}
}
