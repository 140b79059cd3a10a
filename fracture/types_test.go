package fracture

import (
	"testing"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

func TestMeshVertexEqual(t *testing.T) {
	v1 := MeshVertex{Position: model3d.XYZ(1, 2, 3), Normal: model3d.Z(1)}
	v2 := MeshVertex{Position: model3d.XYZ(1, 2, 3), UV: model2d.XY(0.5, 0.5)}
	v3 := MeshVertex{Position: model3d.XYZ(1, 2, 3.5)}
	if !v1.Equal(v2) || v1.Key() != v2.Key() {
		t.Error("vertices at the same position should be equal")
	}
	if v1.Equal(v3) || v1.Key() == v3.Key() {
		t.Error("vertices at different positions should differ")
	}
}

func TestEdgeConstraintEqual(t *testing.T) {
	e := NewEdgeConstraint(3, 7)
	if e.T1 != outOfBounds || e.T2 != outOfBounds {
		t.Fatalf("unexpected adjacency: %v", e)
	}
	testCases := []struct {
		Other    EdgeConstraint
		Expected bool
	}{
		{NewEdgeConstraint(3, 7), true},
		{NewEdgeConstraint(7, 3), true},
		{EdgeConstraint{V1: 7, V2: 3, T1: 2, T2: 5, T1Edge: edge23}, true},
		{NewEdgeConstraint(3, 8), false},
		{NewEdgeConstraint(7, 7), false},
	}
	for i, tc := range testCases {
		if actual := e.Equal(tc.Other); actual != tc.Expected {
			t.Errorf("case %d: expected %v but got %v", i, tc.Expected, actual)
		}
		if actual := e.Key() == tc.Other.Key(); actual != tc.Expected {
			t.Errorf("case %d: key equality should match Equal", i)
		}
	}
}
