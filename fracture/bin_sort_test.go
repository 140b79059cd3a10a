package fracture

import (
	"math/rand"
	"testing"

	"github.com/unixpickle/model3d/model2d"
)

func TestBinNumber(t *testing.T) {
	// Rows alternate direction.
	expected := [][]int{
		{0, 1, 2},
		{5, 4, 3},
		{6, 7, 8},
	}
	for i, row := range expected {
		for j, x := range row {
			if actual := binNumber(i, j, 3); actual != x {
				t.Errorf("bin (%d, %d): expected %d but got %d", i, j, x, actual)
			}
		}
	}
}

func TestSortPointsIntoBins(t *testing.T) {
	const n = 100
	points := make([]triangulationPoint, n+3)
	for i := range points {
		points[i] = triangulationPoint{
			Coords: model2d.XY(rand.Float64(), rand.Float64()),
			Index:  i,
		}
	}
	sorted := sortPointsIntoBins(points, n)
	if len(sorted) != len(points) {
		t.Fatalf("expected %d points but got %d", len(points), len(sorted))
	}

	seen := map[int]bool{}
	for i, p := range sorted[:n] {
		seen[p.Index] = true
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.Bin > p.Bin {
			t.Fatalf("bins out of order at %d: %d > %d", i, prev.Bin, p.Bin)
		} else if prev.Bin == p.Bin && prev.Index > p.Index {
			t.Fatalf("sort is not stable at %d", i)
		}
	}
	if len(seen) != n {
		t.Fatalf("expected %d distinct points but got %d", n, len(seen))
	}
	for i := n; i < n+3; i++ {
		if sorted[i].Index != i {
			t.Errorf("trailing point %d moved", i)
		}
	}
}
