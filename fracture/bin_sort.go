package fracture

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// A triangulationPoint is a point projected onto the triangulation plane.
type triangulationPoint struct {
	Coords model2d.Coord

	// Bin is the grid cell used for sorting.
	Bin int

	// Index is the position in the original, unsorted point list.
	Index int
}

// sortPointsIntoBins orders the first n points along a serpentine walk of an
// m x m grid, where m = round(n^(1/4)). Coordinates must already be
// normalized to the unit square.
//
// Consecutive points in the result are spatially close, which keeps point
// location walks short during insertion.
func sortPointsIntoBins(points []triangulationPoint, n int) []triangulationPoint {
	gridSize := int(math.Round(math.Pow(float64(n), 0.25)))
	for k := 0; k < n; k++ {
		p := &points[k]
		i := int(0.99 * float64(gridSize) * p.Coords.Y)
		j := int(0.99 * float64(gridSize) * p.Coords.X)
		p.Bin = binNumber(i, j, gridSize)
	}
	return countingSort(points, n, gridSize*gridSize)
}

func binNumber(i, j, n int) int {
	if i%2 == 0 {
		return i*n + j
	}
	return (i+1)*n - j - 1
}

// countingSort stably sorts the first lastIndex points by bin. Points after
// lastIndex keep their positions.
func countingSort(input []triangulationPoint, lastIndex, binCount int) []triangulationPoint {
	if binCount <= 1 {
		return input
	}
	if lastIndex > len(input) {
		lastIndex = len(input)
	}

	count := make([]int, binCount)
	output := make([]triangulationPoint, len(input))
	for i := 0; i < lastIndex; i++ {
		count[input[i].Bin]++
	}
	for i := 1; i < binCount; i++ {
		count[i] += count[i-1]
	}
	for i := lastIndex - 1; i >= 0; i-- {
		bin := input[i].Bin
		count[bin]--
		output[count[bin]] = input[i]
	}
	copy(output[lastIndex:], input[lastIndex:])
	return output
}
