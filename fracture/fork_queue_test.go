package fracture

import "testing"

func TestForkJoin(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		queue := newForkJoin[int](workers)
		var sum func(start, end int) int
		sum = func(start, end int) int {
			if end-start < 8 {
				var res int
				for i := start; i < end; i++ {
					res += i
				}
				return res
			}
			mid := (start + end) / 2
			a, b := queue.Fork(
				func() int { return sum(start, mid) },
				func() int { return sum(mid, end) },
			)
			return a + b
		}
		actual := queue.Run(func() int {
			return sum(0, 10000)
		})
		if expected := 10000 * 9999 / 2; actual != expected {
			t.Errorf("workers %d: expected %d but got %d", workers, expected, actual)
		}
	}
}
