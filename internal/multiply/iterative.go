package multiply

import (
	"context"

	"github.com/agbru/matbench/internal/matrix"
)

// IterativeMultiplier is the schoolbook O(n³) triple loop. It is also the
// base case of every recursive algorithm.
type IterativeMultiplier struct{}

// Name returns the algorithm identifier.
func (m *IterativeMultiplier) Name() string {
	return Iterative
}

// MultiplyCore computes a·b. Operands must already be validated.
func (m *IterativeMultiplier) MultiplyCore(_ context.Context, _ ProgressReporter, a, b *matrix.Matrix, _ Options) (*matrix.Matrix, error) {
	return iterative(a, b), nil
}

// iterative computes c[i][j] = Σ a[i][k]·b[k][j] with i and j outer and k
// inner, accumulating from zero in ascending k. The fixed summation order
// makes the result reproducible bit for bit.
func iterative(a, b *matrix.Matrix) *matrix.Matrix {
	n := a.Dim()
	c, _ := matrix.Zeros(n)
	bRows := make([][]float64, n)
	for k := range bRows {
		bRows[k] = b.Row(k)
	}
	for i := 0; i < n; i++ {
		ai := a.Row(i)
		ci := c.Row(i)
		for j := 0; j < n; j++ {
			sum := 0.0
			for k := 0; k < n; k++ {
				sum += ai[k] * bRows[k][j]
			}
			ci[j] = sum
		}
	}
	return c
}
