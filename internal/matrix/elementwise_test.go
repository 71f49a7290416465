package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/matbench/internal/matrix"
)

func TestAddSubtract(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{5, 6}, {7, 8}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{6, 8}, {10, 12}}, sum.Rows())

	diff, err := matrix.Subtract(a, b)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{-4, -4}, {-4, -4}}, diff.Rows())

	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, a.Rows(), "operands must not be mutated")
}

func TestAdditiveLaws(t *testing.T) {
	t.Parallel()

	a := sequential(t, 4)
	zero, err := matrix.Zeros(4)
	require.NoError(t, err)

	sum, err := matrix.Add(a, zero)
	require.NoError(t, err)
	assert.True(t, a.Equal(sum), "adding zero is the identity")

	self, err := matrix.Subtract(a, a)
	require.NoError(t, err)
	assert.True(t, self.IsZero(), "a - a must be zero")
}

func TestCombinators_DimensionMismatch(t *testing.T) {
	t.Parallel()

	a := sequential(t, 2)
	b := sequential(t, 3)

	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Subtract(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Add(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestCombinators_IEEEPropagation(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{{math.Inf(1), math.NaN()}, {1, 2}})
	b := mustRows(t, [][]float64{{1, 1}, {1, 1}})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	assert.True(t, math.IsInf(sum.At(0, 0), 1))
	assert.True(t, math.IsNaN(sum.At(0, 1)))
}

func TestRelativeError(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{{100, 0}, {0, 100}})
	b := mustRows(t, [][]float64{{100, 1e-6}, {0, 100}})

	rel, err := matrix.RelativeError(a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1e-8, rel, 1e-20)
	assert.True(t, matrix.ApproxEqual(a, b, 1e-7))
	assert.False(t, matrix.ApproxEqual(a, b, 1e-9))

	z1, _ := matrix.Zeros(2)
	z2, _ := matrix.Zeros(2)
	rel, err = matrix.RelativeError(z1, z2)
	require.NoError(t, err)
	assert.Zero(t, rel)

	_, err = matrix.RelativeError(a, sequential(t, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}
