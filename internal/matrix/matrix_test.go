package matrix_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/matbench/internal/matrix"
)

func mustRows(t *testing.T, rows [][]float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromRows(rows)
	require.NoError(t, err)
	return m
}

func TestZeros(t *testing.T) {
	t.Parallel()

	m, err := matrix.Zeros(3)
	require.NoError(t, err)
	assert.Equal(t, 3, m.Dim())
	assert.True(t, m.IsZero())

	empty, err := matrix.Zeros(0)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Dim())
	assert.Empty(t, empty.Rows())

	_, err = matrix.Zeros(-1)
	require.ErrorIs(t, err, matrix.ErrBadShape)
}

func TestIdentity(t *testing.T) {
	t.Parallel()

	m, err := matrix.Identity(3)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, m.Rows())
}

func TestFromRows(t *testing.T) {
	t.Parallel()

	t.Run("copies input", func(t *testing.T) {
		t.Parallel()
		rows := [][]float64{{1, 2}, {3, 4}}
		m := mustRows(t, rows)
		rows[0][0] = 99
		assert.Equal(t, 1.0, m.At(0, 0))
	})

	t.Run("ragged rows rejected", func(t *testing.T) {
		t.Parallel()
		_, err := matrix.FromRows([][]float64{{1, 2}, {3}})
		require.ErrorIs(t, err, matrix.ErrNonSquare)
	})

	t.Run("rectangular rejected", func(t *testing.T) {
		t.Parallel()
		_, err := matrix.FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
		require.ErrorIs(t, err, matrix.ErrNonSquare)
	})
}

func TestRandomRange(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(1, 2))
	m, err := matrix.Random(16, rng)
	require.NoError(t, err)
	for _, row := range m.Rows() {
		for _, v := range row {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, matrix.RandomMax)
		}
	}

	again, err := matrix.Random(16, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)
	assert.True(t, m.Equal(again), "same seed must give the same matrix")
}

func TestAtSetPanicsOutOfRange(t *testing.T) {
	t.Parallel()

	m, err := matrix.Zeros(2)
	require.NoError(t, err)
	m.Set(1, 1, 7)
	assert.Equal(t, 7.0, m.At(1, 1))
	assert.Panics(t, func() { m.At(2, 0) })
	assert.Panics(t, func() { m.Set(0, -1, 1) })
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	m := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := m.Clone()
	c.Set(0, 0, 10)
	assert.Equal(t, 1.0, m.At(0, 0))
	assert.False(t, m.Equal(c))
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	b := mustRows(t, [][]float64{{1, 2}, {3, 4}})
	c := mustRows(t, [][]float64{{1, 2}, {3, 5}})
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	z1, _ := matrix.Zeros(1)
	z2, _ := matrix.Zeros(2)
	assert.NotEqual(t, z1.Fingerprint(), z2.Fingerprint())
}

func TestIsFinite(t *testing.T) {
	t.Parallel()

	assert.True(t, mustRows(t, [][]float64{{1, -2}, {math.MaxFloat64, 0}}).IsFinite())
	assert.False(t, mustRows(t, [][]float64{{1, math.Inf(1)}, {0, 0}}).IsFinite())
	assert.False(t, mustRows(t, [][]float64{{1, 2}, {math.NaN(), 0}}).IsFinite())

	z, err := matrix.Zeros(0)
	require.NoError(t, err)
	assert.True(t, z.IsFinite())
}
