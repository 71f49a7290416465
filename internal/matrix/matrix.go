// Package matrix provides the dense square matrix type used by the
// multiplication engine, together with the block operations and elementwise
// combinators the recursive algorithms are built from.
//
// Matrices are value-like: every operation returns a fresh result and leaves
// its operands untouched. The only mutating operations are Set and
// WriteBlock, which write into the receiver or destination they are given.
package matrix

import (
	"fmt"
	"math/rand/v2"
)

// RandomMax is the exclusive upper bound of values produced by Random.
const RandomMax = 10.0

// Matrix is a dense n×n matrix of float64 values stored row-major in a single
// flat slice.
type Matrix struct {
	n    int
	data []float64
}

// Zeros returns a zero-filled n×n matrix.
//
// Parameters:
//   - n: The dimension (n ≥ 0).
//
// Returns:
//   - *Matrix: The new matrix.
//   - error: ErrBadShape if n is negative.
func Zeros(n int) (*Matrix, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrBadShape, n)
	}
	return newMatrix(n), nil
}

// newMatrix allocates without validation. n must be non-negative.
func newMatrix(n int) *Matrix {
	return &Matrix{n: n, data: make([]float64, n*n)}
}

// Identity returns the n×n identity matrix.
func Identity(n int) (*Matrix, error) {
	m, err := Zeros(n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// FromRows builds a matrix from a slice of rows. The rows are copied.
//
// Returns:
//   - *Matrix: The new matrix.
//   - error: ErrNonSquare if any row length differs from the number of rows.
func FromRows(rows [][]float64) (*Matrix, error) {
	n := len(rows)
	m := newMatrix(n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonSquare, i, len(row), n)
		}
		copy(m.data[i*n:(i+1)*n], row)
	}
	return m, nil
}

// Random returns an n×n matrix with entries drawn uniformly from
// [0, RandomMax) using rng.
func Random(n int, rng *rand.Rand) (*Matrix, error) {
	m, err := Zeros(n)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = rng.Float64() * RandomMax
	}
	return m, nil
}

// Dim returns the dimension n of the matrix.
func (m *Matrix) Dim() int { return m.n }

// At returns the element at row i, column j. It panics if the indices are
// out of range, like a slice access.
func (m *Matrix) At(i, j int) float64 {
	m.checkIndex(i, j)
	return m.data[i*m.n+j]
}

// Set writes v at row i, column j. It panics if the indices are out of range.
func (m *Matrix) Set(i, j int, v float64) {
	m.checkIndex(i, j)
	m.data[i*m.n+j] = v
}

func (m *Matrix) checkIndex(i, j int) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("matrix: index (%d,%d) out of range for %dx%d", i, j, m.n, m.n))
	}
}

// Row returns row i as a slice aliasing the matrix storage.
func (m *Matrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n : (i+1)*m.n]
}

// Rows returns a copy of the matrix as a slice of rows.
func (m *Matrix) Rows() [][]float64 {
	rows := make([][]float64, m.n)
	for i := range rows {
		rows[i] = append([]float64(nil), m.Row(i)...)
	}
	return rows
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	return &Matrix{n: m.n, data: append([]float64(nil), m.data...)}
}

// Equal reports whether m and other have the same dimension and bit-identical
// elements. NaN entries never compare equal.
func (m *Matrix) Equal(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.n != other.n {
		return false
	}
	for i, v := range m.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// String renders small matrices for test failure messages.
func (m *Matrix) String() string {
	return fmt.Sprintf("%v", m.Rows())
}

// CheckOperands reports whether a and b are usable as operands of a binary
// operation: both non-nil and of the same dimension.
func CheckOperands(a, b *Matrix) error {
	if a == nil || b == nil {
		return ErrNilMatrix
	}
	if a.n != b.n {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch, a.n, a.n, b.n, b.n)
	}
	return nil
}
