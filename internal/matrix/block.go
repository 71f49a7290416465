package matrix

import "fmt"

// ExtractBlock returns a new size×size matrix copying the window of m that
// starts at (rowStart, colStart).
//
// Parameters:
//   - m: The source matrix.
//   - rowStart, colStart: The top-left corner of the window.
//   - size: The dimension of the window.
//
// Returns:
//   - *Matrix: The copied block.
//   - error: ErrOutOfBounds if the window does not fit inside m.
func ExtractBlock(m *Matrix, rowStart, colStart, size int) (*Matrix, error) {
	if m == nil {
		return nil, ErrNilMatrix
	}
	if !fits(m.n, rowStart, colStart, size) {
		return nil, fmt.Errorf("%w: %dx%d block at (%d,%d) in %dx%d matrix",
			ErrOutOfBounds, size, size, rowStart, colStart, m.n, m.n)
	}
	return extract(m, rowStart, colStart, size), nil
}

// WriteBlock copies block into dest with its top-left corner at
// (rowStart, colStart). Only dest is modified.
//
// Returns:
//   - error: ErrOutOfBounds if block does not fit inside dest from that offset.
func WriteBlock(dest, block *Matrix, rowStart, colStart int) error {
	if dest == nil || block == nil {
		return ErrNilMatrix
	}
	if !fits(dest.n, rowStart, colStart, block.n) {
		return fmt.Errorf("%w: %dx%d block at (%d,%d) in %dx%d matrix",
			ErrOutOfBounds, block.n, block.n, rowStart, colStart, dest.n, dest.n)
	}
	write(dest, block, rowStart, colStart)
	return nil
}

func fits(n, rowStart, colStart, size int) bool {
	return size >= 0 && rowStart >= 0 && colStart >= 0 &&
		rowStart+size <= n && colStart+size <= n
}

func extract(m *Matrix, rowStart, colStart, size int) *Matrix {
	out := newMatrix(size)
	for i := 0; i < size; i++ {
		src := (rowStart+i)*m.n + colStart
		copy(out.data[i*size:(i+1)*size], m.data[src:src+size])
	}
	return out
}

func write(dest, block *Matrix, rowStart, colStart int) {
	size := block.n
	for i := 0; i < size; i++ {
		dst := (rowStart+i)*dest.n + colStart
		copy(dest.data[dst:dst+size], block.data[i*size:(i+1)*size])
	}
}

// Split copies m into its four quadrants (11, 12, 21, 22).
//
// Returns:
//   - error: ErrMalformedRecursionInput if the dimension is odd.
func Split(m *Matrix) (q11, q12, q21, q22 *Matrix, err error) {
	if m == nil {
		return nil, nil, nil, nil, ErrNilMatrix
	}
	if m.n%2 != 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: cannot split %dx%d into quadrants",
			ErrMalformedRecursionInput, m.n, m.n)
	}
	half := m.n / 2
	return extract(m, 0, 0, half), extract(m, 0, half, half),
		extract(m, half, 0, half), extract(m, half, half, half), nil
}

// Join assembles four equally sized quadrants into a freshly allocated
// matrix of twice their dimension. The quadrant offsets never overlap.
//
// Returns:
//   - error: ErrDimensionMismatch if the quadrants differ in size.
func Join(c11, c12, c21, c22 *Matrix) (*Matrix, error) {
	if c11 == nil || c12 == nil || c21 == nil || c22 == nil {
		return nil, ErrNilMatrix
	}
	half := c11.n
	if c12.n != half || c21.n != half || c22.n != half {
		return nil, fmt.Errorf("%w: quadrants %d, %d, %d, %d",
			ErrDimensionMismatch, c11.n, c12.n, c21.n, c22.n)
	}
	out := newMatrix(2 * half)
	write(out, c11, 0, 0)
	write(out, c12, 0, half)
	write(out, c21, half, 0)
	write(out, c22, half, half)
	return out, nil
}

// CheckHalvable verifies the recursion contract: while n is above threshold
// it must be even, so every level splits into equal quadrants.
//
// Returns:
//   - error: ErrMalformedRecursionInput naming the first odd dimension found.
func CheckHalvable(n, threshold int) error {
	if threshold < 1 {
		threshold = 1
	}
	for size := n; size > threshold; size /= 2 {
		if size%2 != 0 {
			return fmt.Errorf("%w: %d (at size %d, threshold %d)",
				ErrMalformedRecursionInput, n, size, threshold)
		}
	}
	return nil
}

// PadToPowerOfTwo returns m embedded in the top-left corner of a zero matrix
// whose dimension is the next power of two. It returns m itself when the
// dimension already is one.
func PadToPowerOfTwo(m *Matrix) *Matrix {
	target := NextPowerOfTwo(m.n)
	if target == m.n {
		return m
	}
	out := newMatrix(target)
	write(out, m, 0, 0)
	return out
}

// Trim returns the leading n×n block of m.
func Trim(m *Matrix, n int) (*Matrix, error) {
	if m != nil && m.n == n {
		return m, nil
	}
	return ExtractBlock(m, 0, 0, n)
}

// NextPowerOfTwo returns the smallest power of two ≥ n (1 for n ≤ 1).
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
