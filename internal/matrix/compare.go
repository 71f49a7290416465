package matrix

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// RelativeError returns max|a-b| divided by the largest magnitude found in
// either operand. Two all-zero matrices have a relative error of 0. Using a
// norm-wise denominator keeps entries that cancel to almost zero from
// dominating the comparison of algorithms with different summation orders.
//
// Returns:
//   - float64: The relative error (NaN if any entry is NaN).
//   - error: ErrDimensionMismatch if the dimensions differ.
func RelativeError(a, b *Matrix) (float64, error) {
	if err := CheckOperands(a, b); err != nil {
		return 0, err
	}
	var maxDiff, scale float64
	for i, x := range a.data {
		y := b.data[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			return math.NaN(), nil
		}
		maxDiff = math.Max(maxDiff, math.Abs(x-y))
		scale = math.Max(scale, math.Max(math.Abs(x), math.Abs(y)))
	}
	if scale == 0 {
		return 0, nil
	}
	return maxDiff / scale, nil
}

// ApproxEqual reports whether a and b have the same dimension and a relative
// error strictly below tol.
func ApproxEqual(a, b *Matrix, tol float64) bool {
	rel, err := RelativeError(a, b)
	return err == nil && rel < tol
}

// IsZero reports whether every element is exactly zero.
func (m *Matrix) IsZero() bool {
	for _, v := range m.data {
		if v != 0 {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or infinite.
func (m *Matrix) IsFinite() bool {
	for _, v := range m.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Fingerprint returns a 64-bit xxhash of the dimension and the raw bits of
// every element. Equal matrices have equal fingerprints.
func (m *Matrix) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(m.n))
	_, _ = d.Write(buf[:])
	for _, v := range m.data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}
