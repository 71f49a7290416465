package matrix

// Add returns a + b.
//
// Returns:
//   - *Matrix: A new matrix holding the elementwise sum.
//   - error: ErrDimensionMismatch if the dimensions differ.
func Add(a, b *Matrix) (*Matrix, error) {
	if err := CheckOperands(a, b); err != nil {
		return nil, err
	}
	out := newMatrix(a.n)
	for i, v := range a.data {
		out.data[i] = v + b.data[i]
	}
	return out, nil
}

// Subtract returns a - b.
//
// Returns:
//   - *Matrix: A new matrix holding the elementwise difference.
//   - error: ErrDimensionMismatch if the dimensions differ.
func Subtract(a, b *Matrix) (*Matrix, error) {
	if err := CheckOperands(a, b); err != nil {
		return nil, err
	}
	out := newMatrix(a.n)
	for i, v := range a.data {
		out.data[i] = v - b.data[i]
	}
	return out, nil
}
