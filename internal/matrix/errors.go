package matrix

import "errors"

// Sentinel errors returned by the matrix package. Returned errors wrap these
// with the offending dimensions or offsets, so callers match them with
// errors.Is rather than comparing strings.
var (
	// ErrDimensionMismatch indicates operands of different dimensions.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrOutOfBounds indicates a block window that does not fit inside the
	// containing matrix.
	ErrOutOfBounds = errors.New("matrix: block out of bounds")

	// ErrMalformedRecursionInput indicates a dimension that cannot be halved
	// evenly at a recursion depth above the base-case threshold. Callers must
	// supply power-of-two sizes or pad beforehand.
	ErrMalformedRecursionInput = errors.New("matrix: dimension not evenly halvable above threshold")

	// ErrNonSquare indicates ragged or rectangular input rows.
	ErrNonSquare = errors.New("matrix: matrix is not square")

	// ErrBadShape indicates a negative dimension.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrNilMatrix indicates a nil *Matrix operand.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
