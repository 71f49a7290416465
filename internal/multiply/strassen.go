package multiply

import (
	"context"

	"github.com/agbru/matbench/internal/matrix"
)

// StrassenMultiplier implements Strassen's seven-product recursion:
//
//	M1 = (A11+A22)(B11+B22)    M5 = (A11+A12)B22
//	M2 = (A21+A22)B11          M6 = (A21-A11)(B11+B12)
//	M3 = A11(B12-B22)          M7 = (A12-A22)(B21+B22)
//	M4 = A22(B21-B11)
//
//	C11 = M1+M4-M5+M7    C12 = M3+M5
//	C21 = M2+M4          C22 = M1-M2+M3+M6
//
// The parallel variant forks {M1,M2}, {M3,M4}, {M5,M6} and M7 and combines
// them once all seven are joined.
type StrassenMultiplier struct {
	Parallel bool
}

// Name returns the algorithm identifier.
func (m *StrassenMultiplier) Name() string {
	if m.Parallel {
		return StrassenParallel
	}
	return StrassenSeq
}

// MultiplyCore computes a·b. See DivideConquerMultiplier.MultiplyCore for
// the dimension requirements.
func (m *StrassenMultiplier) MultiplyCore(_ context.Context, reporter ProgressReporter, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	threshold := opts.SequentialThreshold
	fork := forkFunc(runInline)
	if m.Parallel {
		threshold = opts.ParallelThreshold
		fork = forkOn(poolFor(opts))
	}
	n := a.Dim()
	if err := matrix.CheckHalvable(n, threshold); err != nil {
		return nil, err
	}
	tracker := newLeafTracker(reporter, LeafCount(n, threshold, 7))
	return strassen(a, b, threshold, fork, tracker)
}

func strassen(a, b *matrix.Matrix, threshold int, fork forkFunc, tracker *leafTracker) (*matrix.Matrix, error) {
	if a.Dim() <= threshold {
		return baseCase(a, b, tracker), nil
	}
	qa, err := split(a)
	if err != nil {
		return nil, err
	}
	qb, err := split(b)
	if err != nil {
		return nil, err
	}

	var m [7]*matrix.Matrix
	// product computes m[idx] = left()·right(); operand sums are formed
	// inside the branch so that they run in parallel too.
	product := func(idx int, left, right func(*blockOps) *matrix.Matrix) func() error {
		return func() error {
			var ops blockOps
			x, y := left(&ops), right(&ops)
			if ops.err != nil {
				return ops.err
			}
			var err error
			m[idx], err = strassen(x, y, threshold, fork, tracker)
			return err
		}
	}
	block := func(q *matrix.Matrix) func(*blockOps) *matrix.Matrix {
		return func(*blockOps) *matrix.Matrix { return q }
	}
	sum := func(x, y *matrix.Matrix) func(*blockOps) *matrix.Matrix {
		return func(o *blockOps) *matrix.Matrix { return o.add(x, y) }
	}
	diff := func(x, y *matrix.Matrix) func(*blockOps) *matrix.Matrix {
		return func(o *blockOps) *matrix.Matrix { return o.sub(x, y) }
	}

	err = fork(
		func() error {
			return fork(
				product(0, sum(qa.q11, qa.q22), sum(qb.q11, qb.q22)),
				product(1, sum(qa.q21, qa.q22), block(qb.q11)),
			)
		},
		func() error {
			return fork(
				product(2, block(qa.q11), diff(qb.q12, qb.q22)),
				product(3, block(qa.q22), diff(qb.q21, qb.q11)),
			)
		},
		func() error {
			return fork(
				product(4, sum(qa.q11, qa.q12), block(qb.q22)),
				product(5, diff(qa.q21, qa.q11), sum(qb.q11, qb.q12)),
			)
		},
		product(6, diff(qa.q12, qa.q22), sum(qb.q21, qb.q22)),
	)
	if err != nil {
		return nil, err
	}

	var ops blockOps
	c11 := ops.add(ops.sub(ops.add(m[0], m[3]), m[4]), m[6])
	c12 := ops.add(m[2], m[4])
	c21 := ops.add(m[1], m[3])
	c22 := ops.add(ops.sub(ops.add(m[0], m[2]), m[1]), m[5])
	if ops.err != nil {
		return nil, ops.err
	}
	return matrix.Join(c11, c12, c21, c22)
}
