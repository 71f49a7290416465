package multiply

import (
	"context"

	"github.com/agbru/matbench/internal/matrix"
)

// DivideConquerMultiplier splits both operands into quadrants and computes
// the eight quadrant products recursively:
//
//	C11 = A11·B11 + A12·B21    C12 = A11·B12 + A12·B22
//	C21 = A21·B11 + A22·B21    C22 = A21·B12 + A22·B22
//
// Blocks at or below the threshold go to the iterative kernel. The parallel
// variant forks the two halves of C, each of which forks its two quadrants,
// each of which forks its pair of products; a quadrant sum runs as soon as
// its pair is joined.
type DivideConquerMultiplier struct {
	Parallel bool
}

// Name returns the algorithm identifier.
func (m *DivideConquerMultiplier) Name() string {
	if m.Parallel {
		return DivideConquerParallel
	}
	return DivideConquerSeq
}

// MultiplyCore computes a·b. The input dimension must stay even at every
// level above the threshold, otherwise ErrMalformedRecursionInput is
// returned before any block is multiplied.
func (m *DivideConquerMultiplier) MultiplyCore(_ context.Context, reporter ProgressReporter, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
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
	tracker := newLeafTracker(reporter, LeafCount(n, threshold, 8))
	return divideConquer(a, b, threshold, fork, tracker)
}

func divideConquer(a, b *matrix.Matrix, threshold int, fork forkFunc, tracker *leafTracker) (*matrix.Matrix, error) {
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

	var c [4]*matrix.Matrix
	// quadrant computes c[idx] = x1·y1 + x2·y2.
	quadrant := func(idx int, x1, y1, x2, y2 *matrix.Matrix) func() error {
		return func() error {
			var p1, p2 *matrix.Matrix
			err := fork(
				func() (err error) {
					p1, err = divideConquer(x1, y1, threshold, fork, tracker)
					return err
				},
				func() (err error) {
					p2, err = divideConquer(x2, y2, threshold, fork, tracker)
					return err
				},
			)
			if err != nil {
				return err
			}
			c[idx], err = matrix.Add(p1, p2)
			return err
		}
	}

	err = fork(
		func() error {
			return fork(
				quadrant(0, qa.q11, qb.q11, qa.q12, qb.q21),
				quadrant(1, qa.q11, qb.q12, qa.q12, qb.q22),
			)
		},
		func() error {
			return fork(
				quadrant(2, qa.q21, qb.q11, qa.q22, qb.q21),
				quadrant(3, qa.q21, qb.q12, qa.q22, qb.q22),
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return matrix.Join(c[0], c[1], c[2], c[3])
}
