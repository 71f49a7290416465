package multiply

import (
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/parallel"
)

// forkFunc runs a set of independent branches and returns after all of
// them finished. The sequential algorithms use runInline, the parallel
// ones a parallel.Pool.
type forkFunc func(branches ...func() error) error

// runInline runs branches one after another on the caller, stopping at
// the first error.
func runInline(branches ...func() error) error {
	for _, branch := range branches {
		if err := branch(); err != nil {
			return err
		}
	}
	return nil
}

func forkOn(pool *parallel.Pool) forkFunc {
	return pool.Fork
}

// blockOps applies elementwise operations with a sticky error: once an
// operation fails, the following ones are skipped and return nil.
type blockOps struct {
	err error
}

func (o *blockOps) add(x, y *matrix.Matrix) *matrix.Matrix {
	if o.err != nil {
		return nil
	}
	r, err := matrix.Add(x, y)
	o.err = err
	return r
}

func (o *blockOps) sub(x, y *matrix.Matrix) *matrix.Matrix {
	if o.err != nil {
		return nil
	}
	r, err := matrix.Subtract(x, y)
	o.err = err
	return r
}

// quadrants holds the four blocks of a split operand.
type quadrants struct {
	q11, q12, q21, q22 *matrix.Matrix
}

func split(m *matrix.Matrix) (quadrants, error) {
	var q quadrants
	var err error
	q.q11, q.q12, q.q21, q.q22, err = matrix.Split(m)
	return q, err
}

// baseCase multiplies a block with the iterative kernel and counts it
// as one finished leaf.
func baseCase(a, b *matrix.Matrix, tracker *leafTracker) *matrix.Matrix {
	c := iterative(a, b)
	tracker.leafDone()
	return c
}
