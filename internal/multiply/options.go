package multiply

import "github.com/agbru/matbench/internal/parallel"

// Options configures a multiplication.
type Options struct {
	// SequentialThreshold is the base-case dimension of divide_conquer_seq
	// and strassen_seq. If <= 0, DefaultSequentialThreshold is used.
	SequentialThreshold int
	// ParallelThreshold is the base-case dimension of the parallel variants.
	// If <= 0, DefaultParallelThreshold is used.
	ParallelThreshold int
	// Pool is the worker budget shared by the parallel variants. If nil, a
	// pool sized to GOMAXPROCS is created for the call.
	Pool *parallel.Pool
}

// normalizeOptions returns a copy of opts with defaults filled in.
func normalizeOptions(opts Options) Options {
	normalized := opts
	if normalized.SequentialThreshold <= 0 {
		normalized.SequentialThreshold = DefaultSequentialThreshold
	}
	if normalized.ParallelThreshold <= 0 {
		normalized.ParallelThreshold = DefaultParallelThreshold
	}
	return normalized
}

// poolFor returns the pool a parallel variant should fork on.
func poolFor(opts Options) *parallel.Pool {
	if opts.Pool != nil {
		return opts.Pool
	}
	return parallel.NewPool(0)
}
