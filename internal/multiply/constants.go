package multiply

// Algorithm identifiers accepted by Multiply and the factory.
const (
	Iterative             = "iterative"
	DivideConquerSeq      = "divide_conquer_seq"
	DivideConquerParallel = "divide_conquer_parallel"
	StrassenSeq           = "strassen_seq"
	StrassenParallel      = "strassen_parallel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Recursion Thresholds
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultSequentialThreshold is the dimension at or below which the
	// sequential recursive algorithms hand a block to the iterative kernel.
	//
	// A 64x64 float64 block is 32 KiB, which fits the L1/L2 working set of
	// most current cores.
	DefaultSequentialThreshold = 64

	// DefaultParallelThreshold is the base-case dimension of the parallel
	// algorithms. It is larger than the sequential one so that a forked
	// branch always carries enough work to amortize its scheduling.
	DefaultParallelThreshold = 128
)

// ─────────────────────────────────────────────────────────────────────────────
// Progress Reporting Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// ProgressReportThreshold is the minimum progress change (0.0 to 1.0)
	// between two reports of the same run.
	ProgressReportThreshold = 0.01
)
