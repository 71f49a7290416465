package multiply

import (
	"math"
	"sync"
	"sync/atomic"
)

// ProgressUpdate carries the progress of one run to a consumer such as the
// CLI spinner.
type ProgressUpdate struct {
	// RunIndex identifies the run when several multiplications report to
	// the same consumer.
	RunIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback used by the algorithms to publish
// progress without knowing who consumes it.
type ProgressReporter func(progress float64)

// LeafCount returns the number of base-case blocks a recursive algorithm
// visits for an n x n input: branching^depth, where depth is the number of
// halvings needed to bring n down to threshold.
//
// Parameters:
//   - n: The matrix dimension.
//   - threshold: The base-case dimension.
//   - branching: 8 for divide-and-conquer, 7 for Strassen.
//
// Returns:
//   - float64: The number of leaves (1 when n <= threshold).
func LeafCount(n, threshold, branching int) float64 {
	depth := 0
	for size := n; size > threshold && size > 1; size /= 2 {
		depth++
	}
	return math.Pow(float64(branching), float64(depth))
}

// leafTracker converts completed base cases into throttled progress
// reports. It is safe for concurrent use by forked branches.
type leafTracker struct {
	reporter ProgressReporter
	total    float64
	done     atomic.Int64

	// mu orders reports so that consumers never see progress go backwards.
	mu       sync.Mutex
	lastStep int64
}

func newLeafTracker(reporter ProgressReporter, total float64) *leafTracker {
	if reporter == nil || total <= 0 {
		return nil
	}
	return &leafTracker{reporter: reporter, total: total}
}

// leafDone records one finished base case and reports when progress moved
// by at least ProgressReportThreshold since the last report.
func (t *leafTracker) leafDone() {
	if t == nil {
		return
	}
	progress := float64(t.done.Add(1)) / t.total
	step := int64(progress / ProgressReportThreshold)

	t.mu.Lock()
	defer t.mu.Unlock()
	if step <= t.lastStep {
		return
	}
	t.lastStep = step
	t.reporter(math.Min(progress, 1.0))
}
