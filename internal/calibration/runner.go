package calibration

import (
	"context"
	"time"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
)

const maxDuration = time.Duration(1<<63 - 1)

// calibrationRunner times multiplications of one fixed pair of operands.
type calibrationRunner struct {
	ctx          context.Context
	a, b         *matrix.Matrix
	pool         *parallel.Pool
	progressChan chan<- multiply.ProgressUpdate
}

func newCalibrationRunner(ctx context.Context, n int, pool *parallel.Pool) *calibrationRunner {
	return &calibrationRunner{
		ctx:  ctx,
		a:    generateTestMatrix(n, 1),
		b:    generateTestMatrix(n, 2),
		pool: pool,
	}
}

// runTrial times one multiplication. A canceled context fails the trial
// before it starts; the engine itself is not interruptible.
func (r *calibrationRunner) runTrial(m multiply.Multiplier, opts multiply.Options) (time.Duration, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	opts.Pool = r.pool
	start := time.Now()
	_, err := m.Multiply(r.ctx, r.progressChan, 0, r.a, r.b, opts)
	return time.Since(start), err
}

// search times m once per candidate, building the options with optsFor,
// and returns every result plus the fastest candidate. The fastest
// duration is maxDuration when every trial failed, in which case
// fallback is returned as the best candidate.
func (r *calibrationRunner) search(m multiply.Multiplier, candidates []int, fallback int, optsFor func(int) multiply.Options) ([]calibrationResult, int, time.Duration) {
	results := make([]calibrationResult, 0, len(candidates))
	best, bestDur := fallback, maxDuration
	for _, cand := range candidates {
		dur, err := r.runTrial(m, optsFor(cand))
		if err != nil {
			results = append(results, calibrationResult{Threshold: cand, Err: err})
			if r.ctx.Err() != nil {
				break
			}
			continue
		}
		results = append(results, calibrationResult{Threshold: cand, Duration: dur})
		if dur < bestDur {
			best, bestDur = cand, dur
		}
	}
	return results, best, bestDur
}

// findBestSequentialThreshold searches the sequential base-case size of m.
func (r *calibrationRunner) findBestSequentialThreshold(m multiply.Multiplier, candidates []int, defaultThreshold int) ([]calibrationResult, int, time.Duration) {
	return r.search(m, candidates, defaultThreshold, func(t int) multiply.Options {
		return multiply.Options{SequentialThreshold: t}
	})
}

// findBestParallelThreshold searches the parallel base-case size of m with
// the sequential threshold fixed.
func (r *calibrationRunner) findBestParallelThreshold(m multiply.Multiplier, candidates []int, sequentialThreshold, defaultThreshold int) ([]calibrationResult, int, time.Duration) {
	return r.search(m, candidates, defaultThreshold, func(t int) multiply.Options {
		return multiply.Options{SequentialThreshold: sequentialThreshold, ParallelThreshold: t}
	})
}
