// Package orchestration runs the selected multiplication algorithms on the
// same operands, samples their duration and allocations, and checks that
// every product agrees with a reference product.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matbench/internal/cli"
	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
)

// RunResult is the outcome of one algorithm on one pair of operands.
type RunResult struct {
	// Name is the algorithm identifier.
	Name string
	// Result is the product, trimmed back to the requested size when the
	// operands were padded. It is nil if Err is set.
	Result *matrix.Matrix
	// Duration is the wall-clock time of the multiplication.
	Duration time.Duration
	// AllocBytes is the growth of runtime.MemStats.TotalAlloc during the
	// run. It also counts allocations of concurrent runs when
	// -concurrency is above 1.
	AllocBytes uint64
	// Err is the failure, wrapped in an apperrors.MultiplicationError.
	Err error
}

// ProgressBufferMultiplier sizes the progress channel per run so that slow
// terminal updates rarely drop progress reports.
const ProgressBufferMultiplier = 5

// Operands are the inputs of one benchmark size.
type Operands struct {
	// Size is the requested dimension.
	Size int
	// A and B are the multiplied matrices, possibly padded.
	A, B *matrix.Matrix
}

// Padded reports whether A and B are larger than the requested size.
func (o Operands) Padded() bool { return o.A.Dim() != o.Size }

// PrepareOperands draws two size×size matrices from a PCG stream seeded by
// (seed, size), so every size is reproducible on its own. With pad set,
// both are embedded into the next power of two.
func PrepareOperands(size int, seed uint64, pad bool) (Operands, error) {
	rng := rand.New(rand.NewPCG(seed, uint64(size)))
	a, err := matrix.Random(size, rng)
	if err != nil {
		return Operands{}, err
	}
	b, err := matrix.Random(size, rng)
	if err != nil {
		return Operands{}, err
	}
	if pad {
		a, b = matrix.PadToPowerOfTwo(a), matrix.PadToPowerOfTwo(b)
	}
	return Operands{Size: size, A: a, B: b}, nil
}

// ResolveSeed returns seed, or a clock-derived seed when it is 0.
func ResolveSeed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(time.Now().UnixNano())
}

// ExecuteMultiplications runs every multiplier on ops, at most
// cfg.Concurrency at a time, and returns the results in multiplier order.
// Runs that have not started when ctx is done fail with ctx.Err(); a
// started multiplication always completes.
//
// Parameters:
//   - ctx: Cancels runs that have not started yet.
//   - multipliers: The algorithms to run.
//   - ops: The shared operands; they are never modified.
//   - cfg: Supplies thresholds, concurrency and display settings.
//   - pool: The worker budget shared by the parallel algorithms.
//   - out: Destination of the progress display; nil disables it.
//
// Returns:
//   - []RunResult: One result per multiplier.
func ExecuteMultiplications(ctx context.Context, multipliers []multiply.Multiplier, ops Operands, cfg config.AppConfig, pool *parallel.Pool, out io.Writer) []RunResult {
	results := make([]RunResult, len(multipliers))
	opts := cfg.ToMultiplyOptions(pool)

	var progressChan chan multiply.ProgressUpdate
	var displayWg sync.WaitGroup
	if out != nil {
		progressChan = make(chan multiply.ProgressUpdate, len(multipliers)*ProgressBufferMultiplier)
		displayWg.Add(1)
		go cli.DisplayProgress(&displayWg, progressChan, len(multipliers), out)
	}

	var g errgroup.Group
	g.SetLimit(max(cfg.Concurrency, 1))
	for i, m := range multipliers {
		g.Go(func() error {
			results[i] = runOne(ctx, m, i, ops, opts, progressChan)
			return nil
		})
	}
	_ = g.Wait()

	if progressChan != nil {
		close(progressChan)
		displayWg.Wait()
	}
	return results
}

func runOne(ctx context.Context, m multiply.Multiplier, index int, ops Operands, opts multiply.Options, progressChan chan<- multiply.ProgressUpdate) RunResult {
	res := RunResult{Name: m.Name()}
	fail := func(err error) RunResult {
		res.Result = nil
		res.Err = apperrors.MultiplicationError{Algorithm: res.Name, Size: ops.Size, Cause: err}
		return res
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	product, err := m.Multiply(ctx, progressChan, index, ops.A, ops.B, opts)
	res.Duration = time.Since(start)
	runtime.ReadMemStats(&after)
	res.AllocBytes = after.TotalAlloc - before.TotalAlloc

	if err != nil {
		return fail(err)
	}
	if ops.Padded() {
		if product, err = matrix.Trim(product, ops.Size); err != nil {
			return fail(err)
		}
	}
	res.Result = product
	return res
}

// sizeHeader prints the banner of one benchmark size.
func sizeHeader(out io.Writer, ops Operands) {
	if ops.Padded() {
		fmt.Fprintf(out, "\n=== n = %d (padded to %d) ===\n", ops.Size, ops.A.Dim())
		return
	}
	fmt.Fprintf(out, "\n=== n = %d ===\n", ops.Size)
}
