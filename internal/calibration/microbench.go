package calibration

import (
	"context"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
)

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MicroBenchIterations is the number of timed repetitions per test.
	MicroBenchIterations = 3

	// MicroBenchTimeout bounds the whole micro-benchmark.
	MicroBenchTimeout = 2 * time.Second
)

// MicroBenchTestSizes are the dimensions probed. Each is compared with one
// level of Strassen recursion on top of the iterative kernel, so the
// smallest winning size locates the sequential crossover.
var MicroBenchTestSizes = []int{32, 64, 128, 256}

type benchKind int

const (
	kindIterative benchKind = iota
	kindSequential
	kindParallel
)

// MicroBenchmark estimates both thresholds from a handful of small
// multiplications, in a fraction of a full calibration's time.
type MicroBenchmark struct {
	TestSizes  []int
	Iterations int
	Timeout    time.Duration
	// Pool runs the parallel probes; nil selects GOMAXPROCS workers.
	Pool *parallel.Pool
}

// ThresholdResults holds the estimates of a micro-benchmark.
type ThresholdResults struct {
	SequentialThreshold int
	ParallelThreshold   int
	// Confidence scores the estimate from 0 to 1.
	Confidence float64
	Duration   time.Duration
}

type testResult struct {
	size     int
	kind     benchKind
	duration time.Duration
	err      error
}

// NewMicroBenchmark returns a MicroBenchmark with the default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestSizes:  MicroBenchTestSizes,
		Iterations: MicroBenchIterations,
		Timeout:    MicroBenchTimeout,
	}
}

// RunQuick runs the probes and derives the thresholds. Probes run one at a
// time so that the parallel ones own every core while they are timed.
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (ThresholdResults, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	pool := mb.Pool
	if pool == nil {
		pool = parallel.NewPool(0)
	}

	var results []testResult
	for _, size := range mb.TestSizes {
		a, b := generateTestMatrix(size, 1), generateTestMatrix(size, 2)
		for _, kind := range []benchKind{kindIterative, kindSequential, kindParallel} {
			if ctx.Err() != nil {
				break
			}
			dur, err := mb.runSingleTest(ctx, a, b, kind, pool)
			results = append(results, testResult{size: size, kind: kind, duration: dur, err: err})
		}
	}

	thresholds := mb.analyzeResults(results)
	thresholds.Duration = time.Since(start)
	return thresholds, nil
}

// runSingleTest warms up once and returns the mean duration of the timed
// iterations.
func (mb *MicroBenchmark) runSingleTest(ctx context.Context, a, b *matrix.Matrix, kind benchKind, pool *parallel.Pool) (time.Duration, error) {
	half := max(a.Dim()/2, 1)
	var algo string
	opts := multiply.Options{Pool: pool}
	switch kind {
	case kindIterative:
		algo = multiply.Iterative
	case kindSequential:
		algo = multiply.StrassenSeq
		opts.SequentialThreshold = half
	case kindParallel:
		algo = multiply.StrassenParallel
		opts.ParallelThreshold = half
	}

	if _, err := multiply.Multiply(ctx, algo, a, b, opts); err != nil {
		return 0, err
	}

	iterations := max(mb.Iterations, 1)
	var total time.Duration
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		if _, err := multiply.Multiply(ctx, algo, a, b, opts); err != nil {
			return 0, err
		}
		total += time.Since(start)
	}
	return total / time.Duration(iterations), nil
}

// generateTestMatrix returns a reproducible random matrix.
func generateTestMatrix(n int, stream uint64) *matrix.Matrix {
	m, _ := matrix.Random(n, rand.New(rand.NewPCG(uint64(n), stream)))
	return m
}

func (mb *MicroBenchmark) analyzeResults(results []testResult) ThresholdResults {
	tr := ThresholdResults{
		SequentialThreshold: multiply.DefaultSequentialThreshold,
		ParallelThreshold:   multiply.DefaultParallelThreshold,
		Confidence:          0.5,
	}

	bySize := make(map[int]map[benchKind]time.Duration)
	for _, r := range results {
		if r.err != nil {
			continue
		}
		if bySize[r.size] == nil {
			bySize[r.size] = make(map[benchKind]time.Duration)
		}
		bySize[r.size][r.kind] = r.duration
	}
	if len(bySize) == 0 {
		tr.Confidence = 0
		return tr
	}

	if crossover := findSequentialCrossover(bySize); crossover > 0 {
		tr.SequentialThreshold = crossover / 2
		tr.Confidence += 0.2
	}
	if crossover := findParallelCrossover(bySize); crossover > 0 {
		tr.ParallelThreshold = crossover / 2
		tr.Confidence += 0.2
	}
	tr.SequentialThreshold, tr.ParallelThreshold = ValidateThresholds(tr.SequentialThreshold, tr.ParallelThreshold)
	return tr
}

// findSequentialCrossover returns the smallest size where one level of
// recursion beats the iterative kernel, or 0.
func findSequentialCrossover(bySize map[int]map[benchKind]time.Duration) int {
	crossover := 0
	for size, d := range bySize {
		iter, okIter := d[kindIterative]
		seq, okSeq := d[kindSequential]
		if okIter && okSeq && seq < iter {
			if crossover == 0 || size < crossover {
				crossover = size
			}
		}
	}
	return crossover
}

// findParallelCrossover returns the smallest size where the parallel
// recursion is at least 10% faster than the sequential one, or 0.
func findParallelCrossover(bySize map[int]map[benchKind]time.Duration) int {
	if runtime.NumCPU() <= 1 {
		return 0
	}
	crossover := 0
	for size, d := range bySize {
		seq, okSeq := d[kindSequential]
		par, okPar := d[kindParallel]
		if okSeq && okPar && par < seq*9/10 {
			if crossover == 0 || size < crossover {
				crossover = size
			}
		}
	}
	return crossover
}

// QuickCalibrate runs a default MicroBenchmark.
func QuickCalibrate(ctx context.Context) (ThresholdResults, error) {
	return NewMicroBenchmark().RunQuick(ctx)
}
