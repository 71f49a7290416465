// Package multiply implements the dense matrix multiplication algorithms:
// the iterative triple loop, quadrant divide-and-conquer and Strassen, the
// last two in sequential and fork-join parallel variants.
//
// Every algorithm is a coreMultiplier wrapped by MatMultiplier, which adds
// operand validation, tracing, metrics, debug logging and progress
// reporting.
package multiply

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agbru/matbench/internal/matrix"
)

var (
	multiplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matbench_multiplications_total",
			Help: "The total number of matrix multiplications processed",
		},
		[]string{"algorithm", "status"},
	)
	multiplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matbench_multiplication_duration_seconds",
			Help:    "The duration of matrix multiplications in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		},
		[]string{"algorithm"},
	)
)

// Multiplier is the public interface of a multiplication algorithm.
type Multiplier interface {
	// Multiply computes a·b. Progress updates are sent to progressChan
	// without blocking; a nil channel disables them.
	//
	// Parameters:
	//   - ctx: Carries the trace span; multiplication itself is not cancellable.
	//   - progressChan: Destination of progress updates, may be nil.
	//   - runIndex: Identifies the run in progress updates.
	//   - a, b: Square operands of equal dimension.
	//   - opts: Thresholds and worker pool.
	//
	// Returns:
	//   - *matrix.Matrix: A fresh product matrix.
	//   - error: ErrDimensionMismatch, ErrNilMatrix or
	//     ErrMalformedRecursionInput (from the matrix package).
	Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, runIndex int, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error)

	// Name returns the algorithm identifier, e.g. "strassen_parallel".
	Name() string
}

// coreMultiplier is a bare algorithm without cross-cutting concerns.
type coreMultiplier interface {
	MultiplyCore(ctx context.Context, reporter ProgressReporter, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error)
	Name() string
}

// MatMultiplier decorates a coreMultiplier.
type MatMultiplier struct {
	core coreMultiplier
}

// NewMultiplier wraps core. It panics if core is nil.
func NewMultiplier(core coreMultiplier) Multiplier {
	if core == nil {
		panic("multiply: the coreMultiplier implementation cannot be nil")
	}
	return &MatMultiplier{core: core}
}

// Name delegates to the wrapped algorithm.
func (m *MatMultiplier) Name() string {
	return m.core.Name()
}

// Multiply implements Multiplier on top of MultiplyWithObservers.
func (m *MatMultiplier) Multiply(ctx context.Context, progressChan chan<- ProgressUpdate, runIndex int, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return m.MultiplyWithObservers(ctx, subject, runIndex, a, b, opts)
}

// MultiplyWithObservers computes a·b and reports progress to every observer
// of subject. A nil subject disables progress reporting.
//
// Operands are validated before the algorithm runs, so a failed call never
// produces a partial result. On success observers always receive a final
// 1.0 update.
func (m *MatMultiplier) MultiplyWithObservers(ctx context.Context, subject *ProgressSubject, runIndex int, a, b *matrix.Matrix, opts Options) (result *matrix.Matrix, err error) {
	algoName := m.core.Name()
	ctx, span := otel.Tracer("multiply").Start(ctx, "Multiply")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.SetStatus(codes.Error, err.Error())
		}
		multiplicationsTotal.WithLabelValues(algoName, status).Inc()
		multiplicationDuration.WithLabelValues(algoName).Observe(duration)

		log.Debug().
			Str("algo", algoName).
			Int("n", dimOf(a)).
			Float64("duration", duration).
			Str("status", status).
			Msg("multiplication completed")
	}()

	if err = matrix.CheckOperands(a, b); err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("algorithm", algoName),
		attribute.Int("dimension", a.Dim()),
	)

	reporter := ProgressReporter(func(float64) {})
	if subject != nil {
		reporter = subject.AsProgressReporter(runIndex)
	}

	result, err = m.core.MultiplyCore(ctx, reporter, a, b, normalizeOptions(opts))
	if err != nil {
		return nil, err
	}
	reporter(1.0)
	return result, nil
}

func dimOf(m *matrix.Matrix) int {
	if m == nil {
		return -1
	}
	return m.Dim()
}
