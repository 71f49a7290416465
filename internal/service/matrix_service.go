// Package service holds the request-level multiplication logic shared by the
// HTTP handlers: input validation, size limits, algorithm lookup and a
// result cache.
package service

//go:generate mockgen -source=matrix_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/agbru/matbench/internal/config"
	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/logging"
	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
	"github.com/agbru/matbench/pkg/models"
)

// DefaultCacheSize is the number of products kept by the result cache.
const DefaultCacheSize = 64

var (
	// ErrDimensionTooLarge is returned when an operand exceeds the configured
	// maximum dimension.
	ErrDimensionTooLarge = errors.New("matrix dimension exceeds the configured maximum")

	// ErrNonFiniteResult is returned when the product holds NaN or an
	// infinity, which JSON cannot represent.
	ErrNonFiniteResult = errors.New("product contains NaN or infinite values")
)

// Service multiplies the operands of an API request.
type Service interface {
	// Multiply validates req, runs the requested algorithm and returns the
	// product.
	//
	// Parameters:
	//   - ctx: The request context.
	//   - req: The algorithm and the two operands, as rows.
	//
	// Returns:
	//   - models.MultiplyResponse: The product and its timing.
	//   - error: ErrDimensionTooLarge, an apperrors.ValidationError,
	//     multiply.ErrUnknownAlgorithm or an engine error.
	Multiply(ctx context.Context, req models.MultiplyRequest) (models.MultiplyResponse, error)
}

// CacheStats reports the activity of the result cache.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Size    int
	HitRate float64
}

type cacheKey struct {
	algorithm string
	n         int
	a, b      uint64
}

// MatrixService is the default Service. Products are cached by algorithm
// and operand fingerprints, so repeated requests skip the computation.
type MatrixService struct {
	factory multiply.Factory
	opts    multiply.Options
	maxDim  int
	logger  logging.Logger
	cache   *lru.Cache
	hits    atomic.Uint64
	misses  atomic.Uint64
}

var _ Service = (*MatrixService)(nil)

// NewMatrixService creates a MatrixService.
//
// Parameters:
//   - factory: The algorithm registry.
//   - cfg: The application configuration; thresholds and MaxDim are used.
//   - pool: The worker pool shared by the parallel algorithms.
//   - logger: Receives one debug line per request; nil discards them.
//
// Returns:
//   - *MatrixService: The service.
//   - error: An error if the cache cannot be created.
func NewMatrixService(factory multiply.Factory, cfg config.AppConfig, pool *parallel.Pool, logger logging.Logger) (*MatrixService, error) {
	return NewMatrixServiceWithCache(factory, cfg, pool, logger, DefaultCacheSize)
}

// NewMatrixServiceWithCache is NewMatrixService with an explicit cache size.
// A size of zero or less disables caching.
func NewMatrixServiceWithCache(factory multiply.Factory, cfg config.AppConfig, pool *parallel.Pool, logger logging.Logger, cacheSize int) (*MatrixService, error) {
	s := &MatrixService{
		factory: factory,
		opts:    cfg.ToMultiplyOptions(pool),
		maxDim:  cfg.MaxDim,
		logger:  logger,
	}
	if cacheSize > 0 {
		cache, err := lru.New(cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating result cache: %w", err)
		}
		s.cache = cache
	}
	return s, nil
}

// Multiply implements Service.
func (s *MatrixService) Multiply(ctx context.Context, req models.MultiplyRequest) (models.MultiplyResponse, error) {
	if s.maxDim > 0 && (len(req.A) > s.maxDim || len(req.B) > s.maxDim) {
		return models.MultiplyResponse{}, fmt.Errorf("%w (%d)", ErrDimensionTooLarge, s.maxDim)
	}

	algo := req.Algorithm
	if algo == "" {
		algo = multiply.StrassenParallel
	}
	m, err := s.factory.Get(algo)
	if err != nil {
		return models.MultiplyResponse{}, err
	}

	a, err := operand("a", req.A)
	if err != nil {
		return models.MultiplyResponse{}, err
	}
	b, err := operand("b", req.B)
	if err != nil {
		return models.MultiplyResponse{}, err
	}
	if err := matrix.CheckOperands(a, b); err != nil {
		return models.MultiplyResponse{}, apperrors.ValidationError{
			Field: "b", Message: err.Error(), Value: b.Dim(), Cause: err,
		}
	}

	if err := ctx.Err(); err != nil {
		return models.MultiplyResponse{}, err
	}

	key := cacheKey{algorithm: algo, n: a.Dim(), a: a.Fingerprint(), b: b.Fingerprint()}
	if product, ok := s.lookup(key); ok {
		s.debug("cache hit", algo, a.Dim(), 0)
		return response(algo, product, 0, true), nil
	}

	start := time.Now()
	product, err := m.Multiply(ctx, nil, 0, a, b, s.opts)
	duration := time.Since(start)
	if err != nil {
		return models.MultiplyResponse{}, apperrors.MultiplicationError{Algorithm: algo, Size: a.Dim(), Cause: err}
	}
	// The multiplication itself does not observe ctx.
	if err := ctx.Err(); err != nil {
		return models.MultiplyResponse{}, err
	}
	if !product.IsFinite() {
		return models.MultiplyResponse{}, apperrors.MultiplicationError{Algorithm: algo, Size: a.Dim(), Cause: ErrNonFiniteResult}
	}
	if s.cache != nil {
		s.cache.Add(key, product)
	}
	s.debug("multiplication complete", algo, a.Dim(), duration)
	return response(algo, product, duration, false), nil
}

// Stats returns the cache statistics.
func (s *MatrixService) Stats() CacheStats {
	hits, misses := s.hits.Load(), s.misses.Load()
	stats := CacheStats{Hits: hits, Misses: misses}
	if s.cache != nil {
		stats.Size = s.cache.Len()
	}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	return stats
}

func (s *MatrixService) lookup(key cacheKey) (*matrix.Matrix, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	s.hits.Add(1)
	return v.(*matrix.Matrix), true
}

func (s *MatrixService) debug(msg, algo string, n int, d time.Duration) {
	if s.logger == nil {
		return
	}
	s.logger.Debug(msg,
		logging.String("algorithm", algo),
		logging.Int("dimension", n),
		logging.Duration("duration", d))
}

func operand(field string, rows [][]float64) (*matrix.Matrix, error) {
	if rows == nil {
		return nil, apperrors.NewValidationError(field, "operand is required", nil)
	}
	m, err := matrix.FromRows(rows)
	if err != nil {
		return nil, apperrors.ValidationError{Field: field, Message: err.Error(), Value: len(rows), Cause: err}
	}
	return m, nil
}

func response(algo string, product *matrix.Matrix, d time.Duration, cached bool) models.MultiplyResponse {
	return models.MultiplyResponse{
		Algorithm: algo,
		Dimension: product.Dim(),
		Duration:  d.String(),
		Result:    product.Rows(),
		Cached:    cached,
	}
}
