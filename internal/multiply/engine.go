package multiply

import (
	"context"

	"github.com/agbru/matbench/internal/matrix"
)

// Multiply computes a·b with the algorithm registered under algorithmID in
// the global factory.
//
// Parameters:
//   - ctx: Used for tracing only.
//   - algorithmID: One of the identifiers listed by GlobalFactory().List().
//   - a, b: Square operands of equal dimension.
//   - opts: Thresholds and worker pool; zero values select the defaults.
//
// Returns:
//   - *matrix.Matrix: The product, or nil on error.
//   - error: ErrUnknownAlgorithm, or an error from the matrix package.
func Multiply(ctx context.Context, algorithmID string, a, b *matrix.Matrix, opts Options) (*matrix.Matrix, error) {
	m, err := GlobalFactory().Get(algorithmID)
	if err != nil {
		return nil, err
	}
	return m.Multiply(ctx, nil, 0, a, b, opts)
}
