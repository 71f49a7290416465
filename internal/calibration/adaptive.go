package calibration

import (
	"runtime"
	"sort"

	"github.com/agbru/matbench/internal/multiply"
)

// Threshold bounds accepted from a calibration. A threshold above the
// largest benchmarked size simply disables recursion.
const (
	MinThreshold = 1
	MaxThreshold = 4096
)

// ─────────────────────────────────────────────────────────────────────────────
// Candidate generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateSequentialThresholds returns the base-case sizes tried for the
// sequential recursions. They bracket the point where the iterative kernel
// stops fitting in cache, which depends little on the core count.
func GenerateSequentialThresholds() []int {
	return []int{16, 32, 64, 128, 256}
}

// GenerateQuickSequentialThresholds is the reduced set used at startup.
func GenerateQuickSequentialThresholds() []int {
	return []int{32, 64, 128}
}

// GenerateParallelThresholds returns the base-case sizes tried for the
// parallel recursions. More cores favour smaller leaves, which expose more
// branches to the pool. A single core only gets the sequential default.
func GenerateParallelThresholds() []int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU == 1:
		return []int{multiply.DefaultParallelThreshold}
	case numCPU <= 4:
		return []int{64, 128, 256}
	case numCPU <= 8:
		return []int{32, 64, 128, 256}
	default:
		return []int{32, 64, 128, 256, 512}
	}
}

// GenerateQuickParallelThresholds is the reduced set used at startup.
func GenerateQuickParallelThresholds() []int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU == 1:
		return []int{multiply.DefaultParallelThreshold}
	case numCPU <= 4:
		return []int{64, 128}
	default:
		return []int{32, 64, 128}
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Estimates without benchmarking
// ─────────────────────────────────────────────────────────────────────────────

// EstimateOptimalSequentialThreshold returns the sequential default.
func EstimateOptimalSequentialThreshold() int {
	return multiply.DefaultSequentialThreshold
}

// EstimateOptimalParallelThreshold guesses a parallel threshold from the
// number of cores.
func EstimateOptimalParallelThreshold() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 2:
		return 256
	case numCPU <= 8:
		return multiply.DefaultParallelThreshold
	default:
		return 64
	}
}

// EstimatedThresholds returns both estimates.
func EstimatedThresholds() (sequential, parallel int) {
	return EstimateOptimalSequentialThreshold(), EstimateOptimalParallelThreshold()
}

// ValidateThresholds clamps both thresholds to [MinThreshold, MaxThreshold].
func ValidateThresholds(sequential, parallel int) (int, int) {
	return clampThreshold(sequential), clampThreshold(parallel)
}

func clampThreshold(t int) int {
	if t < MinThreshold {
		return MinThreshold
	}
	if t > MaxThreshold {
		return MaxThreshold
	}
	return t
}

// ─────────────────────────────────────────────────────────────────────────────
// Combined sets
// ─────────────────────────────────────────────────────────────────────────────

// ThresholdSet groups the candidates of both searches.
type ThresholdSet struct {
	Sequential []int
	Parallel   []int
}

// GenerateFullThresholdSet returns the candidates of a full calibration.
func GenerateFullThresholdSet() ThresholdSet {
	return ThresholdSet{
		Sequential: GenerateSequentialThresholds(),
		Parallel:   GenerateParallelThresholds(),
	}
}

// GenerateQuickThresholdSet returns the candidates of an auto-calibration.
func GenerateQuickThresholdSet() ThresholdSet {
	return ThresholdSet{
		Sequential: GenerateQuickSequentialThresholds(),
		Parallel:   GenerateQuickParallelThresholds(),
	}
}

// SortThresholds sorts both candidate lists in ascending order.
func (t *ThresholdSet) SortThresholds() {
	sort.Ints(t.Sequential)
	sort.Ints(t.Parallel)
}
