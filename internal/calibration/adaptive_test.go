package calibration

import (
	"runtime"
	"slices"
	"sort"
	"testing"

	"github.com/agbru/matbench/internal/multiply"
)

func TestGeneratedThresholds(t *testing.T) {
	t.Parallel()
	lists := map[string][]int{
		"sequential":       GenerateSequentialThresholds(),
		"quick sequential": GenerateQuickSequentialThresholds(),
		"parallel":         GenerateParallelThresholds(),
		"quick parallel":   GenerateQuickParallelThresholds(),
	}
	for name, list := range lists {
		if len(list) == 0 {
			t.Errorf("%s: empty candidate list", name)
		}
		if !sort.IntsAreSorted(list) {
			t.Errorf("%s: candidates not ascending: %v", name, list)
		}
		for _, c := range list {
			if c < MinThreshold || c > MaxThreshold || c&(c-1) != 0 {
				t.Errorf("%s: candidate %d is not a power of two within bounds", name, c)
			}
		}
	}

	if runtime.NumCPU() == 1 && !slices.Equal(GenerateParallelThresholds(), []int{multiply.DefaultParallelThreshold}) {
		t.Errorf("single core should only test the default, got %v", GenerateParallelThresholds())
	}
	if len(GenerateQuickParallelThresholds()) > len(GenerateParallelThresholds()) {
		t.Error("quick set should not be larger than the full set")
	}
}

func TestEstimatedThresholds(t *testing.T) {
	t.Parallel()
	seq, par := EstimatedThresholds()
	if seq != multiply.DefaultSequentialThreshold {
		t.Errorf("sequential estimate = %d", seq)
	}
	if par < MinThreshold || par > MaxThreshold {
		t.Errorf("parallel estimate %d out of bounds", par)
	}
}

func TestValidateThresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		seq, par         int
		wantSeq, wantPar int
	}{
		{64, 128, 64, 128},
		{0, -5, MinThreshold, MinThreshold},
		{MaxThreshold + 1, 1 << 20, MaxThreshold, MaxThreshold},
	}
	for _, tt := range tests {
		seq, par := ValidateThresholds(tt.seq, tt.par)
		if seq != tt.wantSeq || par != tt.wantPar {
			t.Errorf("ValidateThresholds(%d, %d) = (%d, %d), want (%d, %d)", tt.seq, tt.par, seq, par, tt.wantSeq, tt.wantPar)
		}
	}
}

func TestThresholdSets(t *testing.T) {
	t.Parallel()
	full := GenerateFullThresholdSet()
	quick := GenerateQuickThresholdSet()
	if len(full.Sequential) < len(quick.Sequential) {
		t.Error("full sequential set smaller than quick set")
	}

	set := ThresholdSet{Sequential: []int{128, 16, 64}, Parallel: []int{256, 32}}
	set.SortThresholds()
	if !slices.Equal(set.Sequential, []int{16, 64, 128}) || !slices.Equal(set.Parallel, []int{32, 256}) {
		t.Errorf("SortThresholds() = %+v", set)
	}
}
