package multiply

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/agbru/matbench/internal/matrix"
	"github.com/agbru/matbench/internal/parallel"
)

// goldenCase mirrors an entry of testdata/golden.json.
type goldenCase struct {
	N int         `json:"n"`
	A [][]float64 `json:"a"`
	B [][]float64 `json:"b"`
	C [][]float64 `json:"c"`
}

func TestAlgorithmsAgainstGoldenFile(t *testing.T) {
	goldenPath := filepath.Join("testdata", "golden.json")
	file, err := os.Open(goldenPath)
	if err != nil {
		t.Fatalf("Failed to open golden file: %v. Did you run 'go run ./cmd/generate-golden'?", err)
	}
	defer file.Close()

	var cases []goldenCase
	if err := json.NewDecoder(file).Decode(&cases); err != nil {
		t.Fatalf("Failed to decode golden file: %v", err)
	}
	if len(cases) == 0 {
		t.Fatal("golden file is empty")
	}

	// Golden inputs are small integers, so every algorithm is exact.
	opts := Options{SequentialThreshold: 2, ParallelThreshold: 2, Pool: parallel.NewPool(4)}
	ctx := context.Background()

	for _, id := range allAlgorithms() {
		t.Run(id, func(t *testing.T) {
			t.Parallel()
			for _, tc := range cases {
				t.Run(fmt.Sprintf("N=%d", tc.N), func(t *testing.T) {
					a := mustFromRows(t, tc.A)
					b := mustFromRows(t, tc.B)
					want := mustFromRows(t, tc.C)

					got, err := Multiply(ctx, id, a, b, opts)
					if err != nil {
						t.Fatalf("multiplication failed: %v", err)
					}
					if !got.Equal(want) {
						rel, _ := matrix.RelativeError(got, want)
						t.Errorf("mismatch for N=%d (relative error %g)", tc.N, rel)
					}
				})
			}
		})
	}
}
