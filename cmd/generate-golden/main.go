package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// GoldenData is one test case of the golden file.
type GoldenData struct {
	N int         `json:"n"`
	A [][]float64 `json:"a"`
	B [][]float64 `json:"b"`
	C [][]float64 `json:"c"`
}

func main() {
	outputDir := flag.String("out", "internal/multiply/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}

	filename := filepath.Join(*outputDir, "golden.json")
	file, err := os.Create(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer file.Close()

	// Inputs are small integers so that every algorithm, whatever its
	// summation order, must reproduce the product exactly.
	sizes := []int{1, 2, 4, 8, 16}

	var data []GoldenData
	fmt.Println("Generating golden data...")
	for _, n := range sizes {
		a := fill(n, func(i, j int) int { return (i*3+j*5)%7 - 3 })
		b := fill(n, func(i, j int) int { return (i*2+j*7+1)%5 - 2 })
		data = append(data, GoldenData{N: n, A: a, B: b, C: product(a, b)})
		fmt.Printf("Generated %dx%d\n", n, n)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully generated golden file at %s\n", filename)
}

func fill(n int, f func(i, j int) int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = float64(f(i, j))
		}
	}
	return rows
}

// product is the reference oracle: a plain triple loop over slices,
// independent of the matrix package.
func product(a, b [][]float64) [][]float64 {
	n := len(a)
	c := make([][]float64, n)
	for i := range c {
		c[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}
	return c
}
