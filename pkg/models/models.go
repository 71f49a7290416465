/*
Package models defines the JSON records shared by the benchmark report and
the HTTP API.

These models are used for:
- **Benchmark reports**: one record per (size, algorithm) run, emitted with -json.
- **HTTP API**: request and response bodies of the /multiply endpoint.
*/
package models

// RunStatus classifies the outcome of a benchmark run.
type RunStatus string

const (
	StatusOK       RunStatus = "ok"
	StatusMismatch RunStatus = "mismatch"
	StatusError    RunStatus = "error"
)

// BenchmarkRecord is one row of the benchmark report.
type BenchmarkRecord struct {
	Algorithm     string    `json:"algorithm"`             // Algorithm identifier.
	Size          int       `json:"size"`                  // Requested dimension.
	PaddedSize    int       `json:"padded_size,omitempty"` // Dimension actually multiplied, when padded.
	DurationNS    int64     `json:"duration_ns"`           // Wall-clock time in nanoseconds.
	Duration      string    `json:"duration"`              // Human readable duration.
	AllocBytes    uint64    `json:"alloc_bytes"`           // Bytes allocated during the run.
	RelativeError float64   `json:"relative_error"`        // Distance to the reference product.
	Status        RunStatus `json:"status"`                // ok, mismatch or error.
	Error         string    `json:"error,omitempty"`       // Failure message, if any.
	Reference     bool      `json:"reference,omitempty"`   // Set on the run used as reference.
}

// BenchmarkReport is the complete output of a benchmark invocation.
type BenchmarkReport struct {
	Timestamp           string            `json:"timestamp"`
	Seed                uint64            `json:"seed"`
	Workers             int               `json:"workers"`
	SequentialThreshold int               `json:"sequential_threshold"`
	ParallelThreshold   int               `json:"parallel_threshold"`
	Tolerance           float64           `json:"tolerance"`
	Results             []BenchmarkRecord `json:"results"`
}

// MultiplyRequest is the body of POST /multiply.
type MultiplyRequest struct {
	Algorithm string      `json:"algorithm"`
	A         [][]float64 `json:"a"`
	B         [][]float64 `json:"b"`
}

// MultiplyResponse is the successful answer of POST /multiply.
type MultiplyResponse struct {
	Algorithm string      `json:"algorithm"`
	Dimension int         `json:"dimension"`
	Duration  string      `json:"duration"`
	Result    [][]float64 `json:"result"`
	Cached    bool        `json:"cached"`
}

// ErrorResponse is the body of every API error.
type ErrorResponse struct {
	// Error is the HTTP status text.
	Error string `json:"error"`
	// Message describes the failure.
	Message string `json:"message,omitempty"`
}
