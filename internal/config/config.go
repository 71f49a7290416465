// Package config defines the matbench configuration, parses it from
// command-line flags and MATBENCH_* environment variables, and validates it.
package config

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
	"github.com/agbru/matbench/internal/multiply"
	"github.com/agbru/matbench/internal/parallel"
)

// EnvPrefix is the prefix of every environment variable read by matbench.
const EnvPrefix = "MATBENCH_"

// Default configuration values.
const (
	// DefaultSizes is the default list of matrix dimensions to benchmark.
	DefaultSizes = "128,256,512"
	// DefaultAlgo runs every registered algorithm.
	DefaultAlgo = "all"
	// DefaultTimeout bounds a complete benchmark invocation.
	DefaultTimeout = 10 * time.Minute
	// DefaultSample is the edge of the top-left block of the product printed
	// after each size.
	DefaultSample = 5
	// DefaultConcurrency runs algorithms one at a time so that timings do not
	// compete for cores.
	DefaultConcurrency = 1
	// DefaultTolerance is the maximum relative error accepted between an
	// algorithm and the reference product.
	DefaultTolerance = 1e-9
	// DefaultPort is the HTTP port in server mode.
	DefaultPort = "8080"
	// DefaultMaxDim is the largest dimension accepted by the HTTP API.
	DefaultMaxDim = 1024
)

// AppConfig aggregates every setting of a matbench invocation.
type AppConfig struct {
	// Sizes lists the matrix dimensions to benchmark, in order.
	Sizes []int
	// Algo is "all" or one algorithm identifier.
	Algo string
	// SequentialThreshold is the base-case dimension of the sequential
	// recursive algorithms.
	SequentialThreshold int
	// ParallelThreshold is the base-case dimension of the parallel algorithms.
	ParallelThreshold int
	// SequentialThresholdSet and ParallelThresholdSet record a threshold
	// given by flag or environment. Calibration never replaces those.
	SequentialThresholdSet bool
	ParallelThresholdSet   bool
	// Workers is the size of the shared worker pool; 0 selects GOMAXPROCS.
	Workers int
	// Seed seeds the random inputs; 0 derives a seed from the clock.
	Seed uint64
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Sample is the edge of the result block printed per size; 0 disables it.
	Sample int
	// Pad embeds non-power-of-two inputs into the next power of two before
	// running the recursive algorithms.
	Pad bool
	// Concurrency is the number of algorithms run at the same time.
	Concurrency int
	// Tolerance is the accepted relative error against the reference.
	Tolerance float64
	// JSONOutput prints a models.BenchmarkReport instead of tables.
	JSONOutput bool
	// Quiet suppresses progress, banners and samples.
	Quiet bool
	// Verbose enables debug logging of every multiplication.
	Verbose bool
	// NoColor disables ANSI colors (NO_COLOR is also honored).
	NoColor bool
	// OutputFile receives the reference product of the last size as CSV.
	OutputFile string
	// Calibrate runs the threshold calibration instead of the benchmark.
	Calibrate bool
	// AutoCalibrate runs a short calibration before the benchmark.
	AutoCalibrate bool
	// CalibrationProfile is the profile path; empty selects
	// ~/.matbench_calibration.json.
	CalibrationProfile string
	// ServerMode starts the HTTP API.
	ServerMode bool
	// Port is the HTTP listen port.
	Port string
	// MaxDim is the largest dimension accepted by the HTTP API.
	MaxDim int
	// ShowVersion prints the version and exits.
	ShowVersion bool
}

// ToMultiplyOptions converts the configuration into engine options sharing
// pool.
func (c AppConfig) ToMultiplyOptions(pool *parallel.Pool) multiply.Options {
	return multiply.Options{
		SequentialThreshold: c.SequentialThreshold,
		ParallelThreshold:   c.ParallelThreshold,
		Pool:                pool,
	}
}

// WithTunedThresholds returns c with the thresholds that were not set
// explicitly replaced by sequential and parallel. Non-positive values are
// ignored.
func (c AppConfig) WithTunedThresholds(sequential, parallel int) AppConfig {
	if !c.SequentialThresholdSet && sequential > 0 {
		c.SequentialThreshold = sequential
	}
	if !c.ParallelThresholdSet && parallel > 0 {
		c.ParallelThreshold = parallel
	}
	return c
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableAlgos: The registered algorithm identifiers.
//
// Returns:
//   - error: An apperrors.ConfigError naming the first invalid setting.
func (c AppConfig) Validate(availableAlgos []string) error {
	if len(c.Sizes) == 0 && !c.ServerMode && !c.Calibrate {
		return apperrors.NewFlagError("sizes", "at least one size is required")
	}
	for _, n := range c.Sizes {
		if n <= 0 {
			return apperrors.NewFlagError("sizes", "sizes must be strictly positive, got %d", n)
		}
	}
	if c.Timeout <= 0 {
		return apperrors.NewFlagError("timeout", "must be strictly positive")
	}
	if c.SequentialThreshold < 0 {
		return apperrors.NewFlagError("seq-threshold", "cannot be negative: %d", c.SequentialThreshold)
	}
	if c.ParallelThreshold < 0 {
		return apperrors.NewFlagError("par-threshold", "cannot be negative: %d", c.ParallelThreshold)
	}
	if c.Workers < 0 {
		return apperrors.NewFlagError("workers", "cannot be negative: %d", c.Workers)
	}
	if c.Sample < 0 {
		return apperrors.NewFlagError("sample", "cannot be negative: %d", c.Sample)
	}
	if c.Concurrency < 1 {
		return apperrors.NewFlagError("concurrency", "must be at least 1, got %d", c.Concurrency)
	}
	if !(c.Tolerance > 0) {
		return apperrors.NewFlagError("tolerance", "must be > 0, got %g", c.Tolerance)
	}
	if c.MaxDim < 1 {
		return apperrors.NewFlagError("max-dim", "must be at least 1, got %d", c.MaxDim)
	}
	if c.Algo != DefaultAlgo && !contains(availableAlgos, c.Algo) {
		return apperrors.NewFlagError("algo", "unrecognized algorithm '%s'. Valid algorithms are: 'all' or [%s]",
			c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseConfig parses args into an AppConfig, applies environment overrides
// for flags that were not given explicitly, and validates the result.
//
// Parameters:
//   - programName: Name shown in the usage message.
//   - args: Command-line arguments without the program name.
//   - errorWriter: Destination of usage and parse errors.
//   - availableAlgos: The registered algorithm identifiers.
//
// Returns:
//   - AppConfig: The configuration.
//   - error: flag.ErrHelp, a parse error, or an apperrors.ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to run: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	sizes := sizeList{}
	_ = sizes.Set(DefaultSizes)
	fs.Var(&sizes, "sizes", "Comma-separated matrix dimensions to benchmark.")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.IntVar(&config.SequentialThreshold, "seq-threshold", multiply.DefaultSequentialThreshold, "Base-case dimension of the sequential recursive algorithms.")
	fs.IntVar(&config.ParallelThreshold, "par-threshold", multiply.DefaultParallelThreshold, "Base-case dimension of the parallel algorithms.")
	fs.IntVar(&config.Workers, "workers", 0, "Worker pool size for the parallel algorithms (0 = GOMAXPROCS).")
	fs.Uint64Var(&config.Seed, "seed", 0, "Seed of the random inputs (0 = time based).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the whole benchmark.")
	fs.IntVar(&config.Sample, "sample", DefaultSample, "Edge of the top-left block of the product to print (0 to disable).")
	fs.BoolVar(&config.Pad, "pad", false, "Pad non-power-of-two sizes to the next power of two.")
	fs.IntVar(&config.Concurrency, "concurrency", DefaultConcurrency, "Number of algorithms run at the same time.")
	fs.Float64Var(&config.Tolerance, "tolerance", DefaultTolerance, "Maximum relative error against the reference product.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output a JSON report.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Log every multiplication at debug level.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write the reference product of the last size to this CSV file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the best recursion thresholds for this machine.")
	fs.BoolVar(&config.AutoCalibrate, "auto-calibrate", false, "Run a quick calibration before benchmarking.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to the calibration profile (default: ~/.matbench_calibration.json).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.IntVar(&config.MaxDim, "max-dim", DefaultMaxDim, "Largest matrix dimension accepted by the HTTP API.")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version information and exit.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if err := applyEnvOverrides(&config, &sizes, fs); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		return AppConfig{}, err
	}
	config.Sizes = sizes.values

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
