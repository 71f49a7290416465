package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/matbench/internal/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// Each getter reads EnvPrefix+key and falls back to defaultVal when the
// variable is unset or does not parse.

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if parsed, ok := lookupEnvInt(key); ok {
		return parsed
	}
	return defaultVal
}

// lookupEnvInt reports whether EnvPrefix+key holds a valid integer.
func lookupEnvInt(key string) (int, bool) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return 0, false
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseUint(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat64(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool accepts true/1/yes and false/0/no, case-insensitively.
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was given on the command line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides fills every setting whose flag was not given from its
// MATBENCH_* variable: command line > environment > default.
//
// Supported environment variables:
//   - MATBENCH_SIZES: comma-separated dimensions
//   - MATBENCH_ALGO, MATBENCH_PORT, MATBENCH_OUTPUT, MATBENCH_CALIBRATION_PROFILE
//   - MATBENCH_SEQ_THRESHOLD, MATBENCH_PAR_THRESHOLD, MATBENCH_WORKERS,
//     MATBENCH_SAMPLE, MATBENCH_CONCURRENCY, MATBENCH_MAX_DIM, MATBENCH_SEED
//   - MATBENCH_TOLERANCE
//   - MATBENCH_TIMEOUT: a duration such as "90s"
//   - MATBENCH_PAD, MATBENCH_JSON, MATBENCH_QUIET, MATBENCH_VERBOSE,
//     MATBENCH_NO_COLOR, MATBENCH_CALIBRATE, MATBENCH_AUTO_CALIBRATE,
//     MATBENCH_SERVER
//
// Only MATBENCH_SIZES is strict: an unparsable list is a ConfigError.
func applyEnvOverrides(config *AppConfig, sizes *sizeList, fs *flag.FlagSet) error {
	if !isFlagSet(fs, "sizes") {
		if val := os.Getenv(EnvPrefix + "SIZES"); val != "" {
			if err := sizes.Set(val); err != nil {
				return apperrors.NewFlagError("sizes", "%s%s: %v", EnvPrefix, "SIZES", err)
			}
		}
	}
	applyNumericOverrides(config, fs)
	applyDurationOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
	return nil
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if isFlagSet(fs, "seq-threshold") {
		config.SequentialThresholdSet = true
	} else if v, ok := lookupEnvInt("SEQ_THRESHOLD"); ok {
		config.SequentialThreshold = v
		config.SequentialThresholdSet = true
	}
	if isFlagSet(fs, "par-threshold") {
		config.ParallelThresholdSet = true
	} else if v, ok := lookupEnvInt("PAR_THRESHOLD"); ok {
		config.ParallelThreshold = v
		config.ParallelThresholdSet = true
	}
	if !isFlagSet(fs, "workers") {
		config.Workers = getEnvInt("WORKERS", config.Workers)
	}
	if !isFlagSet(fs, "sample") {
		config.Sample = getEnvInt("SAMPLE", config.Sample)
	}
	if !isFlagSet(fs, "concurrency") {
		config.Concurrency = getEnvInt("CONCURRENCY", config.Concurrency)
	}
	if !isFlagSet(fs, "max-dim") {
		config.MaxDim = getEnvInt("MAX_DIM", config.MaxDim)
	}
	if !isFlagSet(fs, "seed") {
		config.Seed = getEnvUint64("SEED", config.Seed)
	}
	if !isFlagSet(fs, "tolerance") {
		config.Tolerance = getEnvFloat64("TOLERANCE", config.Tolerance)
	}
}

func applyDurationOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "algo") {
		config.Algo = getEnvString("ALGO", config.Algo)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output", "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "calibration-profile") {
		config.CalibrationProfile = getEnvString("CALIBRATION_PROFILE", config.CalibrationProfile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "pad") {
		config.Pad = getEnvBool("PAD", config.Pad)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "quiet", "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
	if !isFlagSet(fs, "calibrate") {
		config.Calibrate = getEnvBool("CALIBRATE", config.Calibrate)
	}
	if !isFlagSet(fs, "auto-calibrate") {
		config.AutoCalibrate = getEnvBool("AUTO_CALIBRATE", config.AutoCalibrate)
	}
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
}
