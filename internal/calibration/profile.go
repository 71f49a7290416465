// Package calibration measures the recursion thresholds that make the
// recursive multiplication algorithms fastest on the current machine, and
// persists them in a JSON profile so later runs can skip the measurement.
package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"
)

// CalibrationProfile stores calibrated thresholds together with the
// hardware they were measured on, so stale or foreign profiles can be
// rejected.
type CalibrationProfile struct {
	CPUModel    string   `json:"cpu_model"`
	NumCPU      int      `json:"num_cpu"`
	GOARCH      string   `json:"goarch"`
	GOOS        string   `json:"goos"`
	GoVersion   string   `json:"go_version"`
	CPUFeatures []string `json:"cpu_features,omitempty"`

	OptimalSequentialThreshold int `json:"optimal_sequential_threshold"`
	OptimalParallelThreshold   int `json:"optimal_parallel_threshold"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationN    int       `json:"calibration_n"`
	CalibrationTime string    `json:"calibration_time"`

	ProfileVersion int `json:"profile_version"`
}

const (
	// CurrentProfileVersion is bumped on incompatible format changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is the profile file name in the home directory.
	DefaultProfileFileName = ".matbench_calibration.json"
)

// GetDefaultProfilePath returns ~/.matbench_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// NewProfile returns an empty profile describing the current machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		CPUModel:       getCPUModel(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		CPUFeatures:    cpuFeatures(),
		CalibratedAt:   time.Now(),
		ProfileVersion: CurrentProfileVersion,
	}
}

func getCPUModel() string {
	return fmt.Sprintf("%s-%d-cores", runtime.GOARCH, runtime.NumCPU())
}

// LoadProfile reads the profile at path (the default path when empty).
func LoadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(resolveProfilePath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile CalibrationProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes p as indented JSON to path (the default path when
// empty), readable by the owner only.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(resolveProfilePath(path), data, 0600); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// IsValid reports whether p was produced by this profile version on a
// machine with the same core count, architecture and CPU features, and
// holds usable thresholds.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	if p.ProfileVersion != CurrentProfileVersion {
		return false
	}
	if p.NumCPU != runtime.NumCPU() || p.GOARCH != runtime.GOARCH {
		return false
	}
	if p.CPUFeatures != nil && !slices.Equal(p.CPUFeatures, cpuFeatures()) {
		return false
	}
	return p.OptimalSequentialThreshold > 0 && p.OptimalParallelThreshold > 0
}

// IsStale reports whether p is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	if p == nil {
		return "<nil profile>"
	}
	return fmt.Sprintf(
		"CalibrationProfile{CPU: %s, Sequential: %d, Parallel: %d, N: %d, Calibrated: %s}",
		p.CPUModel,
		p.OptimalSequentialThreshold,
		p.OptimalParallelThreshold,
		p.CalibrationN,
		p.CalibratedAt.Format(time.RFC3339),
	)
}

// LoadOrCreateProfile returns the profile at path and true when it exists
// and is valid for this machine, or a fresh profile and false otherwise.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	profile, err := LoadProfile(path)
	if err != nil || !profile.IsValid() {
		return NewProfile(), false
	}
	return profile, true
}

// ProfileExists reports whether a file exists at path (the default path
// when empty).
func ProfileExists(path string) bool {
	_, err := os.Stat(resolveProfilePath(path))
	return err == nil
}
