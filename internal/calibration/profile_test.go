package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func validProfile() *CalibrationProfile {
	p := NewProfile()
	p.OptimalSequentialThreshold = 32
	p.OptimalParallelThreshold = 128
	p.CalibrationN = CalibrationN
	return p
}

func TestNewProfile(t *testing.T) {
	t.Parallel()
	profile := NewProfile()

	if profile.NumCPU != runtime.NumCPU() {
		t.Errorf("NumCPU = %d, want %d", profile.NumCPU, runtime.NumCPU())
	}
	if profile.GOARCH != runtime.GOARCH || profile.GOOS != runtime.GOOS {
		t.Errorf("platform = %s/%s", profile.GOOS, profile.GOARCH)
	}
	if profile.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", profile.GoVersion, runtime.Version())
	}
	if profile.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d, want %d", profile.ProfileVersion, CurrentProfileVersion)
	}
	if profile.CalibratedAt.IsZero() {
		t.Error("CalibratedAt is zero")
	}
	if profile.IsValid() {
		t.Error("a profile without thresholds should not be valid")
	}
}

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "profile.json")

	original := validProfile()
	original.CalibrationTime = "1m30s"
	if err := original.SaveProfile(path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if !ProfileExists(path) {
		t.Fatal("profile file was not created")
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if loaded.OptimalSequentialThreshold != 32 || loaded.OptimalParallelThreshold != 128 {
		t.Errorf("thresholds = %d/%d", loaded.OptimalSequentialThreshold, loaded.OptimalParallelThreshold)
	}
	if loaded.CalibrationN != CalibrationN || loaded.CalibrationTime != "1m30s" {
		t.Errorf("metadata not preserved: %+v", loaded)
	}
	if !loaded.IsValid() {
		t.Error("a reloaded profile should stay valid on the same machine")
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"valid", func(*CalibrationProfile) {}, true},
		{"old version", func(p *CalibrationProfile) { p.ProfileVersion = CurrentProfileVersion + 1 }, false},
		{"other core count", func(p *CalibrationProfile) { p.NumCPU++ }, false},
		{"other architecture", func(p *CalibrationProfile) { p.GOARCH = "unknown" }, false},
		{"other cpu features", func(p *CalibrationProfile) { p.CPUFeatures = append(p.CPUFeatures, "imaginary") }, false},
		{"no sequential threshold", func(p *CalibrationProfile) { p.OptimalSequentialThreshold = 0 }, false},
		{"no parallel threshold", func(p *CalibrationProfile) { p.OptimalParallelThreshold = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validProfile()
			tt.mutate(p)
			if got := p.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("nil profile should be invalid")
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	p := validProfile()
	if p.IsStale(time.Hour) {
		t.Error("fresh profile reported stale")
	}
	p.CalibratedAt = time.Now().Add(-48 * time.Hour)
	if !p.IsStale(24 * time.Hour) {
		t.Error("old profile should be stale")
	}
	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile should be stale")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	s := validProfile().String()
	for _, want := range []string{"Sequential: 32", "Parallel: 128", "N: 512"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	var nilProfile *CalibrationProfile
	if nilProfile.String() != "<nil profile>" {
		t.Errorf("nil String() = %q", nilProfile.String())
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if _, err := LoadProfile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfile(bad); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	fresh, loaded := LoadOrCreateProfile(filepath.Join(dir, "missing.json"))
	if loaded || fresh == nil {
		t.Errorf("missing file: loaded=%v profile=%v", loaded, fresh)
	}

	foreign := validProfile()
	foreign.NumCPU = runtime.NumCPU() + 8
	foreignPath := filepath.Join(dir, "foreign.json")
	if err := foreign.SaveProfile(foreignPath); err != nil {
		t.Fatal(err)
	}
	if _, loaded := LoadOrCreateProfile(foreignPath); loaded {
		t.Error("a profile from another machine should not be loaded")
	}

	validPath := filepath.Join(dir, "valid.json")
	if err := validProfile().SaveProfile(validPath); err != nil {
		t.Fatal(err)
	}
	p, loaded := LoadOrCreateProfile(validPath)
	if !loaded || p.OptimalParallelThreshold != 128 {
		t.Errorf("valid profile: loaded=%v profile=%v", loaded, p)
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if path := GetDefaultProfilePath(); !strings.HasSuffix(path, DefaultProfileFileName) {
		t.Errorf("GetDefaultProfilePath() = %q", path)
	}
}
