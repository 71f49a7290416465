package calibration

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// cpuFeatures lists the SIMD-related features of the current CPU that
// influence the speed of the float64 base case. A profile recorded on a CPU
// with a different set is not reused.
func cpuFeatures() []string {
	var features []string
	add := func(name string, present bool) {
		if present {
			features = append(features, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add("sse2", cpu.X86.HasSSE2)
		add("sse41", cpu.X86.HasSSE41)
		add("avx", cpu.X86.HasAVX)
		add("avx2", cpu.X86.HasAVX2)
		add("fma", cpu.X86.HasFMA)
		add("avx512f", cpu.X86.HasAVX512F)
	case "arm64":
		add("asimd", cpu.ARM64.HasASIMD)
		add("fp", cpu.ARM64.HasFP)
		add("sve", cpu.ARM64.HasSVE)
	}
	return features
}
