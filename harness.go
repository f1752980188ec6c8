// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peakflops

import (
	"fmt"
	"time"

	"github.com/LynnColeArt/peakflops/compute/asm/fma"
)

// Measurement is the result of timing one kernel invocation.
type Measurement struct {
	Workload   Workload
	Elapsed    time.Duration
	Throughput float64 // elementary FLOPs per second
	Check      float64 // reduced accumulator value, kept observable so the loop cannot be eliminated
}

// GFLOPS returns the throughput in billions of operations per second
func (m Measurement) GFLOPS() float64 {
	return m.Throughput / 1e9
}

// Harness wraps kernel invocations with monotonic wall-clock timing. A
// Harness is immutable after construction and safe for concurrent use; each
// Measure call runs on its own private accumulator bank.
type Harness struct {
	portable bool
	now      func() time.Time
}

// NewHarness returns a harness driving the AVX-512 vector kernels
func NewHarness() *Harness {
	return &Harness{now: time.Now}
}

// NewPortableHarness returns a harness driving the pure-Go kernel variant.
// Lane geometry is unchanged, so throughput figures stay comparable with the
// vector kernels.
func NewPortableHarness() *Harness {
	return &Harness{portable: true, now: time.Now}
}

// Measure runs one timed kernel invocation for w
func (h *Harness) Measure(w Workload) (Measurement, error) {
	if err := w.Validate(); err != nil {
		return Measurement{}, err
	}
	kernel, err := h.kernel(w.Precision)
	if err != nil {
		return Measurement{}, err
	}

	start := h.now()
	check := kernel(w.Iterations)
	elapsed := h.now().Sub(start)

	m := Measurement{Workload: w, Elapsed: elapsed, Check: check}
	m.Throughput, err = Throughput(w, elapsed)
	if err != nil {
		return m, err
	}
	return m, nil
}

// kernel selects the kernel function for p, gating the vector kernels on
// CPU support so an unsupported machine gets an error, never a panic or a
// silent fallback.
func (h *Harness) kernel(p Precision) (func(int64) float64, error) {
	if h.portable {
		if p == FP64 {
			return fma.Float64Portable, nil
		}
		return func(iters int64) float64 { return float64(fma.Float32Portable(iters)) }, nil
	}
	if !fma.Supported() {
		return nil, NewDeviceError("Harness.Measure",
			fmt.Sprintf("AVX-512F required by the vector kernel is not available (detected: %s)", GetCPUInfo()))
	}
	if p == FP64 {
		return fma.Float64, nil
	}
	return func(iters int64) float64 { return float64(fma.Float32(iters)) }, nil
}

// Throughput converts a workload plus a measured duration into operations
// per second. A zero or negative duration signals a clock anomaly and
// returns a timing error rather than propagating infinity.
func Throughput(w Workload, elapsed time.Duration) (float64, error) {
	if elapsed <= 0 {
		return 0, NewTimingError("Throughput",
			fmt.Sprintf("non-positive elapsed duration %v", elapsed))
	}
	return float64(w.TotalOps()) / elapsed.Seconds(), nil
}
