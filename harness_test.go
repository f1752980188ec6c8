// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peakflops

import (
	"math"
	"testing"
	"time"

	"github.com/LynnColeArt/peakflops/compute/asm/fma"
)

// stepClock returns a clock that advances by step on every reading, giving
// measurements a known elapsed duration.
func stepClock(step time.Duration) func() time.Time {
	t := time.Unix(0, 0)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func TestThroughputFormula(t *testing.T) {
	cases := []struct {
		iterations int64
		precision  Precision
		elapsed    time.Duration
		want       float64
	}{
		// 1000 * 10 * 16 * 2 = 320000 ops over 0.0001s = 3.2 GFLOPS, exactly
		{1000, FP32, 100 * time.Microsecond, 3.2e9},
		// 1000 * 10 * 8 * 2 = 160000 ops over 0.0001s
		{1000, FP64, 100 * time.Microsecond, 1.6e9},
		{1, FP32, time.Second, 320},
		{500, FP64, 2 * time.Second, 40000},
	}
	for _, c := range cases {
		w := Workload{Iterations: c.iterations, Unroll: DefaultUnroll, Precision: c.precision}
		got, err := Throughput(w, c.elapsed)
		if err != nil {
			t.Fatalf("Throughput(%+v, %v): %v", w, c.elapsed, err)
		}
		if got != c.want {
			t.Errorf("Throughput(%d iters, %v, %v) = %v, want %v",
				c.iterations, c.precision, c.elapsed, got, c.want)
		}
	}
}

func TestThroughputDegenerateDuration(t *testing.T) {
	w := DefaultWorkload(FP32)
	for _, d := range []time.Duration{0, -time.Millisecond} {
		got, err := Throughput(w, d)
		if err == nil {
			t.Fatalf("Throughput(elapsed=%v) = %v, want timing error", d, got)
		}
		if !IsErrorType(err, ErrTypeTiming) {
			t.Errorf("error type for elapsed=%v: %v, want Timing", d, err)
		}
		if math.IsInf(got, 0) {
			t.Errorf("Throughput(elapsed=%v) leaked infinity", d)
		}
	}
}

func TestMeasureWithInjectedClock(t *testing.T) {
	h := NewPortableHarness()
	h.now = stepClock(100 * time.Microsecond)

	m, err := h.Measure(Workload{Iterations: 1000, Unroll: DefaultUnroll, Precision: FP32})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if m.Elapsed != 100*time.Microsecond {
		t.Errorf("Elapsed = %v, want 100µs", m.Elapsed)
	}
	if m.Throughput != 3.2e9 {
		t.Errorf("Throughput = %v, want exactly 3.2e9", m.Throughput)
	}
	if m.GFLOPS() != 3.2 {
		t.Errorf("GFLOPS() = %v, want 3.2", m.GFLOPS())
	}
	if m.Check == 0 {
		t.Error("Check value is zero; kernel result was lost")
	}
}

func TestMeasureFrozenClock(t *testing.T) {
	h := NewPortableHarness()
	h.now = stepClock(0) // clock anomaly: no visible time passes

	_, err := h.Measure(Workload{Iterations: 10, Unroll: DefaultUnroll, Precision: FP64})
	if err == nil {
		t.Fatal("Measure with frozen clock succeeded, want timing error")
	}
	if !IsErrorType(err, ErrTypeTiming) {
		t.Errorf("error type = %v, want Timing", err)
	}
}

func TestMeasureRejectsInvalidWorkload(t *testing.T) {
	h := NewPortableHarness()
	_, err := h.Measure(Workload{Iterations: 0, Unroll: DefaultUnroll, Precision: FP32})
	if !IsErrorType(err, ErrTypeInvalidArg) {
		t.Errorf("Measure(0 iterations) error = %v, want InvalidArgument", err)
	}
}

func TestMeasureUnsupportedHardware(t *testing.T) {
	saved := fma.Supported()
	defer fma.SetCPUFeatures(saved)
	fma.SetCPUFeatures(false)

	h := NewHarness()
	_, err := h.Measure(Workload{Iterations: 10, Unroll: DefaultUnroll, Precision: FP32})
	if !IsErrorType(err, ErrTypeDevice) {
		t.Errorf("vector harness without AVX-512 error = %v, want Device", err)
	}

	// The portable harness must be unaffected by the feature gate
	ph := NewPortableHarness()
	if _, err := ph.Measure(Workload{Iterations: 10, Unroll: DefaultUnroll, Precision: FP32}); err != nil {
		t.Errorf("portable harness failed without AVX-512: %v", err)
	}
}

func TestMeasurePortableRealClock(t *testing.T) {
	h := NewPortableHarness()
	for _, p := range []Precision{FP32, FP64} {
		m, err := h.Measure(Workload{Iterations: 20000, Unroll: DefaultUnroll, Precision: p})
		if err != nil {
			t.Fatalf("Measure(%v): %v", p, err)
		}
		if m.Throughput <= 0 {
			t.Errorf("%v throughput = %v, want positive", p, m.Throughput)
		}
		if m.Elapsed <= 0 {
			t.Errorf("%v elapsed = %v, want positive", p, m.Elapsed)
		}
	}
}

// Stability smoke test: two identical runs should land within a loose
// relative tolerance of each other. Wall-clock timing is inherently noisy,
// so this is a sanity bound, not an equality check.
func TestMeasureIdempotence(t *testing.T) {
	if testing.Short() {
		t.Skip("stability smoke test skipped in short mode")
	}
	h := NewPortableHarness()
	w := Workload{Iterations: 2_000_000, Unroll: DefaultUnroll, Precision: FP32}

	m1, err := h.Measure(w)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	m2, err := h.Measure(w)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if m1.Check != m2.Check {
		t.Errorf("check values differ across identical runs: %v vs %v", m1.Check, m2.Check)
	}
	rel := math.Abs(m1.Throughput-m2.Throughput) / m1.Throughput
	if rel > 0.5 {
		t.Errorf("throughput varied by %.0f%% across identical runs (%v vs %v)",
			rel*100, m1.Throughput, m2.Throughput)
	}
}
