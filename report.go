// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peakflops

import (
	"fmt"
	"io"
	"runtime"

	"github.com/LynnColeArt/peakflops/compute/asm/fma"
)

// DefaultLevels are the worker counts of the standard multi-thread rounds
var DefaultLevels = []int{4, 8, 16}

const banner = "========================================"

// Session drives one full measurement report: single-thread measurements for
// both precisions, then multi-worker rounds at each configured level. The
// sequence is strictly linear; a failed phase prints a diagnostic and the
// session moves on.
type Session struct {
	Iterations int64
	Unroll     int
	Levels     []int
	Portable   bool // run the pure-Go kernel variant instead of AVX-512
	Verbose    bool // include elapsed time and kernel check values
	Out        io.Writer
	Log        *SessionLogger // optional JSON session log
}

// NewSession returns a session configured for the fixed standard report,
// writing to out
func NewSession(out io.Writer) *Session {
	return &Session{
		Iterations: DefaultIterations,
		Unroll:     DefaultUnroll,
		Levels:     DefaultLevels,
		Out:        out,
	}
}

// Run executes the full session. The only fatal error is missing hardware
// support, reported before any measurement; everything later degrades to
// per-phase diagnostics.
func (s *Session) Run() error {
	if !s.Portable && !fma.Supported() {
		return NewDeviceError("Session.Run",
			fmt.Sprintf("AVX-512F not available (detected: %s); rerun with the portable kernel", GetCPUInfo()))
	}

	harness := NewHarness()
	kernelName := "AVX-512"
	if s.Portable {
		harness = NewPortableHarness()
		kernelName = "portable (pure Go)"
	}

	fmt.Fprintln(s.Out, banner)
	fmt.Fprintln(s.Out, "   CPU FLOPS benchmark (AVX-512 FMA)")
	fmt.Fprintln(s.Out, banner)
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, "Test parameters:")
	fmt.Fprintf(s.Out, "  Iterations: %d\n", s.Iterations)
	fmt.Fprintf(s.Out, "  Unroll:     %dx\n", s.Unroll)
	fmt.Fprintf(s.Out, "  Vector:     %d-bit (%d x float32 / %d x float64)\n",
		VectorBits, FP32.Lanes(), FP64.Lanes())
	fmt.Fprintf(s.Out, "  FMA:        %d FLOPS/op (multiply + add)\n", FLOPSPerFMA)
	fmt.Fprintf(s.Out, "  Kernel:     %s\n", kernelName)
	fmt.Fprintf(s.Out, "  CPU:        %s\n", GetCPUInfo())
	if s.Verbose {
		if v, sum := Version(); v != "" {
			fmt.Fprintf(s.Out, "  Build:      %s %s\n", v, sum)
		}
	}
	fmt.Fprintln(s.Out)

	fmt.Fprintln(s.Out, "Single-thread:")
	for _, p := range []Precision{FP32, FP64} {
		s.runSingle(harness, p)
	}

	fmt.Fprintf(s.Out, "\nHardware threads: %d\n", runtime.NumCPU())

	orch := NewOrchestrator(harness)
	for _, level := range s.Levels {
		fmt.Fprintf(s.Out, "\nMulti-thread (%d threads):\n", level)
		for _, p := range []Precision{FP32, FP64} {
			s.runRound(orch, level, p)
		}
	}

	fmt.Fprintln(s.Out)
	fmt.Fprintln(s.Out, banner)
	return nil
}

// runSingle measures one single-thread phase and prints its report line
func (s *Session) runSingle(h *Harness, p Precision) {
	w := Workload{Iterations: s.Iterations, Unroll: s.Unroll, Precision: p}
	m, err := h.Measure(w)
	if err != nil {
		fmt.Fprintf(s.Out, "  %s (%s): unavailable (%v)\n", p.Name(), p, err)
		s.record("single-thread", p, 1, w.Iterations, 0, 0, err)
		return
	}
	fmt.Fprintf(s.Out, "  %s (%s): %.2f GFLOPS\n", p.Name(), p, m.GFLOPS())
	if s.Verbose {
		fmt.Fprintf(s.Out, "    elapsed %v, check %g\n", m.Elapsed, m.Check)
	}
	s.record("single-thread", p, 1, w.Iterations, m.GFLOPS(), m.Elapsed.Nanoseconds(), nil)
}

// runRound measures one multi-worker round and prints its report line
func (s *Session) runRound(o *Orchestrator, workers int, p Precision) {
	w := Workload{Iterations: s.Iterations, Unroll: s.Unroll, Precision: p}
	agg, err := o.Run(workers, w)
	if err != nil {
		fmt.Fprintf(s.Out, "  %s (%s): unavailable (%v)\n", p.Name(), p, err)
		s.record("multi-thread", p, workers, agg.PerWorker, 0, 0, err)
		return
	}
	fmt.Fprintf(s.Out, "  %s (%s): %.2f GFLOPS\n", p.Name(), p, agg.GFLOPS())
	if s.Verbose {
		for _, r := range agg.Results {
			fmt.Fprintf(s.Out, "    worker %d: %.2f GFLOPS\n", r.Thread, r.Throughput/1e9)
		}
	}
	s.record("multi-thread", p, workers, agg.PerWorker, agg.GFLOPS(), 0, nil)
}

// record forwards a result to the session log when one is configured
func (s *Session) record(name string, p Precision, threads int, iters int64, gflops float64, elapsedNs int64, err error) {
	if s.Log == nil {
		return
	}
	r := ResultRecord{
		Name:       name,
		Precision:  p.String(),
		Threads:    threads,
		Iterations: iters,
		GFLOPS:     gflops,
		ElapsedNs:  elapsedNs,
	}
	if err != nil {
		r.Error = err.Error()
	}
	if logErr := s.Log.Record(r); logErr != nil {
		fmt.Fprintf(s.Out, "  (session log write failed: %v)\n", logErr)
	}
}
