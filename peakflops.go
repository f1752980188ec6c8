// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peakflops

import (
	"fmt"

	"github.com/LynnColeArt/peakflops/compute/asm/fma"
)

// Fixed workload parameters for the standard measurement session
const (
	// DefaultIterations is the per-session loop step budget (100M steps)
	DefaultIterations = 100_000_000

	// DefaultUnroll is the number of independent accumulator chains per kernel.
	// The kernel bank geometry is fixed; see compute/asm/fma.
	DefaultUnroll = fma.Unroll

	// FLOPSPerFMA counts one fused multiply-add as two floating-point
	// operations (one multiply + one add)
	FLOPSPerFMA = 2

	// VectorBits is the assumed vector register width
	VectorBits = 512
)

// Precision selects the floating-point element width of a workload
type Precision int

const (
	// FP32 is single precision: 16 lanes per 512-bit vector
	FP32 Precision = iota
	// FP64 is double precision: 8 lanes per 512-bit vector
	FP64
)

// Lanes returns the number of elements processed per vector instruction
func (p Precision) Lanes() int {
	if p == FP64 {
		return fma.LanesFloat64
	}
	return fma.LanesFloat32
}

// Bits returns the element width in bits
func (p Precision) Bits() int {
	if p == FP64 {
		return 64
	}
	return 32
}

// String returns the short tag used in report output ("FP32", "FP64")
func (p Precision) String() string {
	if p == FP64 {
		return "FP64"
	}
	return "FP32"
}

// Name returns the spelled-out precision name
func (p Precision) Name() string {
	if p == FP64 {
		return "Double precision"
	}
	return "Single precision"
}

// Workload describes one kernel invocation: how many loop steps to run, how
// many independent accumulator chains each step updates, and at which
// precision. Iterations and Unroll are independent of thread count; the
// orchestrator divides Iterations across workers, never Unroll.
type Workload struct {
	Iterations int64
	Unroll     int
	Precision  Precision
}

// DefaultWorkload returns the fixed standard workload for precision p
func DefaultWorkload(p Precision) Workload {
	return Workload{
		Iterations: DefaultIterations,
		Unroll:     DefaultUnroll,
		Precision:  p,
	}
}

// TotalOps returns the number of elementary floating-point operations one
// kernel invocation performs: Iterations × Unroll × lanes × 2. The count is
// derived from the workload, not measured.
func (w Workload) TotalOps() int64 {
	return w.Iterations * int64(w.Unroll) * int64(w.Precision.Lanes()) * FLOPSPerFMA
}

// Validate reports whether the workload can be executed by the fixed-geometry
// kernel bank
func (w Workload) Validate() error {
	if w.Iterations <= 0 {
		return NewInvalidArgError("Workload.Validate",
			fmt.Sprintf("iterations must be positive, got %d", w.Iterations))
	}
	if w.Unroll != fma.Unroll {
		return NewInvalidArgError("Workload.Validate",
			fmt.Sprintf("unroll must be %d (fixed kernel bank geometry), got %d", fma.Unroll, w.Unroll))
	}
	if w.Precision != FP32 && w.Precision != FP64 {
		return NewInvalidArgError("Workload.Validate",
			fmt.Sprintf("unknown precision %d", int(w.Precision)))
	}
	return nil
}
