// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fma provides the FMA throughput kernels.
//
// A kernel owns a bank of Unroll accumulator vectors. Every loop step applies
// one fused multiply-add to each accumulator:
//
//	acc = acc*1.0000001 + 0.0000001
//
// The ten chains are data-independent so the CPU can keep all FMA pipes
// busy. After the loop each vector is horizontally reduced and the ten
// scalars summed into a single check value returned to the caller; returning
// it is what keeps the compiler from discarding the loop as dead code.
//
// The accumulators grow by a factor of roughly e^(iters*1e-7); the default
// 1e8-step budget ends near 2.2e4, far inside float32 range. Budgets beyond
// about 8.8e8 steps would overflow float32.
package fma

// Bank geometry shared by the assembly and portable kernels
const (
	// Unroll is the number of independent accumulator chains
	Unroll = 10

	// LanesFloat32 is the float32 element count of a 512-bit vector
	LanesFloat32 = 16

	// LanesFloat64 is the float64 element count of a 512-bit vector
	LanesFloat64 = 8
)

// FMA update constants, per the reference workload: a multiplier slightly
// above one and an addend slightly above zero keep the accumulators growing
// slowly without overflow
const (
	mul32 float32 = 1.0000001
	add32 float32 = 0.0000001

	mul64 float64 = 1.0000001
	add64 float64 = 0.0000001
)

// hasAVX512 gates the vector kernels. Populated at init on amd64, false
// everywhere else.
var hasAVX512 bool

// Supported returns true if the AVX-512 vector kernels can run on this CPU.
// The portable kernels are always available.
func Supported() bool {
	return hasAVX512
}

// SetCPUFeatures overrides feature detection. Intended for tests that need
// to exercise the unsupported path on capable hardware.
func SetCPUFeatures(avx512 bool) {
	hasAVX512 = avx512
}

// seed returns the initial value of accumulator chain k. The seeds are
// distinct values near 1.0 so no two chains compute the same stream; the
// exact values carry no meaning.
func seed(k int) float64 {
	return 1.0 - 0.0001*float64(k)
}

// Float32Portable runs iters steps of the float32 bank update in pure Go and
// returns the reduced check value. Same bank geometry and constants as the
// vector kernel, available on every architecture.
func Float32Portable(iters int64) float32 {
	var bank [Unroll][LanesFloat32]float32
	for k := range bank {
		s := float32(seed(k))
		for l := range bank[k] {
			bank[k][l] = s
		}
	}
	for i := int64(0); i < iters; i++ {
		for k := range bank {
			for l := range bank[k] {
				bank[k][l] = bank[k][l]*mul32 + add32
			}
		}
	}
	var sum float32
	for k := range bank {
		for l := range bank[k] {
			sum += bank[k][l]
		}
	}
	return sum
}

// Float64Portable runs iters steps of the float64 bank update in pure Go and
// returns the reduced check value.
func Float64Portable(iters int64) float64 {
	var bank [Unroll][LanesFloat64]float64
	for k := range bank {
		s := seed(k)
		for l := range bank[k] {
			bank[k][l] = s
		}
	}
	for i := int64(0); i < iters; i++ {
		for k := range bank {
			for l := range bank[k] {
				bank[k][l] = bank[k][l]*mul64 + add64
			}
		}
	}
	var sum float64
	for k := range bank {
		for l := range bank[k] {
			sum += bank[k][l]
		}
	}
	return sum
}
