// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64 && !noasm
// +build amd64,!noasm

package fma

import (
	"golang.org/x/sys/cpu"
)

func init() {
	hasAVX512 = cpu.X86.HasAVX512F
}

// Assembly kernels defined in fma_amd64.s. Each loads Unroll ZMM accumulators
// from the bank slab, runs iters FMA steps, and stores the slab back.
//
//go:noescape
func fmaBank32(iters int64, bank *[Unroll * LanesFloat32]float32, mul, addend float32)

//go:noescape
func fmaBank64(iters int64, bank *[Unroll * LanesFloat64]float64, mul, addend float64)

// Float32 runs iters steps of the float32 bank update with the AVX-512
// kernel and returns the reduced check value. Callers must gate on
// Supported(); calling without AVX-512F is a programmer error.
func Float32(iters int64) float32 {
	if !hasAVX512 {
		panic("fma: Float32 called without AVX-512F support")
	}
	var bank [Unroll * LanesFloat32]float32
	for k := 0; k < Unroll; k++ {
		s := float32(seed(k))
		for l := 0; l < LanesFloat32; l++ {
			bank[k*LanesFloat32+l] = s
		}
	}
	fmaBank32(iters, &bank, mul32, add32)
	var sum float32
	for _, v := range bank {
		sum += v
	}
	return sum
}

// Float64 runs iters steps of the float64 bank update with the AVX-512
// kernel and returns the reduced check value. Callers must gate on
// Supported().
func Float64(iters int64) float64 {
	if !hasAVX512 {
		panic("fma: Float64 called without AVX-512F support")
	}
	var bank [Unroll * LanesFloat64]float64
	for k := 0; k < Unroll; k++ {
		s := seed(k)
		for l := 0; l < LanesFloat64; l++ {
			bank[k*LanesFloat64+l] = s
		}
	}
	fmaBank64(iters, &bank, mul64, add64)
	var sum float64
	for _, v := range bank {
		sum += v
	}
	return sum
}
