// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64 || noasm
// +build !amd64 noasm

package fma

// The vector kernels are amd64-only. Supported() reports false on these
// builds; callers fall back to the explicit portable variants.

// Float32 is unavailable without the AVX-512 kernel
func Float32(iters int64) float32 {
	panic("fma: Float32 vector kernel not available on this build")
}

// Float64 is unavailable without the AVX-512 kernel
func Float64(iters int64) float64 {
	panic("fma: Float64 vector kernel not available on this build")
}
