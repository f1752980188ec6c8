// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package peakflops measures sustained floating-point throughput of a CPU by
// timing a dense stream of vectorized fused-multiply-add operations.
//
// The measurement core is a bank of ten independent accumulator vectors,
// each updated once per loop step with a single FMA. Ten independent update
// chains keep the FMA pipeline full, so on a machine with enough FMA units
// the loop approaches the core's theoretical peak. Throughput is reported
// for both single and double precision, first on one thread and then summed
// across fanned-out worker goroutines.
//
// The vector kernel lives in compute/asm/fma and requires AVX-512F on amd64;
// a pure-Go portable variant with identical semantics is available on every
// architecture. See cmd/peakflops for the report driver.
package peakflops
