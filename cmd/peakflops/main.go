// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command peakflops runs the fixed FLOPS measurement session and prints a
// throughput report. With no flags it reproduces the standard session:
// single-thread FP32/FP64, then 4-, 8- and 16-worker rounds.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/LynnColeArt/peakflops"
)

func main() {
	var (
		iterations = flag.Int64("iterations", peakflops.DefaultIterations, "Loop steps per measurement")
		portable   = flag.Bool("portable", false, "Use the pure-Go kernel instead of AVX-512")
		outputFile = flag.String("output", "", "Write session results to a JSON file")
		verbose    = flag.Bool("v", false, "Verbose output")
	)
	flag.Parse()

	if !*portable && !peakflops.HasAVX512() {
		fmt.Fprintf(os.Stderr, "peakflops: AVX-512F not supported by this CPU (detected: %s)\n", peakflops.GetCPUInfo())
		fmt.Fprintln(os.Stderr, "peakflops: rerun with -portable to use the pure-Go kernel")
		os.Exit(1)
	}

	session := peakflops.NewSession(os.Stdout)
	session.Iterations = *iterations
	session.Portable = *portable
	session.Verbose = *verbose

	if *outputFile != "" {
		log, err := peakflops.NewSessionLogger(*outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "peakflops: %v\n", err)
			os.Exit(1)
		}
		session.Log = log
	}

	if err := session.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "peakflops: %v\n", err)
		os.Exit(1)
	}
}
