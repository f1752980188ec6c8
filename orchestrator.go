// Copyright ©2025 The PeakFLOPS Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peakflops

import (
	"fmt"
	"sync"
)

// WorkerResult is the outcome of one worker's measurement. Each worker
// writes its result exactly once, into a slot pre-reserved by thread index,
// so no locking is needed around the results slice.
type WorkerResult struct {
	Thread     int
	Throughput float64
	Err        error
}

// Aggregate is the combined outcome of one multi-worker round.
type Aggregate struct {
	Precision Precision
	Workers   int
	PerWorker int64 // iterations each worker ran
	Total     float64
	Results   []WorkerResult
}

// GFLOPS returns the aggregate throughput in billions of operations per second
func (a Aggregate) GFLOPS() float64 {
	return a.Total / 1e9
}

// SplitIterations returns the per-worker iteration share: total / workers by
// integer division. Any remainder is deliberately dropped, matching the
// reference workload — with uneven splits the round performs slightly fewer
// than total iterations, an accepted approximation.
func SplitIterations(total int64, workers int) int64 {
	return total / int64(workers)
}

// Orchestrator fans a workload out across independent workers and sums their
// throughputs. Workers are fresh goroutines per round, each owning its own
// harness run and accumulator bank; they share nothing and meet only at the
// join barrier.
type Orchestrator struct {
	harness *Harness
}

// NewOrchestrator returns an orchestrator spawning workers on h
func NewOrchestrator(h *Harness) *Orchestrator {
	return &Orchestrator{harness: h}
}

// Run executes one round: workers goroutines each measuring an equal share
// of w.Iterations, joined before aggregation. The aggregate total is the sum
// of per-worker throughputs — an approximation of concurrent scaling, not a
// contention measurement, since workers never communicate.
//
// If any worker fails, Run returns the partial aggregate together with an
// execution error; the round is unusable but the caller can continue with
// the next one.
func (o *Orchestrator) Run(workers int, w Workload) (Aggregate, error) {
	if workers <= 0 {
		return Aggregate{}, NewInvalidArgError("Orchestrator.Run",
			fmt.Sprintf("worker count must be positive, got %d", workers))
	}
	if err := w.Validate(); err != nil {
		return Aggregate{}, err
	}

	share := SplitIterations(w.Iterations, workers)
	perWorker := Workload{Iterations: share, Unroll: w.Unroll, Precision: w.Precision}

	agg := Aggregate{
		Precision: w.Precision,
		Workers:   workers,
		PerWorker: share,
		Results:   make([]WorkerResult, workers),
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			m, err := o.harness.Measure(perWorker)
			agg.Results[thread] = WorkerResult{
				Thread:     thread,
				Throughput: m.Throughput,
				Err:        err,
			}
		}(i)
	}
	wg.Wait()

	for _, r := range agg.Results {
		if r.Err != nil {
			return agg, NewExecutionError("Orchestrator.Run",
				fmt.Sprintf("worker %d failed", r.Thread), r.Err)
		}
	}
	agg.Total = SumThroughput(agg.Results)
	return agg, nil
}

// SumThroughput adds up per-worker throughputs. Plain summation: the
// aggregate is defined as the exact sum of the worker values.
func SumThroughput(results []WorkerResult) float64 {
	var total float64
	for _, r := range results {
		total += r.Throughput
	}
	return total
}
