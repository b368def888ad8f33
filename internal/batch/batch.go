// Package batch runs many independent simulator images concurrently.
//
// Each pipeline.Driver instance is itself strictly single-threaded and
// synchronous, per spec.md §5 ("No stage may suspend or block"); this
// package only parallelizes across *separate* instances, the way a test
// harness or a CI matrix would. The worker-pool/progress-reporter shape
// is adapted from pkg/search's WorkerPool, which did the same job for
// superoptimizer search tasks instead of simulator runs.
package batch

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rv32/pipesim/internal/loader"
	"github.com/rv32/pipesim/internal/pipeline"
	"github.com/rv32/pipesim/internal/sim"
)

// Job is one image to run to completion (or to MaxCycles).
type Job struct {
	Name      string
	Path      string
	EntryPC   uint32
	Cfg       sim.Config
	MaxCycles uint64
}

// Outcome is a completed job's result.
type Outcome struct {
	Name   string
	Status sim.Status
	Stats  pipeline.Stats
	Err    error
}

// Pool runs jobs across a fixed number of worker goroutines.
type Pool struct {
	NumWorkers int

	mu        sync.Mutex
	results   []Outcome
	checked   atomic.Int64
	completed atomic.Int64
}

// NewPool creates a pool. numWorkers <= 0 defaults to runtime.NumCPU().
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers}
}

// Run distributes jobs across the pool and blocks until all complete,
// printing a periodic progress line when verbose is set.
func (p *Pool) Run(jobs []Job, verbose bool) []Outcome {
	total := int64(len(jobs))

	ch := make(chan Job, len(jobs))
	for _, j := range jobs {
		ch <- j
	}
	close(ch)

	done := make(chan struct{})
	start := time.Now()
	if verbose {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					comp := p.completed.Load()
					elapsed := time.Since(start)
					pct := float64(comp) / float64(total) * 100
					fmt.Printf("  [%s] %d/%d images (%.1f%%)\n", elapsed.Round(time.Second), comp, total, pct)
				}
			}
		}()
	}

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range ch {
				out := p.runJob(job)
				p.mu.Lock()
				p.results = append(p.results, out)
				p.mu.Unlock()
				p.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)

	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]Outcome, len(p.results))
	copy(results, p.results)
	return results
}

func (p *Pool) runJob(job Job) Outcome {
	p.checked.Add(1)

	image, err := loader.LoadFlat(job.Path)
	if err != nil {
		return Outcome{Name: job.Name, Err: fmt.Errorf("batch: %s: %w", job.Name, err)}
	}
	state, err := sim.Init(image, job.EntryPC, job.Cfg)
	if err != nil {
		return Outcome{Name: job.Name, Err: fmt.Errorf("batch: %s: init: %w", job.Name, err)}
	}
	status, err := state.Run(job.MaxCycles)
	if err != nil {
		return Outcome{Name: job.Name, Err: fmt.Errorf("batch: %s: run: %w", job.Name, err)}
	}
	return Outcome{Name: job.Name, Status: status, Stats: state.Stats()}
}
