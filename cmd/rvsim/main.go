package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rv32/pipesim/internal/batch"
	"github.com/rv32/pipesim/internal/loader"
	"github.com/rv32/pipesim/internal/sim"
	"github.com/rv32/pipesim/internal/trace"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rvsim",
		Short: "Cycle-accurate five-stage rv32 pipeline simulator",
	}

	var (
		entryPC      uint32
		maxCycles    uint64
		cacheEnabled bool
		cacheSetBits uint
		cacheLines   uint
		cacheBlock   uint
		cacheLFU     bool
		cacheHitLat  int
		cacheMissLat int
		memLatency   int
		dualIssue    bool
		debugCycle   bool
		debugRegs    bool
		printStats   bool
		printCache   bool
		checkpoint   string
	)

	addSimFlags := func(c *cobra.Command) {
		c.Flags().Uint32Var(&entryPC, "entry", 0, "Entry program counter")
		c.Flags().BoolVar(&cacheEnabled, "cache", false, "Enable the data cache")
		c.Flags().UintVar(&cacheSetBits, "cache-set-bits", 2, "Cache set-index bit width")
		c.Flags().UintVar(&cacheLines, "cache-lines-per-set", 2, "Cache lines per set (associativity)")
		c.Flags().UintVar(&cacheBlock, "cache-block-bits", 4, "Cache block-offset bit width")
		c.Flags().BoolVar(&cacheLFU, "cache-lfu", false, "Use LFU instead of LRU eviction")
		c.Flags().IntVar(&cacheHitLat, "cache-hit-latency", 1, "Cache hit latency in cycles")
		c.Flags().IntVar(&cacheMissLat, "cache-miss-latency", 10, "Cache miss latency in cycles")
		c.Flags().IntVar(&memLatency, "mem-latency", 0, "Baseline memory latency when --cache is unset")
		c.Flags().BoolVar(&dualIssue, "dual-issue", false, "Enable the optional dual-issue extension")
		c.Flags().BoolVar(&debugCycle, "debug-cycle", false, "Trace per-stage instruction lines")
		c.Flags().BoolVar(&debugRegs, "debug-reg-trace", false, "Dump the register file every cycle")
		c.Flags().BoolVar(&printStats, "print-stats", true, "Print cycle/stall/flush/forward/cache stats on halt")
		c.Flags().BoolVar(&printCache, "print-cache-trace", false, "Trace cache hit/miss/eviction status lines")
		c.Flags().StringVar(&checkpoint, "checkpoint", "", "Write a resumable checkpoint to this path when the run stops")
	}

	buildConfig := func() sim.Config {
		return sim.Config{
			CacheSetBits:     cacheSetBits,
			CacheLinesPerSet: cacheLines,
			CacheBlockBits:   cacheBlock,
			CacheLFU:         cacheLFU,
			CacheHitLatency:  cacheHitLat,
			CacheMissLatency: cacheMissLat,
			CacheEnabled:     cacheEnabled,
			MemLatency:       memLatency,
			DualIssue:        dualIssue,
			Trace: trace.Config{
				DebugCycle:      debugCycle,
				DebugRegTrace:   debugRegs,
				PrintStats:      printStats,
				PrintCacheTrace: printCache,
			},
		}
	}

	runCmd := &cobra.Command{
		Use:   "run [image]",
		Short: "Load a flat image and run to halt (or --max-cycles)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := loader.LoadFlat(args[0])
			if err != nil {
				return err
			}
			state, err := sim.Init(image, entryPC, buildConfig())
			if err != nil {
				return fmt.Errorf("rvsim: init: %w", err)
			}
			status, err := state.Run(maxCycles)
			if err != nil {
				return fmt.Errorf("rvsim: run: %w", err)
			}

			stats := state.Stats()
			if printStats {
				fmt.Printf("cycles=%d stalls=%d flushes=%d fwd_ex_ex=%d fwd_ex_mem=%d hits=%d misses=%d evictions=%d dual_co_issues=%d\n",
					stats.Cycles, stats.Stalls, stats.Flushes, stats.ForwardExEX, stats.ForwardMemEX,
					stats.Hits, stats.Misses, stats.Evictions, stats.DualCoIssues)
			}

			if checkpoint != "" {
				if err := sim.SaveCheckpoint(checkpoint, state); err != nil {
					return fmt.Errorf("rvsim: checkpoint: %w", err)
				}
			}

			if status != sim.Halted {
				return fmt.Errorf("rvsim: stopped after %d cycles without halting", maxCycles)
			}
			return nil
		},
	}
	addSimFlags(runCmd)
	runCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = unbounded)")

	stepCmd := &cobra.Command{
		Use:   "step [image]",
		Short: "Single-step a flat image, dumping registers each cycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			image, err := loader.LoadFlat(args[0])
			if err != nil {
				return err
			}
			debugRegs = true
			state, err := sim.Init(image, entryPC, buildConfig())
			if err != nil {
				return fmt.Errorf("rvsim: init: %w", err)
			}

			var cycles uint64
			for maxCycles == 0 || cycles < maxCycles {
				status, err := state.Step()
				if err != nil {
					return fmt.Errorf("rvsim: step %d: %w", cycles, err)
				}
				cycles++
				if status == sim.Halted {
					fmt.Printf("halted after %d cycles at pc=%08x\n", cycles, state.PC())
					return nil
				}
			}
			return fmt.Errorf("rvsim: stopped after %d cycles without halting", cycles)
		},
	}
	addSimFlags(stepCmd)
	stepCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 100000, "Stop after this many cycles")

	var (
		batchWorkers int
		batchVerbose bool
	)
	batchCmd := &cobra.Command{
		Use:   "batch [image...]",
		Short: "Run many flat images concurrently, one simulator instance per image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := buildConfig()
			jobs := make([]batch.Job, len(args))
			for i, path := range args {
				jobs[i] = batch.Job{Name: path, Path: path, EntryPC: entryPC, Cfg: cfg, MaxCycles: maxCycles}
			}
			pool := batch.NewPool(batchWorkers)
			outcomes := pool.Run(jobs, batchVerbose)

			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Printf("%s: error: %v\n", o.Name, o.Err)
					continue
				}
				s := o.Stats
				fmt.Printf("%s: status=%v cycles=%d stalls=%d flushes=%d fwd_ex_ex=%d fwd_ex_mem=%d hits=%d misses=%d evictions=%d dual_co_issues=%d\n",
					o.Name, o.Status, s.Cycles, s.Stalls, s.Flushes, s.ForwardExEX, s.ForwardMemEX, s.Hits, s.Misses, s.Evictions, s.DualCoIssues)
			}
			if failed > 0 {
				return fmt.Errorf("rvsim: %d/%d images failed", failed, len(outcomes))
			}
			return nil
		},
	}
	addSimFlags(batchCmd)
	batchCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "Stop each image after this many cycles (0 = unbounded)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 0, "Worker goroutines (0 = NumCPU)")
	batchCmd.Flags().BoolVar(&batchVerbose, "progress", false, "Print periodic progress lines")

	resumeCmd := &cobra.Command{
		Use:   "resume [checkpoint]",
		Short: "Resume a run from a checkpoint written by --checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ckpt, err := sim.LoadCheckpoint(args[0])
			if err != nil {
				return fmt.Errorf("rvsim: load checkpoint: %w", err)
			}
			state, err := sim.Resume(ckpt, buildConfig())
			if err != nil {
				return fmt.Errorf("rvsim: resume: %w", err)
			}
			status, err := state.Run(maxCycles)
			if err != nil {
				return fmt.Errorf("rvsim: run: %w", err)
			}

			stats := state.Stats()
			if printStats {
				fmt.Printf("cycles=%d stalls=%d flushes=%d fwd_ex_ex=%d fwd_ex_mem=%d hits=%d misses=%d evictions=%d dual_co_issues=%d\n",
					stats.Cycles, stats.Stalls, stats.Flushes, stats.ForwardExEX, stats.ForwardMemEX,
					stats.Hits, stats.Misses, stats.Evictions, stats.DualCoIssues)
			}

			if checkpoint != "" {
				if err := sim.SaveCheckpoint(checkpoint, state); err != nil {
					return fmt.Errorf("rvsim: checkpoint: %w", err)
				}
			}

			if status != sim.Halted {
				return fmt.Errorf("rvsim: stopped after %d cycles without halting", maxCycles)
			}
			return nil
		},
	}
	addSimFlags(resumeCmd)
	resumeCmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = unbounded)")

	rootCmd.AddCommand(runCmd, stepCmd, batchCmd, resumeCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
