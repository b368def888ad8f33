// Package sim is the external-facing driver named in spec.md §6:
// simulator_init / step / stats, wired to internal/pipeline's Driver.
package sim

import (
	"fmt"

	"github.com/rv32/pipesim/internal/cache"
	"github.com/rv32/pipesim/internal/memory"
	"github.com/rv32/pipesim/internal/pipeline"
	"github.com/rv32/pipesim/internal/trace"
)

// defaultMemSize is generous headroom beyond the loaded image for
// stack/heap addresses a test program may touch; spec.md names no
// fixed memory size, only a byte-addressable image.
const defaultMemSize = 4 << 20

// Config is the simulator_init configuration record of spec.md §6.
type Config struct {
	CacheSetBits     uint
	CacheLinesPerSet uint
	CacheBlockBits   uint
	CacheLFU         bool
	CacheHitLatency  int
	CacheMissLatency int
	// CacheEnabled gates whether a data cache is modeled at all; when
	// false the memory stage instead charges MemLatency per access
	// (config.h's pre-MS3 MEM_LATENCY toggle).
	CacheEnabled bool
	MemLatency   int
	DualIssue    bool
	Trace        trace.Config
}

// Status is step()'s return value.
type Status uint8

const (
	Continue Status = iota
	Halted
)

func (s Status) String() string {
	if s == Halted {
		return "halted"
	}
	return "continue"
}

// State is the opaque simulator handle spec.md §6 calls `State`.
type State struct {
	driver *pipeline.Driver
	dcache *cache.Cache
}

// Init is simulator_init(memory_image, entry_pc, cache_geometry) of
// spec.md §6: builds memory, the (optional) data cache, and the
// pipeline driver, ready to Step from entryPC.
func Init(image []byte, entryPC uint32, cfg Config) (*State, error) {
	if len(image)%4 != 0 {
		return nil, fmt.Errorf("sim: image length %d is not a multiple of 4", len(image))
	}
	mem := memory.NewFromImage(image, defaultMemSize)

	var dcache *cache.Cache
	if cfg.CacheEnabled {
		policy := cache.LRU
		if cfg.CacheLFU {
			policy = cache.LFU
		}
		dcache = cache.New("dcache", cache.Geometry{
			SetBits:     cfg.CacheSetBits,
			LinesPerSet: cfg.CacheLinesPerSet,
			BlockBits:   cfg.CacheBlockBits,
			Policy:      policy,
			HitLatency:  cfg.CacheHitLatency,
			MissLatency: cfg.CacheMissLatency,
		})
	}

	driver := pipeline.NewDriver(mem, dcache, entryPC)
	driver.MemLatency = cfg.MemLatency
	driver.Dual = cfg.DualIssue
	driver.Trace = trace.New(cfg.Trace)

	return &State{
		driver: driver,
		dcache: dcache,
	}, nil
}

// Step runs one cycle (§6 `step(State) -> {Continue, Halted}`).
func (s *State) Step() (Status, error) {
	if s.driver.Halted {
		return Halted, nil
	}
	if err := s.driver.Cycle(); err != nil {
		return Continue, err
	}
	s.driver.Trace.DumpRegisters(&s.driver.Reg)
	if s.driver.Halted {
		return Halted, nil
	}
	return Continue, nil
}

// Run steps until halt or maxCycles is reached, whichever comes first.
// maxCycles == 0 means unbounded.
func (s *State) Run(maxCycles uint64) (Status, error) {
	for maxCycles == 0 || s.driver.Stats().Cycles < maxCycles {
		status, err := s.Step()
		if err != nil {
			return Continue, err
		}
		if status == Halted {
			return Halted, nil
		}
	}
	return Continue, nil
}

// Stats is §6 `stats(State) -> {cycles, stalls, flushes, fwd_ex_ex,
// fwd_ex_mem, hits, misses, evictions}`.
func (s *State) Stats() pipeline.Stats { return s.driver.Stats() }

// Registers exposes the architectural register file for inspection
// (used by checkpoint snapshots and by tests).
func (s *State) Registers() [32]uint32 { return s.driver.Reg.R }

// PC returns the current program counter.
func (s *State) PC() uint32 { return s.driver.Reg.PC }

// memSnapshot returns a copy of data memory, for checkpointing.
func (s *State) memSnapshot() []byte { return s.driver.Mem.Snapshot() }

// restoreRegisters overwrites the register file and PC.
func (s *State) restoreRegisters(r [32]uint32, pc uint32) {
	s.driver.Reg.R = r
	s.driver.Reg.PC = pc
}

// restoreStats overlays a checkpoint's accumulated counters, so a
// resumed run's cycle/stall/flush/forward totals continue rather than
// reset to zero.
func (s *State) restoreStats(stats pipeline.Stats) {
	s.driver.RestoreStats(stats)
}
