// Package trace renders the stable trace line shapes of spec.md §6
// through logrus, replacing the source's compile-time
// DEBUG_CYCLE/DEBUG_REG_TRACE/PRINT_CACHE_TRACES macros with runtime
// toggles (§9 design note).
package trace

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rv32/pipesim/internal/cache"
	"github.com/rv32/pipesim/internal/inst"
	"github.com/rv32/pipesim/internal/regfile"
)

// Config enumerates the boolean tracing toggles named in §6.
type Config struct {
	DebugCycle      bool // [IF|ID|EX|MEM|WB] per-stage instruction lines
	DebugRegTrace   bool // full register file dump each cycle
	PrintStats      bool // cycle/stall/flush/forward/cache summary on halt
	PrintCacheTrace bool // cache hit/miss/eviction status lines
}

// Logger wraps a logrus.Logger with the tracing toggles, so call sites
// don't have to re-check a Config field before every line.
type Logger struct {
	cfg Config
	log *log.Logger
}

// New builds a Logger at Debug level when DebugCycle, DebugRegTrace or
// PrintCacheTrace is set; PrintStats does not affect the level (logrus
// gates formatting cost on level, not just on output — level must be
// raised for the Debugf calls below to actually render).
func New(cfg Config) *Logger {
	l := log.New()
	if cfg.DebugCycle || cfg.DebugRegTrace || cfg.PrintCacheTrace {
		l.SetLevel(log.DebugLevel)
	}
	return &Logger{cfg: cfg, log: l}
}

// Stage emits one `[IF]: Instruction [%08x]@[%08x]: <mnemonic>` line
// per §6, gated on DebugCycle.
func (l *Logger) Stage(stage string, i inst.Instruction, pc uint32) {
	if !l.cfg.DebugCycle {
		return
	}
	l.log.WithFields(log.Fields{"stage": stage, "pc": pc, "instr": i.Bits}).
		Debugf("[%s]: Instruction [%08x]@[%08x]: %s", stage, i.Bits, pc, inst.Disassemble(i))
}

// CacheEvent emits the `[status: ...]` line of §6, gated on
// PrintCacheTrace.
func (l *Logger) CacheEvent(r cache.Result) {
	if !l.cfg.PrintCacheTrace {
		return
	}
	switch r.Status {
	case cache.Hit:
		l.log.Debug("[status: hit]")
	case cache.Miss:
		l.log.Debugf("[status: miss, insert_block: 0x%x]", r.InsertBlockAddr)
	case cache.Evict:
		l.log.Debugf("[status: miss eviction, victim_block: 0x%x, insert_block: 0x%x]",
			r.VictimBlockAddr, r.InsertBlockAddr)
	}
}

// DumpRegisters renders the full register file, grounded on
// print_register_trace, gated on DebugRegTrace.
func (l *Logger) DumpRegisters(rf *regfile.File) {
	if !l.cfg.DebugRegTrace {
		return
	}
	for r := 0; r < 32; r += 4 {
		l.log.Debug(fmt.Sprintf("x%-2d=%08x  x%-2d=%08x  x%-2d=%08x  x%-2d=%08x",
			r, rf.Read(uint8(r)), r+1, rf.Read(uint8(r+1)), r+2, rf.Read(uint8(r+2)), r+3, rf.Read(uint8(r+3))))
	}
	l.log.Debugf("pc=%08x", rf.PC)
}
