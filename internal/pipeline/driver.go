package pipeline

import (
	"github.com/rv32/pipesim/internal/cache"
	"github.com/rv32/pipesim/internal/inst"
	"github.com/rv32/pipesim/internal/memory"
	"github.com/rv32/pipesim/internal/regfile"
	"github.com/rv32/pipesim/internal/trace"
)

// Stats is the §6 stats() snapshot: cycle accounting plus every
// microarchitectural event the driver counts along the way.
type Stats struct {
	Cycles       uint64
	Stalls       uint64
	Flushes      uint64
	ForwardExEX  uint64
	ForwardMemEX uint64
	Hits         uint64
	Misses       uint64
	Evictions    uint64
	DualCoIssues uint64 // §4.9: cycles where slot 1 co-issued alongside slot 0
}

// Driver owns the architectural state (register file, memory, cache),
// the four latches, and the persistent pcsrc/pc_src wires that must
// survive across Cycle calls (§4.5 bootstrap note: pc_src0 is seeded
// once and thereafter Fetch advances it).
type Driver struct {
	Reg    regfile.File
	Mem    *memory.Memory
	DCache *cache.Cache

	// MemLatency is the baseline per-access latency applied when no
	// cache is configured (config.h's MEM_LATENCY, used for the
	// pre-cache milestones). Ignored once DCache is non-nil, since the
	// cache's own hit/miss latency supersedes it.
	MemLatency int

	// Dual enables the optional §4.9 dual-issue extension: a second
	// instruction, fetched alongside slot 0 from PC+4, rides its own
	// shadow IDEX/EXMEM/MEMWB latch chain (Slot1Latches) in lockstep
	// with the main one whenever CheckCoIssue allows it, in which case
	// PC skips past it (cycleSlot1 advances PC an extra word so it is
	// retired exactly once). An instruction refused co-issue is never
	// retried explicitly — it is simply re-fetched as next cycle's
	// ordinary slot 0, since slot 1's speculative fetch alone never
	// advances PC.
	Dual bool

	// Trace renders the §6 per-stage and cache-status lines. A nil
	// Trace is never dereferenced directly — NewDriver seeds it with a
	// logger whose toggles are all off, matching trace.New's own
	// no-op-when-disabled behavior, so callers that never set a Config
	// still get a safe Driver.
	Trace *trace.Logger

	regs  Registers
	slot1 Slot1Latches

	pcSrcTaken bool   // pcsrc, driven by the memory stage, consumed by next fetch
	pcSrc1     uint32 // branch/jump target, driven by the memory stage

	stats  Stats
	Halted bool
}

// NewDriver bootstraps a driver at entryPC (§4.5 "Bootstrap"): all
// latches zero, pc_src0 seeded to the initial PC via Reg.PC itself.
func NewDriver(mem *memory.Memory, dcache *cache.Cache, entryPC uint32) *Driver {
	d := &Driver{Mem: mem, DCache: dcache, Trace: trace.New(trace.Config{})}
	d.Reg.PC = entryPC
	return d
}

// Stats returns the accumulated counters.
func (d *Driver) Stats() Stats { return d.stats }

// RestoreStats overlays previously-accumulated counters onto the
// driver, for resuming a run from a checkpoint (sim.Resume) without
// losing the cycle/stall/flush/forward history.
func (d *Driver) RestoreStats(s Stats) { d.stats = s }

// Cycle runs one clock tick of the five-stage pipeline per the
// algorithm in §4.5, steps 1-11.
func (d *Driver) Cycle() error {
	// Step 1: fetch writes IF/ID.in; PC mux per last cycle's pcsrc.
	ifid, err := Fetch(d.Mem, &d.Reg, d.pcSrcTaken, d.pcSrc1)
	olderInFlight := d.regs.IFID.Out.Instr != bubbleInstr || d.regs.IDEX.Out.Instr != bubbleInstr ||
		d.regs.EXMEM.Out.Instr != bubbleInstr ||
		(d.Dual && (d.slot1.IDEX.Out.Instr != bubbleInstr || d.slot1.EXMEM.Out.Instr != bubbleInstr))
	if _, invalid := err.(*inst.ErrInvalidInstruction); invalid && olderInFlight {
		// An unrecognized word fetched behind older in-flight work (e.g.
		// past the halting ecall, or on a path a taken branch is about to
		// flush) enters as a bubble and PC stays on it; the error is
		// returned once nothing older is left in flight to halt or redirect.
		ifid, err = IFID{Instr: bubbleInstr, InstrAddr: d.Reg.PC}, nil
	}
	if err != nil {
		return err
	}
	d.regs.IFID.In = ifid
	if ifid.Instr != bubbleInstr {
		d.Trace.Stage("IF", ifid.Instr, ifid.InstrAddr)
	}

	// Step 2: hazard detection reads .out snapshots (last cycle's
	// committed ID/EX and IF/ID, matching §9 open question 3).
	haz := DetectLoadUse(d.regs.IDEX.Out, d.regs.IFID.Out.Instr.Rs1, d.regs.IFID.Out.Instr.Rs2)

	// Step 3: on stall, hold IF/ID and rewind PC so fetch re-presents
	// the same instruction next cycle.
	if haz.StallIFID {
		d.regs.IFID.In = d.regs.IFID.Out
		d.Reg.PC = ifid.InstrAddr
		d.stats.Stalls++
	}

	// Step 4: decode writes ID/EX.in; a bubble wire zeroes its control.
	idex := Decode(d.regs.IFID.Out, &d.Reg)
	if haz.BubbleIDEX {
		idex.Bundle = BubbleControl()
	}
	d.regs.IDEX.In = idex
	if idex.Instr != bubbleInstr {
		d.Trace.Stage("ID", idex.Instr, idex.InstrAddr)
	}

	// Step 5: forwarding reads .out.
	fwdA, fwdB := GenForward(d.regs.IDEX.Out, d.regs.EXMEM.Out, d.regs.MEMWB.Out)
	switch fwdA {
	case ForwardExEX:
		d.stats.ForwardExEX++
	case ForwardMemEX:
		d.stats.ForwardMemEX++
	}
	switch fwdB {
	case ForwardExEX:
		d.stats.ForwardExEX++
	case ForwardMemEX:
		d.stats.ForwardMemEX++
	}
	rs1Val := ForwardedValue(fwdA, d.regs.IDEX.Out.Rs1Val, d.regs.EXMEM.Out, d.regs.MEMWB.Out)
	rs2Val := ForwardedValue(fwdB, d.regs.IDEX.Out.Rs2Val, d.regs.EXMEM.Out, d.regs.MEMWB.Out)

	// Step 6: execute writes EX/MEM.in.
	d.regs.EXMEM.In = Execute(d.regs.IDEX.Out, rs1Val, rs2Val)
	if d.regs.EXMEM.In.Instr != bubbleInstr {
		d.Trace.Stage("EX", d.regs.EXMEM.In.Instr, d.regs.EXMEM.In.InstrAddr)
	}

	// §4.9 dual-issue: decide whether slot 1 (PC+4, fetched
	// speculatively below) co-issues alongside slot 0 this cycle, and
	// advance slot 1's shadow latch chain one stage in lockstep.
	var slot1Wires Wires
	var slot1ExtraLatency int
	if d.Dual {
		var err error
		slot1Wires, slot1ExtraLatency, err = d.cycleSlot1(ifid, d.regs.IDEX.Out, rs1Val, rs2Val, haz.StallIFID || ifid.Instr == bubbleInstr)
		if err != nil {
			return err
		}
	}

	// Step 7: memory writes MEM/WB.in and drives pcsrc/pc_src1.
	exmemOut := d.regs.EXMEM.Out
	if exmemOut.Instr != bubbleInstr {
		d.Trace.Stage("MEM", exmemOut.Instr, exmemOut.InstrAddr)
	}
	memwb, wires, extraLatency, err := Mem(exmemOut, d.Mem, d.DCache)
	if err != nil {
		return err
	}
	if wires.CacheAccessed {
		d.Trace.CacheEvent(wires.CacheResult)
	}
	if d.DCache == nil && (exmemOut.Bundle.MemRead || exmemOut.Bundle.MemWrite) {
		extraLatency += d.MemLatency
	}
	d.regs.MEMWB.In = memwb

	// The main pipeline's redirect always wins when both fire the same
	// cycle: exmemOut is strictly older in program order than anything
	// slot 1 could have fetched (slot 1 only ever runs ahead of slot 0).
	if wires.PCSrcTaken {
		d.pcSrcTaken, d.pcSrc1 = true, wires.BranchPC1
	} else if slot1Wires.PCSrcTaken {
		d.pcSrcTaken, d.pcSrc1 = true, slot1Wires.BranchPC1
	} else {
		d.pcSrcTaken, d.pcSrc1 = false, 0
	}

	// Step 8: writeback reads MEM/WB.out, last cycle's memory output.
	if d.regs.MEMWB.Out.Instr != bubbleInstr {
		d.Trace.Stage("WB", d.regs.MEMWB.Out.Instr, d.regs.MEMWB.Out.InstrAddr)
	}
	Writeback(d.regs.MEMWB.Out, &d.Reg)
	if d.Dual {
		if d.slot1.MEMWB.Out.Instr != bubbleInstr {
			d.Trace.Stage("WB", d.slot1.MEMWB.Out.Instr, d.slot1.MEMWB.Out.InstrAddr)
		}
		Writeback(d.slot1.MEMWB.Out, &d.Reg)
	}

	// Step 9: flush on a taken branch.
	if d.pcSrcTaken {
		d.regs.Flush()
		if d.Dual {
			d.slot1.Flush()
		}
		d.stats.Flushes++
	}

	// Step 10: commit out <- in for every latch.
	d.regs.Commit()
	if d.Dual {
		d.slot1.Commit()
	}

	// Step 11: advance the cycle counter, accounting for cache
	// latency beyond the baseline cycle (§4.8 "Latency").
	d.stats.Cycles += 1 + uint64(extraLatency) + uint64(slot1ExtraLatency)
	if d.DCache != nil {
		d.stats.Hits = d.DCache.HitCount
		d.stats.Misses = d.DCache.MissCount
		d.stats.Evictions = d.DCache.EvictionCount
	}

	// Halt trap (§4.7): MEM/WB.out now holds this cycle's committed
	// value, since Commit already ran. Either slot can carry the halt.
	if d.regs.MEMWB.Out.Instr.IsHalt() && d.Reg.Read(10) == 10 {
		d.Halted = true
	}
	if d.Dual && d.slot1.MEMWB.Out.Instr.IsHalt() && d.Reg.Read(10) == 10 {
		d.Halted = true
	}

	return nil
}

// cycleSlot1 advances the dual-issue shadow pipeline one stage: decide
// co-issue for the instruction fetched speculatively at slot 0's
// address + 4, then run it through EX/MEM/WB in lockstep with the main
// latches (§4.9). It advances Reg.PC one extra word only when slot 1
// co-issues; otherwise slot 1's fetch is a peek ahead only, and an
// instruction refused co-issue is simply re-seen as next cycle's
// ordinary slot 0 once Fetch advances PC there itself.
func (d *Driver) cycleSlot1(ifid0 IFID, idex0 IDEX, rs1Val0, rs2Val0 uint32, slot0Stalled bool) (Wires, int, error) {
	nextIDEX := IDEX{Instr: bubbleInstr}

	if !slot0Stalled {
		addr1 := ifid0.InstrAddr + 4
		if bits, err := d.Mem.FetchWord(addr1); err == nil {
			if slot1Instr, err := inst.Decode(bits, addr1); err == nil {
				slot0Taken := idex0.Bundle.Branch && branchCondition(idex0.Bundle, rs1Val0, rs2Val0)
				decision := CheckCoIssue(idex0.Instr, idex0.Bundle, idex0.Rd, slot0Taken, slot1Instr)
				if decision.CoIssue {
					d.Trace.Stage("IF", slot1Instr, addr1)
					d.Trace.Stage("ID", slot1Instr, addr1)
					nextIDEX = Decode(IFID{Instr: slot1Instr, InstrAddr: addr1}, &d.Reg)
					d.stats.DualCoIssues++
					// Fetch already advanced PC to addr1 (slot 0's
					// sequential successor); since slot 1 now runs
					// through the shadow pipe, skip past it too so the
					// main pipeline never re-fetches and re-executes it.
					d.Reg.PC += 4
				}
			}
		}
		// A fetch/decode failure at addr1 (e.g. past the end of the
		// image) just means there is no slot 1 candidate this cycle;
		// bubble rather than fail the whole simulator over a peek-ahead
		// past the program's end.
	}
	d.slot1.IDEX.In = nextIDEX

	fwdA, fwdB := ForwardSlot1(d.slot1.IDEX.Out, d.regs.MEMWB.Out)
	rs1Val := ForwardedValueSlot1(fwdA, d.slot1.IDEX.Out.Rs1Val, d.regs.MEMWB.Out)
	rs2Val := ForwardedValueSlot1(fwdB, d.slot1.IDEX.Out.Rs2Val, d.regs.MEMWB.Out)

	d.slot1.EXMEM.In = Execute(d.slot1.IDEX.Out, rs1Val, rs2Val)
	if d.slot1.EXMEM.In.Instr != bubbleInstr {
		d.Trace.Stage("EX", d.slot1.EXMEM.In.Instr, d.slot1.EXMEM.In.InstrAddr)
	}

	exmem1Out := d.slot1.EXMEM.Out
	if exmem1Out.Instr != bubbleInstr {
		d.Trace.Stage("MEM", exmem1Out.Instr, exmem1Out.InstrAddr)
	}
	memwb, wires, extraLatency, err := Mem(exmem1Out, d.Mem, d.DCache)
	if err != nil {
		return Wires{}, 0, err
	}
	if wires.CacheAccessed {
		d.Trace.CacheEvent(wires.CacheResult)
	}
	d.slot1.MEMWB.In = memwb

	return wires, extraLatency, nil
}
