// Package pipeline implements the four stage-boundary latches, the
// hazard/forwarding unit, and the cycle driver (§3, §4.5, §4.6).
package pipeline

import (
	"github.com/rv32/pipesim/internal/control"
	"github.com/rv32/pipesim/internal/inst"
)

// Latch is a stage-boundary register with an in/out pair for
// phase-correct updates (§3 "Pipeline latch", §9 design note). Reads
// within a cycle observe Out; writes target In; Commit performs the
// end-of-tick out <- in swap.
type Latch[T any] struct {
	In  T
	Out T
}

// Commit performs the two-phase out <- in update (§4.5 step 10).
func (l *Latch[T]) Commit() { l.Out = l.In }

// IFID carries the fetched instruction to decode.
type IFID struct {
	Instr     inst.Instruction
	InstrAddr uint32
}

// IDEX carries the decoded instruction, its control bundle, and operand
// values to execute.
type IDEX struct {
	Instr     inst.Instruction
	InstrAddr uint32
	Bundle    control.Bundle

	Rs1, Rs2, Rd   uint8
	Rs1Val, Rs2Val uint32
	Imm            int32
}

// EXMEM carries the ALU result, store data, and branch resolution to mem.
type EXMEM struct {
	Instr     inst.Instruction
	InstrAddr uint32
	Bundle    control.Bundle

	Rd         uint8
	ALUResult  uint32
	StoreData  uint32 // rs2 value routed to the store data path, possibly forwarded
	Taken      bool   // Branch && condition (§4.4)
	Target     uint32 // PC_of_this_instruction + imm
}

// MEMWB carries the writeback value (memory or ALU) to writeback.
type MEMWB struct {
	Instr     inst.Instruction
	InstrAddr uint32
	Bundle    control.Bundle

	Rd        uint8
	ALUResult uint32
	ReadData  uint32
}

// Registers bundles the four latches (§3 "Pipeline latch").
type Registers struct {
	IFID  Latch[IFID]
	IDEX  Latch[IDEX]
	EXMEM Latch[EXMEM]
	MEMWB Latch[MEMWB]
}

// Commit performs the end-of-tick out <- in update for every latch
// (§4.5 step 10). This is the sole reason stage order between IF and
// MEM doesn't matter but writeback-vs-MEM strictly does: writeback
// reads MEMWB.Out, which still holds last cycle's value until Commit runs.
func (r *Registers) Commit() {
	r.IFID.Commit()
	r.IDEX.Commit()
	r.EXMEM.Commit()
	r.MEMWB.Commit()
}

// bubbleInstr is the all-zero NOP (opcode 0x13, all fields zero) latches
// are overwritten with on flush (§4.5 step 9). A load-use stall does not
// use it: it holds IF/ID and zeroes only ID/EX's control bundle (§4.6).
var bubbleInstr = inst.Instruction{Opcode: inst.OpI, Format: inst.FormatI}

// Flush overwrites IF/ID.in, ID/EX.in, and EX/MEM.in with bubbles
// because the fetched path was wrong (§4.5 step 9, §GLOSSARY "Flush").
func (r *Registers) Flush() {
	r.IFID.In = IFID{Instr: bubbleInstr}
	r.IDEX.In = IDEX{Instr: bubbleInstr}
	r.EXMEM.In = EXMEM{Instr: bubbleInstr}
}

// BubbleControl zeroes a control bundle, producing a NOP that writes no
// state (§GLOSSARY "Bubble").
func BubbleControl() control.Bundle { return control.Bundle{} }
