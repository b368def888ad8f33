package pipeline

import (
	"github.com/rv32/pipesim/internal/control"
	"github.com/rv32/pipesim/internal/inst"
)

// issueClass partitions instructions into the two co-issue lanes the
// source's dualIssue_hazard_check switches on: everything but
// load/store is "ALU/Branch", load and store are "Load/Store".
type issueClass uint8

const (
	classALUBranch issueClass = iota + 1
	classLoadStore
)

func classify(op inst.Opcode) issueClass {
	if op == inst.OpLoad || op == inst.OpStore {
		return classLoadStore
	}
	return classALUBranch
}

// Slot1Decision is what the dual-issue co-issue check resolves for the
// second fetched instruction this cycle (§4.9).
type Slot1Decision struct {
	CoIssue bool
	Reason  string // set when CoIssue is false, for tracing
}

// CheckCoIssue decides whether slot 1 (the instruction at PC+4) may
// issue alongside slot 0 this cycle, per the §4.9 bypass matrix:
// structural hazard (same class), data hazard (slot 0 writes a
// register slot 1 reads), then control hazard (slot 0 is a taken
// branch), evaluated in that order to match dualIssue_hazard_check.
func CheckCoIssue(slot0 inst.Instruction, slot0Bundle control.Bundle, slot0Rd uint8, slot0Taken bool, slot1 inst.Instruction) Slot1Decision {
	if classify(slot0.Opcode) == classify(slot1.Opcode) {
		return Slot1Decision{Reason: "structural: same issue class"}
	}

	if slot0Bundle.RegWrite && slot0Rd != 0 {
		if slot0Rd == slot1.Rs1 || slot0Rd == slot1.Rs2 {
			return Slot1Decision{Reason: "data: slot0 rd read by slot1"}
		}
	}

	if slot0Taken {
		return Slot1Decision{Reason: "control: slot0 is a taken branch"}
	}

	return Slot1Decision{CoIssue: true}
}

// Slot1Latches carries the second co-issued instruction through its
// own (shallower) latch chain. Dual-issue has no IF/ID stage of its
// own: both slots are fetched together, so only ID/EX onward need a
// parallel record (mirrors idex_reg_t's *DUAL fields).
type Slot1Latches struct {
	IDEX  Latch[IDEX]
	EXMEM Latch[EXMEM]
	MEMWB Latch[MEMWB]
}

// ForwardSlot1 resolves slot 1's operands against only the prior
// cycle's MEM/WB (never EX/MEM): gen_forwardDUAL in the source has no
// EX/MEM bypass for the second slot, so slot 1 gets a single-level
// bypass where slot 0 gets the full two-level one (§4.9, §9 open
// question 4 — documented asymmetry, not a bug).
func ForwardSlot1(idex IDEX, memwb MEMWB) (a, b ForwardSel) {
	if !memwb.Bundle.RegWrite || memwb.Rd == 0 {
		return ForwardNone, ForwardNone
	}
	if memwb.Rd == idex.Rs1 {
		a = ForwardMemEX
	}
	if memwb.Rd == idex.Rs2 {
		b = ForwardMemEX
	}
	return a, b
}

// ForwardedValueSlot1 resolves one slot-1 operand given its forwarding
// select (only ForwardNone/ForwardMemEX are meaningful here).
func ForwardedValueSlot1(sel ForwardSel, decoded uint32, memwb MEMWB) uint32 {
	if sel == ForwardMemEX {
		if memwb.Bundle.MemToReg {
			return memwb.ReadData
		}
		return memwb.ALUResult
	}
	return decoded
}

// Commit advances slot 1's shadow latches (mirrors Registers.Commit).
func (s *Slot1Latches) Commit() {
	s.IDEX.Commit()
	s.EXMEM.Commit()
	s.MEMWB.Commit()
}

// Flush squashes slot 1's in-flight work when the main pipeline
// redirects PC; MEM/WB is left alone since it already committed.
func (s *Slot1Latches) Flush() {
	s.IDEX.In = IDEX{Instr: bubbleInstr}
	s.EXMEM.In = EXMEM{Instr: bubbleInstr}
}
