package pipeline

import "github.com/rv32/pipesim/internal/cache"

// ForwardSel is the 2-bit forwarding-mux select (§4.6).
type ForwardSel uint8

const (
	ForwardNone   ForwardSel = 0 // use the decoded register value
	ForwardMemEX  ForwardSel = 1 // MEM/WB -> EX bypass
	ForwardExEX   ForwardSel = 2 // EX/MEM -> EX bypass
)

// Wires is the set of hazard/forwarding wires threaded between stages
// each cycle (§9 design note: computed between stage functions in the
// driver rather than mutating a shared record).
type Wires struct {
	ForwardA, ForwardB ForwardSel

	StallPC     bool // PCWriteHZD
	StallIFID   bool // IFIDWriteHZD
	BubbleIDEX  bool // ControlMUXHZD

	PCSrcTaken bool   // pcsrc, driven by mem stage
	BranchPC1  uint32 // pc_src1, the branch/jump target

	CacheAccessed bool         // true when this cycle's mem access consulted dcache
	CacheResult   cache.Result // only meaningful when CacheAccessed
}

// GenForward computes the EX-stage bypass selects from the latched
// `Out` side of ID/EX, EX/MEM, and MEM/WB (§4.6 "Forwarding"). Priority:
// an EX/MEM producer wins over a MEM/WB producer for the same operand.
func GenForward(idex IDEX, exmem EXMEM, memwb MEMWB) (a, b ForwardSel) {
	if exmem.Bundle.RegWrite && exmem.Rd != 0 {
		if exmem.Rd == idex.Rs1 {
			a = ForwardExEX
		}
		if exmem.Rd == idex.Rs2 {
			b = ForwardExEX
		}
	}
	if memwb.Bundle.RegWrite && memwb.Rd != 0 {
		if memwb.Rd == idex.Rs1 && a == ForwardNone {
			a = ForwardMemEX
		}
		if memwb.Rd == idex.Rs2 && b == ForwardNone {
			b = ForwardMemEX
		}
	}
	return a, b
}

// ForwardedValue resolves one operand given its forwarding select, the
// decoded register value, and the two producer latches. The select
// picks EX/MEM's ALU result or MEM/WB's value; for MEM/WB, MemToReg
// picks the loaded data over the ALU result.
func ForwardedValue(sel ForwardSel, decoded uint32, exmem EXMEM, memwb MEMWB) uint32 {
	switch sel {
	case ForwardExEX:
		return exmem.ALUResult
	case ForwardMemEX:
		if memwb.Bundle.MemToReg {
			return memwb.ReadData
		}
		return memwb.ALUResult
	default:
		return decoded
	}
}

// DetectLoadUse asserts the stall wires when ID/EX is a load whose
// destination is read by the instruction now in IF/ID (§4.6 "Load-use
// hazard detection"). Per §9 open question 3, this compares ID/EX.Out
// against IF/ID.Out — i.e. the bubble is inserted one cycle after
// decode has already read the (stale) register values, matching the
// source's detect_hazard.
func DetectLoadUse(idexOut IDEX, ifidRs1, ifidRs2 uint8) Wires {
	hazard := idexOut.Bundle.MemRead &&
		(idexOut.Rd == ifidRs1 || idexOut.Rd == ifidRs2)
	return Wires{StallPC: hazard, StallIFID: hazard, BubbleIDEX: hazard}
}
