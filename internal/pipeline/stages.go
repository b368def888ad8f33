package pipeline

import (
	"github.com/rv32/pipesim/internal/alu"
	"github.com/rv32/pipesim/internal/cache"
	"github.com/rv32/pipesim/internal/control"
	"github.com/rv32/pipesim/internal/inst"
	"github.com/rv32/pipesim/internal/memory"
	"github.com/rv32/pipesim/internal/regfile"
)

// Fetch reads memory at PC (taken-branch target or sequential, per the
// pcsrc mux) and produces the IF/ID record (§4.5 step 1).
func Fetch(mem *memory.Memory, rf *regfile.File, pcsrcTaken bool, branchTarget uint32) (IFID, error) {
	if pcsrcTaken {
		rf.PC = branchTarget
	}
	addr := rf.PC
	bits, err := mem.FetchWord(addr)
	if err != nil {
		return IFID{}, err
	}
	decoded, err := inst.Decode(bits, addr)
	if err != nil {
		return IFID{}, err
	}
	// pc_src0: the sequential successor, computed eagerly here rather
	// than by writeback (§9 design note), and overridden by the branch
	// mux above whenever a taken branch resolved three cycles later.
	rf.PC = addr + 4
	return IFID{Instr: decoded, InstrAddr: addr}, nil
}

// Decode reads the register file and produces the ID/EX record,
// including the control bundle (§4.5 step 4).
func Decode(ifid IFID, rf *regfile.File) IDEX {
	i := ifid.Instr
	return IDEX{
		Instr:     i,
		InstrAddr: ifid.InstrAddr,
		Bundle:    control.Gen(i),
		Rs1:       i.Rs1,
		Rs2:       i.Rs2,
		Rd:        i.Rd,
		Rs1Val:    rf.Read(i.Rs1),
		Rs2Val:    rf.Read(i.Rs2),
		Imm:       i.Imm,
	}
}

// Execute runs the ALU and resolves the branch condition, producing the
// EX/MEM record (§4.4, §4.5 step 6). Forwarded operand values are
// resolved by the caller via GenForward/ForwardedValue and passed in so
// this function stays a pure transfer function over its inputs (§9
// design note: avoid back-references by computing wires in the driver).
func Execute(idex IDEX, rs1Val, rs2Val uint32) EXMEM {
	aluA, aluB := rs1Val, rs2Val
	if idex.Bundle.ALUSrcB {
		aluB = uint32(idex.Imm)
	}
	switch idex.Bundle.ALUOp {
	case control.ALUOpLUI:
		aluB = uint32(idex.Imm) >> 12 // Imm already sits in bits [31:12]; the ALU shifts imm20 itself
	case control.ALUOpJAL:
		aluA = idex.InstrAddr // link value is this instruction's address + 4
	}

	aluOp := control.GenALUControl(idex.Bundle)
	result := alu.Exec(aluOp, aluA, aluB)

	taken := idex.Bundle.Branch && branchCondition(idex.Bundle, rs1Val, rs2Val)
	target := idex.InstrAddr
	if idex.Bundle.Branch {
		target = idex.InstrAddr + uint32(idex.Imm)
	}

	return EXMEM{
		Instr:     idex.Instr,
		InstrAddr: idex.InstrAddr,
		Bundle:    idex.Bundle,
		Rd:        idex.Rd,
		ALUResult: result,
		StoreData: rs2Val,
		Taken:     taken,
		Target:    target,
	}
}

// branchCondition evaluates beq/bne (§4.4); JAL's Taken is unconditional
// and is folded in by the caller via idex.Bundle.Branch alone for jumps
// (funct3 is meaningless for JAL, so beq's funct3==0 path would
// otherwise misfire — JAL carries no funct3 field, defaulting to 0,
// which happens to select beq's comparison and must always hold true
// since rs1Val==rs2Val==0 for a JAL's unused operands).
func branchCondition(b control.Bundle, rs1Val, rs2Val uint32) bool {
	switch b.Funct3 {
	case 0x1: // bne
		return rs1Val != rs2Val
	default: // beq, and JAL (vacuously true: 0 == 0)
		return rs1Val == rs2Val
	}
}

// Mem reads or writes data memory, consulting the cache for latency,
// producing the MEM/WB record and driving pcsrc/branch target (§4.5
// step 7, §4.7, §4.8). Returns the extra latency cycles the cache
// access contributes.
func Mem(exmem EXMEM, mem *memory.Memory, dcache *cache.Cache) (MEMWB, Wires, int, error) {
	wb := MEMWB{
		Instr:     exmem.Instr,
		InstrAddr: exmem.InstrAddr,
		Bundle:    exmem.Bundle,
		Rd:        exmem.Rd,
		ALUResult: exmem.ALUResult,
	}

	extraLatency := 0
	var cacheResult cache.Result
	cacheAccessed := false

	if exmem.Bundle.MemRead {
		var (
			v   uint32
			err error
		)
		switch exmem.Bundle.Funct3 {
		case 0x0: // lb
			v, err = mem.LoadSigned(exmem.ALUResult, memory.Byte)
		case 0x1: // lh
			v, err = mem.LoadSigned(exmem.ALUResult, memory.Half)
		default: // lw
			v, err = mem.LoadUnsigned(exmem.ALUResult, memory.Word)
		}
		if err != nil {
			return MEMWB{}, Wires{}, 0, err
		}
		wb.ReadData = v
		extraLatency, cacheResult, cacheAccessed = cacheLatency(dcache, exmem.ALUResult)
	}

	if exmem.Bundle.MemWrite {
		var err error
		switch exmem.Bundle.Funct3 {
		case 0x0: // sb
			err = mem.Store(exmem.ALUResult, memory.Byte, exmem.StoreData&0xFF)
		case 0x1: // sh
			err = mem.Store(exmem.ALUResult, memory.Half, exmem.StoreData&0xFFFF)
		default: // sw
			err = mem.Store(exmem.ALUResult, memory.Word, exmem.StoreData)
		}
		if err != nil {
			return MEMWB{}, Wires{}, 0, err
		}
		extraLatency, cacheResult, cacheAccessed = cacheLatency(dcache, exmem.ALUResult)
	}

	wires := Wires{
		PCSrcTaken:    exmem.Taken,
		BranchPC1:     exmem.Target,
		CacheAccessed: cacheAccessed,
		CacheResult:   cacheResult,
	}
	return wb, wires, extraLatency, nil
}

// cacheLatency consults the data cache for the access's latency
// contribution, if a cache is configured (§4.8 "Latency"), returning
// the full Result so the caller can feed it to trace.Logger.CacheEvent.
func cacheLatency(dcache *cache.Cache, addr uint32) (int, cache.Result, bool) {
	if dcache == nil {
		return 0, cache.Result{}, false
	}
	r := dcache.Operate(uint64(addr))
	return dcache.Latency(r.Status), r, true
}

// Writeback commits to the register file from MEM/WB.Out — last
// cycle's memory output, preserving five-stage latency (§4.5 step 8).
// x0 writes are discarded by regfile.File.Write.
func Writeback(memwb MEMWB, rf *regfile.File) {
	if !memwb.Bundle.RegWrite {
		return
	}
	writeData := memwb.ALUResult
	if memwb.Bundle.MemToReg {
		writeData = memwb.ReadData
	}
	rf.Write(memwb.Rd, writeData)
}
