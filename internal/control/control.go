// Package control maps a decoded instruction to the control-signal
// bundle carried through the pipeline (§3 "Control bundle", §4.2).
package control

import (
	"github.com/rv32/pipesim/internal/alu"
	"github.com/rv32/pipesim/internal/inst"
)

// ALUOpClass is the coarse ALU-operation class carried in the control
// bundle; control.GenALUControl refines it with funct3/funct7 into an
// alu.Op. Closed enumeration per §9 open question 2.
type ALUOpClass uint8

const (
	ALUOpLoadStore ALUOpClass = iota // lw/sw: always add
	ALUOpBranch                      // beq/bne: always subtract
	ALUOpR                           // R-type: refine via funct3/funct7
	ALUOpI                           // I-type: refine via funct3/funct7(shift)
	ALUOpLUI
	ALUOpJAL
)

// Bundle is the control-signal record carried in ID/EX onward (§3).
type Bundle struct {
	ALUOp    ALUOpClass
	ALUSrcB  bool // operand B is the immediate, not rs2
	Branch   bool // control-transfer candidate
	MemRead  bool
	MemWrite bool
	MemToReg bool // writeback selects memory result over ALU result
	RegWrite bool

	Funct3 uint8
	Funct7 uint8
}

// Gen produces the control bundle for a decoded instruction (§4.2 table).
func Gen(i inst.Instruction) Bundle {
	b := Bundle{Funct3: i.Funct3, Funct7: i.Funct7}

	switch i.Format {
	case inst.FormatR:
		b.ALUOp, b.RegWrite = ALUOpR, true
	case inst.FormatI:
		b.ALUOp, b.ALUSrcB, b.RegWrite = ALUOpI, true, true
	case inst.FormatLoad:
		b.ALUOp, b.ALUSrcB = ALUOpLoadStore, true
		b.MemRead, b.MemToReg, b.RegWrite = true, true, true
	case inst.FormatStore:
		b.ALUOp, b.ALUSrcB, b.MemWrite = ALUOpLoadStore, true, true
	case inst.FormatU:
		b.ALUOp, b.ALUSrcB, b.RegWrite = ALUOpLUI, true, true
	case inst.FormatJump:
		b.ALUOp, b.Branch, b.RegWrite = ALUOpJAL, true, true
	case inst.FormatBranch:
		b.ALUOp, b.Branch = ALUOpBranch, true
		// MemRead/MemWrite/RegWrite/MemToReg all stay false.
	case inst.FormatSystem:
		// Halt trap: no register or memory side effects of its own.
	}
	return b
}

// GenALUControl refines ALUOp with funct3/funct7 (or imm[31:25] for
// shift-immediates, passed in as funct7) to an internal alu.Op (§4.3).
func GenALUControl(b Bundle) alu.Op {
	switch b.ALUOp {
	case ALUOpLoadStore:
		return alu.OpAdd
	case ALUOpBranch:
		return alu.OpSub
	case ALUOpR:
		return rTypeALU(b.Funct3, b.Funct7)
	case ALUOpI:
		return iTypeALU(b.Funct3, b.Funct7)
	case ALUOpLUI:
		return alu.OpLUI
	case ALUOpJAL:
		return alu.OpJALLink
	default:
		return alu.OpAnd // unreachable for a closed ALUOpClass
	}
}

func rTypeALU(funct3, funct7 uint8) alu.Op {
	switch funct3 {
	case 0x0:
		switch funct7 {
		case 0x00:
			return alu.OpAdd
		case 0x20:
			return alu.OpSub
		case 0x01:
			return alu.OpMul
		}
	case 0x1:
		if funct7 == 0x01 {
			return alu.OpMulh
		}
		return alu.OpSLL
	case 0x2:
		return alu.OpSLT
	case 0x4:
		return alu.OpXor
	case 0x5:
		if funct7 == 0x20 {
			return alu.OpSRA
		}
		return alu.OpSRL
	case 0x6:
		return alu.OpOr
	case 0x7:
		return alu.OpAnd
	}
	return alu.OpAdd
}

func iTypeALU(funct3, shiftFunct7 uint8) alu.Op {
	switch funct3 {
	case 0x0:
		return alu.OpAdd
	case 0x1:
		return alu.OpSLL
	case 0x2:
		return alu.OpSLT
	case 0x4:
		return alu.OpXor
	case 0x5:
		if shiftFunct7 == 0x20 {
			return alu.OpSRA
		}
		return alu.OpSRL
	case 0x6:
		return alu.OpOr
	case 0x7:
		return alu.OpAnd
	}
	return alu.OpAdd
}
