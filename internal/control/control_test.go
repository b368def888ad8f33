package control

import (
	"testing"

	"github.com/rv32/pipesim/internal/alu"
	"github.com/rv32/pipesim/internal/inst"
)

func TestGen(t *testing.T) {
	tests := []struct {
		name   string
		instr  inst.Instruction
		bundle Bundle
	}{
		{
			name:   "r-type",
			instr:  inst.Instruction{Format: inst.FormatR, Funct3: 0, Funct7: 0},
			bundle: Bundle{ALUOp: ALUOpR, RegWrite: true},
		},
		{
			name:   "load",
			instr:  inst.Instruction{Format: inst.FormatLoad, Funct3: 2},
			bundle: Bundle{ALUOp: ALUOpLoadStore, ALUSrcB: true, MemRead: true, MemToReg: true, RegWrite: true, Funct3: 2},
		},
		{
			name:   "store",
			instr:  inst.Instruction{Format: inst.FormatStore, Funct3: 2},
			bundle: Bundle{ALUOp: ALUOpLoadStore, ALUSrcB: true, MemWrite: true, Funct3: 2},
		},
		{
			name:   "branch",
			instr:  inst.Instruction{Format: inst.FormatBranch, Funct3: 1},
			bundle: Bundle{ALUOp: ALUOpBranch, Branch: true, Funct3: 1},
		},
		{
			name:   "jal",
			instr:  inst.Instruction{Format: inst.FormatJump},
			bundle: Bundle{ALUOp: ALUOpJAL, Branch: true, RegWrite: true},
		},
		{
			name:   "system halt",
			instr:  inst.Instruction{Format: inst.FormatSystem},
			bundle: Bundle{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Gen(tc.instr); got != tc.bundle {
				t.Errorf("Gen(%+v) = %+v, want %+v", tc.instr, got, tc.bundle)
			}
		})
	}
}

func TestGenALUControl(t *testing.T) {
	tests := []struct {
		name   string
		bundle Bundle
		want   alu.Op
	}{
		{"load/store add", Bundle{ALUOp: ALUOpLoadStore}, alu.OpAdd},
		{"branch sub", Bundle{ALUOp: ALUOpBranch}, alu.OpSub},
		{"r-type add", Bundle{ALUOp: ALUOpR, Funct3: 0x0, Funct7: 0x00}, alu.OpAdd},
		{"r-type sub", Bundle{ALUOp: ALUOpR, Funct3: 0x0, Funct7: 0x20}, alu.OpSub},
		{"r-type mul", Bundle{ALUOp: ALUOpR, Funct3: 0x0, Funct7: 0x01}, alu.OpMul},
		{"r-type mulh", Bundle{ALUOp: ALUOpR, Funct3: 0x1, Funct7: 0x01}, alu.OpMulh},
		{"r-type sra", Bundle{ALUOp: ALUOpR, Funct3: 0x5, Funct7: 0x20}, alu.OpSRA},
		{"i-type srli", Bundle{ALUOp: ALUOpI, Funct3: 0x5, Funct7: 0x00}, alu.OpSRL},
		{"lui", Bundle{ALUOp: ALUOpLUI}, alu.OpLUI},
		{"jal", Bundle{ALUOp: ALUOpJAL}, alu.OpJALLink},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := GenALUControl(tc.bundle); got != tc.want {
				t.Errorf("GenALUControl(%+v) = %v, want %v", tc.bundle, got, tc.want)
			}
		})
	}
}
