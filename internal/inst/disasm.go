package inst

import "fmt"

// mnemonic tables, keyed by funct3 (and funct7 where needed), used only
// for trace output (§6 trace line shape). Mirrors the teacher's
// Catalog[OpCode].Mnemonic lookup in spirit, but keyed by the rv32
// funct3/funct7 fields instead of a flat opcode enum.
var rTypeMnemonic = map[uint8]map[uint8]string{
	0x0: {0x00: "add", 0x20: "sub", 0x01: "mul"},
	0x1: {0x00: "sll", 0x01: "mulh"},
	0x2: {0x00: "slt"},
	0x4: {0x00: "xor"},
	0x5: {0x00: "srl", 0x20: "sra"},
	0x6: {0x00: "or"},
	0x7: {0x00: "and"},
}

var iTypeMnemonic = map[uint8]string{
	0x0: "addi",
	0x1: "slli",
	0x2: "slti",
	0x4: "xori",
	0x5: "srli", // or srai, disambiguated by funct7 below
	0x6: "ori",
	0x7: "andi",
}

var loadMnemonic = map[uint8]string{0x0: "lb", 0x1: "lh", 0x2: "lw"}
var storeMnemonic = map[uint8]string{0x0: "sb", 0x1: "sh", 0x2: "sw"}
var branchMnemonic = map[uint8]string{0x0: "beq", 0x1: "bne"}

// Disassemble renders a stable, human-readable mnemonic for tracing.
// Not a full assembler-quality disassembler — only what the trace line
// shape in spec.md §6 needs.
func Disassemble(i Instruction) string {
	switch i.Format {
	case FormatR:
		m := rTypeMnemonic[i.Funct3][i.Funct7]
		if m == "" {
			m = "r?"
		}
		return fmt.Sprintf("%s x%d, x%d, x%d", m, i.Rd, i.Rs1, i.Rs2)
	case FormatI:
		m := iTypeMnemonic[i.Funct3]
		if i.Funct3 == 0x5 && i.Funct7 == 0x20 {
			m = "srai"
		}
		if m == "" {
			m = "i?"
		}
		return fmt.Sprintf("%s x%d, x%d, %d", m, i.Rd, i.Rs1, i.Imm)
	case FormatLoad:
		m := loadMnemonic[i.Funct3]
		if m == "" {
			m = "l?"
		}
		return fmt.Sprintf("%s x%d, %d(x%d)", m, i.Rd, i.Imm, i.Rs1)
	case FormatStore:
		m := storeMnemonic[i.Funct3]
		if m == "" {
			m = "s?"
		}
		return fmt.Sprintf("%s x%d, %d(x%d)", m, i.Rs2, i.Imm, i.Rs1)
	case FormatBranch:
		m := branchMnemonic[i.Funct3]
		if m == "" {
			m = "b?"
		}
		return fmt.Sprintf("%s x%d, x%d, %d", m, i.Rs1, i.Rs2, i.Imm)
	case FormatU:
		return fmt.Sprintf("lui x%d, 0x%x", i.Rd, uint32(i.Imm)>>12)
	case FormatJump:
		return fmt.Sprintf("jal x%d, %d", i.Rd, i.Imm)
	case FormatSystem:
		return "ecall"
	default:
		return fmt.Sprintf("<0x%08x>", i.Bits)
	}
}
