// Package inst decodes 32-bit rv32 words into tagged instruction records
// and reconstructs their sign-extended immediates.
package inst

import "fmt"

// Opcode is the raw 7-bit opcode field, bits [6:0] of the instruction word.
type Opcode uint8

// Recognized opcodes (§4.1).
const (
	OpR      Opcode = 0x33 // register-register
	OpI      Opcode = 0x13 // register-immediate
	OpLoad   Opcode = 0x03 // load (I-format)
	OpStore  Opcode = 0x23 // store (S-format)
	OpBranch Opcode = 0x63 // beq/bne (SB-format)
	OpLUI    Opcode = 0x37 // load upper immediate (U-format)
	OpJAL    Opcode = 0x6F // jump and link (UJ-format)
	OpSystem Opcode = 0x73 // ecall / halt trap
)

// Format names the seven instruction encodings plus the system variant.
type Format uint8

const (
	FormatR Format = iota
	FormatI
	FormatLoad
	FormatStore
	FormatBranch
	FormatU
	FormatJump
	FormatSystem
)

func (f Format) String() string {
	switch f {
	case FormatR:
		return "R"
	case FormatI:
		return "I"
	case FormatLoad:
		return "I(load)"
	case FormatStore:
		return "S"
	case FormatBranch:
		return "SB"
	case FormatU:
		return "U"
	case FormatJump:
		return "UJ"
	case FormatSystem:
		return "SYSTEM"
	default:
		return "?"
	}
}

// Instruction is the decoded form of one 32-bit word. Only the fields
// relevant to its Format are meaningful; Bits is kept alongside for
// tracing and the halt-trap comparison in §4.7.
type Instruction struct {
	Bits   uint32
	Opcode Opcode
	Format Format

	Rd, Rs1, Rs2   uint8
	Funct3         uint8
	Funct7         uint8
	Imm            int32 // reconstructed, sign-extended (§4.1)
	ImmRaw5        uint8 // I-type shift amount (bits [24:20]); left zero for other formats
}

// ErrInvalidInstruction is returned by Decode for an unrecognized opcode (§7).
type ErrInvalidInstruction struct {
	Bits uint32
	PC   uint32
}

func (e *ErrInvalidInstruction) Error() string {
	return fmt.Sprintf("invalid instruction: bits=0x%08x pc=0x%08x", e.Bits, e.PC)
}

// IsHalt reports whether the raw word is the ecall halt trap (§4.7).
// The a0/x10 == 10 condition is checked separately by the caller, which
// has access to the register file.
func (i Instruction) IsHalt() bool {
	return i.Bits == 0x00000073
}
