package inst

// Encode functions are the inverse of Decode, used to build test
// programs and, eventually, a toolchain front-end; spec.md only
// specifies decode, but an encoder is the natural counterpart and
// keeps test fixtures honest about the bit layout instead of
// hand-computed hex words.

// EncodeR assembles an R-type word (§4.1).
func EncodeR(funct7, rs2, rs1, funct3, rd uint8) uint32 {
	return uint32(OpR) |
		uint32(rd&0x1F)<<7 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		uint32(funct7&0x7F)<<25
}

// EncodeI assembles an I-type word (addi/etc., opcode 0x13).
func EncodeI(imm int32, rs1, funct3, rd uint8) uint32 {
	return uint32(OpI) |
		uint32(rd&0x1F)<<7 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		(uint32(imm)&0xFFF)<<20
}

// EncodeShiftI assembles a shift-immediate I-type word, which borrows
// the funct7 field to distinguish srli/srai.
func EncodeShiftI(funct7, shamt, rs1, funct3, rd uint8) uint32 {
	return uint32(OpI) |
		uint32(rd&0x1F)<<7 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(shamt&0x1F)<<20 |
		uint32(funct7&0x7F)<<25
}

// EncodeLoad assembles a load word (opcode 0x03).
func EncodeLoad(imm int32, rs1, funct3, rd uint8) uint32 {
	return uint32(OpLoad) |
		uint32(rd&0x1F)<<7 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		(uint32(imm)&0xFFF)<<20
}

// EncodeStore assembles an S-type word (opcode 0x23).
func EncodeStore(imm int32, rs2, rs1, funct3 uint8) uint32 {
	u := uint32(imm)
	lo := u & 0x1F
	hi := (u >> 5) & 0x7F
	return uint32(OpStore) |
		lo<<7 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		hi<<25
}

// EncodeBranch assembles an SB-type word (opcode 0x63). imm must be
// even; bit 0 is implicitly zero as in the RISC-V branch encoding.
func EncodeBranch(imm int32, rs2, rs1, funct3 uint8) uint32 {
	u := uint32(imm)
	bit11 := (u >> 11) & 0x1
	bit12 := (u >> 12) & 0x1
	bits4_1 := (u >> 1) & 0xF
	bits10_5 := (u >> 5) & 0x3F
	return uint32(OpBranch) |
		bit11<<7 |
		bits4_1<<8 |
		uint32(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		bits10_5<<25 |
		bit12<<31
}

// EncodeU assembles a U-type word (lui, opcode 0x37). imm20 is the
// already-shifted 20-bit immediate occupying bits [31:12].
func EncodeU(imm20 uint32, rd uint8) uint32 {
	return uint32(OpLUI) | uint32(rd&0x1F)<<7 | (imm20 << 12)
}

// EncodeJAL assembles a UJ-type word (opcode 0x6F).
func EncodeJAL(imm int32, rd uint8) uint32 {
	u := uint32(imm)
	bit20 := (u >> 20) & 0x1
	bits10_1 := (u >> 1) & 0x3FF
	bit11 := (u >> 11) & 0x1
	bits19_12 := (u >> 12) & 0xFF
	return uint32(OpJAL) |
		uint32(rd&0x1F)<<7 |
		bits19_12<<12 |
		bit11<<20 |
		bits10_1<<21 |
		bit20<<31
}

// EncodeHalt returns the raw ecall word (§4.7 "Halt").
func EncodeHalt() uint32 { return 0x00000073 }
