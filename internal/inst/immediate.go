package inst

// SignExtend interprets field as an n-bit two's-complement integer and
// widens it to int32 (§4.1, §8). Ported from utils.c's
// sign_extend_number: OR in the high mask when the sign bit is set,
// otherwise mask down to n bits.
func SignExtend(field uint32, n uint) int32 {
	signBit := uint32(1) << (n - 1)
	if field&signBit != 0 {
		mask := ^uint32(0) << n
		return int32(field | mask)
	}
	return int32(field & (signBit<<1 - 1))
}

// immI reconstructs the I-type immediate from bits [31:20].
func immI(bits uint32) int32 {
	return SignExtend(bits>>20, 12)
}

// immS reconstructs the S-type immediate: imm7 (bits[31:25]) << 5 | imm5 (bits[11:7]).
func immS(bits uint32) int32 {
	imm7 := (bits >> 25) & 0x7F
	imm5 := (bits >> 7) & 0x1F
	return SignExtend(imm7<<5|imm5, 12)
}

// immSB reconstructs the branch displacement imm[12|10:5|4:1|11|0], bit 0 forced to zero.
// Ported from utils.c's get_branch_offset, generalized to operate on raw
// instruction bits instead of the pre-split stype/sbtype fields.
func immSB(bits uint32) int32 {
	imm5 := (bits >> 7) & 0x1F
	imm7 := (bits >> 25) & 0x7F

	imm11 := imm5 & 0x1
	imm4_1 := (imm5 >> 1) & 0xF
	imm10_5 := imm7 & 0x3F
	imm12 := (imm7 >> 6) & 0x1

	offset := (imm12 << 12) | (imm11 << 11) | (imm10_5 << 5) | (imm4_1 << 1)
	return SignExtend(offset, 13)
}

// immU places imm20 in bits [31:12]; the low 12 bits are zero.
func immU(bits uint32) int32 {
	return int32(bits & 0xFFFFF000)
}

// immUJ reconstructs the jump displacement imm[20|10:1|11|19:12], bit 0 forced
// to zero. Ported from utils.c's get_jump_offset.
func immUJ(bits uint32) int32 {
	imm20 := (bits >> 31) & 0x1
	imm10_1 := (bits >> 21) & 0x3FF
	imm11 := (bits >> 20) & 0x1
	imm19_12 := (bits >> 12) & 0xFF

	offset := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
	return SignExtend(offset, 21)
}
