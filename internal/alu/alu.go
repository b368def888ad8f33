// Package alu implements the pure integer execute unit (§4.3).
package alu

// Op is the internal ALU operation tag produced by control.GenALUControl.
// Treated as a closed enumeration (§9 open question 2): the source uses
// 0x10 and 0x2 inconsistently as the R-type ALUOp tag across variants;
// we fix one unambiguous set of Go constants instead of carrying that
// ambiguity forward.
type Op uint8

const (
	OpAnd Op = iota
	OpOr
	OpAdd
	OpSub
	OpSLL
	OpSLT
	OpXor
	OpSRL
	OpSRA
	OpMul
	OpMulh
	OpLUI
	OpJALLink
	opInvalid
)

// InvalidResult is returned for an unrecognized Op tag (§4.3). The
// simulator never uses this value for control flow — it is a visible
// sentinel, not an error path.
const InvalidResult uint32 = 0xBADCAFFE

// Exec computes the 32-bit result of op over two operands (§4.3).
// Pure function: no side effects, no access to pipeline state.
func Exec(op Op, a, b uint32) uint32 {
	switch op {
	case OpAnd:
		return a & b
	case OpOr:
		return a | b
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpSLL:
		return a << (b & 0x1F)
	case OpSLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case OpXor:
		return a ^ b
	case OpSRL:
		return a >> (b & 0x1F)
	case OpSRA:
		return uint32(int32(a) >> (b & 0x1F))
	case OpMul:
		return a * b
	case OpMulh:
		// High 32 bits of the unsigned 32x32 product, following the
		// source's execute_alu regardless of operand signedness (§4.3,
		// §9 open question 1 — left unresolved per the open question;
		// see DESIGN.md).
		return uint32((uint64(a) * uint64(b)) >> 32)
	case OpLUI:
		return b << 12
	case OpJALLink:
		return a + 4
	default:
		return InvalidResult
	}
}
