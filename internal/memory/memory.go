// Package memory implements byte-addressed little-endian memory with
// sign-extending load variants (§3 "Lifecycle", §4.1, §4.7).
package memory

import "fmt"

// Width names a load/store access size in bytes.
type Width int

const (
	Byte Width = 1
	Half Width = 2
	Word Width = 4
)

// Memory is a flat byte-addressable image. Endianness is little-endian
// regardless of host byte order (§4.7): implementations on big-endian
// hosts would need to byte-swap; this one is explicit about the layout
// instead of relying on host order.
type Memory struct {
	bytes []byte
}

// New creates a zero-filled memory of the given size in bytes.
func New(size uint32) *Memory {
	return &Memory{bytes: make([]byte, size)}
}

// NewFromImage creates memory pre-loaded with image at offset 0.
func NewFromImage(image []byte, size uint32) *Memory {
	if uint32(len(image)) > size {
		size = uint32(len(image))
	}
	m := New(size)
	copy(m.bytes, image)
	return m
}

// ErrInvalidRead / ErrInvalidWrite report an out-of-range access (§7).
type ErrInvalidRead struct{ Address uint32 }
type ErrInvalidWrite struct{ Address uint32 }

func (e *ErrInvalidRead) Error() string  { return fmt.Sprintf("invalid read at 0x%08x", e.Address) }
func (e *ErrInvalidWrite) Error() string { return fmt.Sprintf("invalid write at 0x%08x", e.Address) }

// LoadUnsigned reads w bytes little-endian at addr without sign extension.
// The source accepts unaligned word/half access without checking (§7
// MisalignedAccess is optional); we do the same here.
func (m *Memory) LoadUnsigned(addr uint32, w Width) (uint32, error) {
	if uint64(addr)+uint64(w) > uint64(len(m.bytes)) {
		return 0, &ErrInvalidRead{Address: addr}
	}
	var v uint32
	for i := Width(0); i < w; i++ {
		v |= uint32(m.bytes[addr+uint32(i)]) << (8 * uint(i))
	}
	return v, nil
}

// LoadSigned reads w bytes and sign-extends to 32 bits (lb/lh; lw needs
// no extension since it already occupies the full word).
func (m *Memory) LoadSigned(addr uint32, w Width) (uint32, error) {
	v, err := m.LoadUnsigned(addr, w)
	if err != nil {
		return 0, err
	}
	if w == Word {
		return v, nil
	}
	signBit := uint32(1) << (8*uint(w) - 1)
	if v&signBit != 0 {
		return v | (^uint32(0) << (8 * uint(w))), nil
	}
	return v, nil
}

// Store writes the low w bytes of value little-endian at addr.
func (m *Memory) Store(addr uint32, w Width, value uint32) error {
	if uint64(addr)+uint64(w) > uint64(len(m.bytes)) {
		return &ErrInvalidWrite{Address: addr}
	}
	for i := Width(0); i < w; i++ {
		m.bytes[addr+uint32(i)] = byte(value >> (8 * uint(i)))
	}
	return nil
}

// FetchWord reads a 32-bit instruction word at addr (fetch stage, §4.5).
func (m *Memory) FetchWord(addr uint32) (uint32, error) {
	return m.LoadUnsigned(addr, Word)
}

// Size returns the memory's total byte capacity.
func (m *Memory) Size() uint32 { return uint32(len(m.bytes)) }

// Snapshot returns a copy of the backing bytes, for checkpointing.
func (m *Memory) Snapshot() []byte {
	out := make([]byte, len(m.bytes))
	copy(out, m.bytes)
	return out
}

// Restore overwrites the backing bytes from a prior Snapshot. The
// slice lengths must match: checkpoints are only valid against memory
// built with the same size.
func (m *Memory) Restore(snapshot []byte) error {
	if len(snapshot) != len(m.bytes) {
		return fmt.Errorf("memory: restore size mismatch: have %d, want %d", len(snapshot), len(m.bytes))
	}
	copy(m.bytes, snapshot)
	return nil
}
