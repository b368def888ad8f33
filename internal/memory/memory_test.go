package memory

import "testing"

func TestStoreLoadRoundTrip(t *testing.T) {
	m := New(64)
	tests := []struct {
		name string
		w    Width
		addr uint32
		val  uint32
	}{
		{"byte", Byte, 0, 0xAB},
		{"half", Half, 4, 0xBEEF},
		{"word", Word, 8, 0xDEADBEEF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := m.Store(tc.addr, tc.w, tc.val); err != nil {
				t.Fatalf("Store: %v", err)
			}
			got, err := m.LoadUnsigned(tc.addr, tc.w)
			if err != nil {
				t.Fatalf("LoadUnsigned: %v", err)
			}
			if got != tc.val {
				t.Errorf("LoadUnsigned(%s) = 0x%x, want 0x%x", tc.name, got, tc.val)
			}
		})
	}
}

func TestLoadSignedExtension(t *testing.T) {
	m := New(16)
	if err := m.Store(0, Byte, 0x80); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, err := m.LoadSigned(0, Byte)
	if err != nil {
		t.Fatalf("LoadSigned: %v", err)
	}
	if got != 0xFFFFFF80 {
		t.Errorf("LoadSigned(lb 0x80) = 0x%x, want 0xFFFFFF80", got)
	}
}

func TestLittleEndianLayout(t *testing.T) {
	m := New(8)
	if err := m.Store(0, Word, 0x11223344); err != nil {
		t.Fatalf("Store: %v", err)
	}
	b, _ := m.LoadUnsigned(0, Byte)
	if b != 0x44 {
		t.Errorf("byte 0 = 0x%x, want 0x44 (little-endian)", b)
	}
}

func TestOutOfRangeAccessErrors(t *testing.T) {
	m := New(4)
	if _, err := m.LoadUnsigned(4, Word); err == nil {
		t.Error("LoadUnsigned past end of memory should error")
	}
	if err := m.Store(4, Word, 0); err == nil {
		t.Error("Store past end of memory should error")
	}
}

func TestSnapshotRestore(t *testing.T) {
	m := New(8)
	m.Store(0, Word, 0xCAFEBABE)
	snap := m.Snapshot()

	m.Store(0, Word, 0)
	if err := m.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got, _ := m.LoadUnsigned(0, Word)
	if got != 0xCAFEBABE {
		t.Errorf("after Restore, word 0 = 0x%x, want 0xCAFEBABE", got)
	}
}
