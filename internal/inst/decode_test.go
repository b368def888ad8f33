package inst

import "testing"

func TestSignExtend(t *testing.T) {
	tests := []struct {
		field uint32
		n     uint
		want  int32
	}{
		{0x000, 12, 0},
		{0x7FF, 12, 2047},
		{0xFFF, 12, -1},
		{0x800, 12, -2048},
		{0x1, 1, -1},
	}
	for _, tc := range tests {
		if got := SignExtend(tc.field, tc.n); got != tc.want {
			t.Errorf("SignExtend(0x%x, %d) = %d, want %d", tc.field, tc.n, got, tc.want)
		}
	}
}

func TestDecodeRType(t *testing.T) {
	bits := EncodeR(0x00, 2, 1, 0x0, 3) // add x3, x1, x2
	got, err := Decode(bits, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := Instruction{Bits: bits, Opcode: OpR, Format: FormatR, Rd: 3, Rs1: 1, Rs2: 2, Funct3: 0, Funct7: 0}
	if got != want {
		t.Errorf("Decode(add) = %+v, want %+v", got, want)
	}
}

func TestDecodeIType(t *testing.T) {
	bits := EncodeI(-5, 1, 0x0, 2) // addi x2, x1, -5
	got, err := Decode(bits, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Imm != -5 || got.Rd != 2 || got.Rs1 != 1 {
		t.Errorf("Decode(addi) = %+v, want imm=-5 rd=2 rs1=1", got)
	}
}

func TestDecodeStoreAndLoadRoundTrip(t *testing.T) {
	store := EncodeStore(-4, 5, 6, 0x2) // sw x5, -4(x6)
	sd, err := Decode(store, 0)
	if err != nil {
		t.Fatalf("Decode(store): %v", err)
	}
	if sd.Imm != -4 || sd.Rs1 != 6 || sd.Rs2 != 5 {
		t.Errorf("Decode(store) = %+v, want imm=-4 rs1=6 rs2=5", sd)
	}

	load := EncodeLoad(100, 6, 0x2, 7) // lw x7, 100(x6)
	ld, err := Decode(load, 0)
	if err != nil {
		t.Fatalf("Decode(load): %v", err)
	}
	if ld.Imm != 100 || ld.Rs1 != 6 || ld.Rd != 7 {
		t.Errorf("Decode(load) = %+v, want imm=100 rs1=6 rd=7", ld)
	}
}

func TestDecodeBranchOffsets(t *testing.T) {
	for _, offset := range []int32{4, 8, -8, 4094, -4096} {
		bits := EncodeBranch(offset, 2, 1, 0x0)
		got, err := Decode(bits, 0)
		if err != nil {
			t.Fatalf("Decode(branch offset %d): %v", offset, err)
		}
		if got.Imm != offset {
			t.Errorf("Decode(branch offset %d).Imm = %d", offset, got.Imm)
		}
	}
}

func TestDecodeJALOffsets(t *testing.T) {
	for _, offset := range []int32{4, 1048574, -1048576, -4} {
		bits := EncodeJAL(offset, 1)
		got, err := Decode(bits, 0)
		if err != nil {
			t.Fatalf("Decode(jal offset %d): %v", offset, err)
		}
		if got.Imm != offset {
			t.Errorf("Decode(jal offset %d).Imm = %d", offset, got.Imm)
		}
	}
}

func TestDecodeInvalidOpcode(t *testing.T) {
	_, err := Decode(0x0000007F, 0x1000)
	if err == nil {
		t.Fatal("Decode(invalid opcode) = nil error, want ErrInvalidInstruction")
	}
	var invalid *ErrInvalidInstruction
	if _, ok := err.(*ErrInvalidInstruction); !ok {
		t.Errorf("Decode error type = %T, want %T", err, invalid)
	}
}

func TestIsHalt(t *testing.T) {
	halt, err := Decode(EncodeHalt(), 0)
	if err != nil {
		t.Fatalf("Decode(halt): %v", err)
	}
	if !halt.IsHalt() {
		t.Error("IsHalt() = false for ecall word")
	}

	nop, _ := Decode(EncodeI(0, 0, 0, 0), 0)
	if nop.IsHalt() {
		t.Error("IsHalt() = true for addi x0,x0,0")
	}
}
