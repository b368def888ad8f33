package pipeline

import (
	"testing"

	"github.com/rv32/pipesim/internal/control"
)

func TestGenForwardPriority(t *testing.T) {
	idex := IDEX{Rs1: 1, Rs2: 2}

	// EX/MEM and MEM/WB both target rs1: EX/MEM must win.
	exmem := EXMEM{Rd: 1, Bundle: control.Bundle{RegWrite: true}}
	memwb := MEMWB{Rd: 1, Bundle: control.Bundle{RegWrite: true}}
	a, b := GenForward(idex, exmem, memwb)
	if a != ForwardExEX {
		t.Errorf("forwardA = %v, want ForwardExEX (EX/MEM priority)", a)
	}
	if b != ForwardNone {
		t.Errorf("forwardB = %v, want ForwardNone", b)
	}
}

func TestGenForwardMemEXFallback(t *testing.T) {
	idex := IDEX{Rs1: 1, Rs2: 2}
	exmem := EXMEM{Rd: 3, Bundle: control.Bundle{RegWrite: true}} // unrelated
	memwb := MEMWB{Rd: 2, Bundle: control.Bundle{RegWrite: true}}
	a, b := GenForward(idex, exmem, memwb)
	if a != ForwardNone {
		t.Errorf("forwardA = %v, want ForwardNone", a)
	}
	if b != ForwardMemEX {
		t.Errorf("forwardB = %v, want ForwardMemEX", b)
	}
}

func TestGenForwardIgnoresX0(t *testing.T) {
	idex := IDEX{Rs1: 0, Rs2: 0}
	exmem := EXMEM{Rd: 0, Bundle: control.Bundle{RegWrite: true}}
	a, b := GenForward(idex, exmem, MEMWB{})
	if a != ForwardNone || b != ForwardNone {
		t.Errorf("forwarding into x0 should never fire, got a=%v b=%v", a, b)
	}
}

func TestDetectLoadUse(t *testing.T) {
	idexOut := IDEX{Rd: 5, Bundle: control.Bundle{MemRead: true}}
	w := DetectLoadUse(idexOut, 5, 9)
	if !w.StallPC || !w.StallIFID || !w.BubbleIDEX {
		t.Errorf("DetectLoadUse(rd=5, rs1=5) = %+v, want all stall wires set", w)
	}

	w = DetectLoadUse(idexOut, 1, 2)
	if w.StallPC || w.StallIFID || w.BubbleIDEX {
		t.Errorf("DetectLoadUse(no overlap) = %+v, want no stall", w)
	}
}

func TestForwardedValue(t *testing.T) {
	exmem := EXMEM{ALUResult: 0xAAAA}
	memwbALU := MEMWB{ALUResult: 0xBBBB, Bundle: control.Bundle{MemToReg: false}}
	memwbLoad := MEMWB{ReadData: 0xCCCC, Bundle: control.Bundle{MemToReg: true}}

	if got := ForwardedValue(ForwardExEX, 0, exmem, MEMWB{}); got != 0xAAAA {
		t.Errorf("ForwardedValue(ExEX) = 0x%x, want 0xAAAA", got)
	}
	if got := ForwardedValue(ForwardMemEX, 0, EXMEM{}, memwbALU); got != 0xBBBB {
		t.Errorf("ForwardedValue(MemEX, alu) = 0x%x, want 0xBBBB", got)
	}
	if got := ForwardedValue(ForwardMemEX, 0, EXMEM{}, memwbLoad); got != 0xCCCC {
		t.Errorf("ForwardedValue(MemEX, load) = 0x%x, want 0xCCCC", got)
	}
	if got := ForwardedValue(ForwardNone, 0x1234, exmem, memwbALU); got != 0x1234 {
		t.Errorf("ForwardedValue(None) = 0x%x, want decoded value 0x1234", got)
	}
}
