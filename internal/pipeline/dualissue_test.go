package pipeline

import (
	"testing"

	"github.com/rv32/pipesim/internal/control"
	"github.com/rv32/pipesim/internal/inst"
)

func TestCheckCoIssueStructuralHazard(t *testing.T) {
	slot0 := inst.Instruction{Opcode: inst.OpLoad}
	slot1 := inst.Instruction{Opcode: inst.OpStore}
	d := CheckCoIssue(slot0, control.Bundle{}, 0, false, slot1)
	if d.CoIssue {
		t.Errorf("same-class (load/store) pair should refuse co-issue, got %+v", d)
	}
}

func TestCheckCoIssueDataHazard(t *testing.T) {
	slot0 := inst.Instruction{Opcode: inst.OpR, Rd: 5}
	slot1 := inst.Instruction{Opcode: inst.OpLoad, Rs1: 5}
	d := CheckCoIssue(slot0, control.Bundle{RegWrite: true}, 5, false, slot1)
	if d.CoIssue {
		t.Errorf("slot1 reading slot0's rd should refuse co-issue, got %+v", d)
	}
}

func TestCheckCoIssueControlHazard(t *testing.T) {
	slot0 := inst.Instruction{Opcode: inst.OpBranch}
	slot1 := inst.Instruction{Opcode: inst.OpLoad}
	d := CheckCoIssue(slot0, control.Bundle{Branch: true}, 0, true, slot1)
	if d.CoIssue {
		t.Errorf("taken branch in slot0 should refuse co-issue, got %+v", d)
	}
}

func TestCheckCoIssueAllowed(t *testing.T) {
	slot0 := inst.Instruction{Opcode: inst.OpR, Rd: 1}
	slot1 := inst.Instruction{Opcode: inst.OpLoad, Rs1: 2}
	d := CheckCoIssue(slot0, control.Bundle{RegWrite: true}, 1, false, slot1)
	if !d.CoIssue {
		t.Errorf("independent ALU + load pair should co-issue, got %+v", d)
	}
}

func TestForwardSlot1MemEXOnly(t *testing.T) {
	idex := IDEX{Rs1: 3, Rs2: 4}
	memwb := MEMWB{Rd: 3, Bundle: control.Bundle{RegWrite: true}}
	a, b := ForwardSlot1(idex, memwb)
	if a != ForwardMemEX {
		t.Errorf("forwardA = %v, want ForwardMemEX", a)
	}
	if b != ForwardNone {
		t.Errorf("forwardB = %v, want ForwardNone", b)
	}
}
