package isa

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for _, in := range All() {
		got, ok := Parse(in.String())
		if !ok {
			t.Fatalf("Parse(%q) failed", in.String())
		}
		if got != in {
			t.Errorf("Parse(%q) = %v, want %v", in.String(), got, in)
		}
	}
	if _, ok := Parse("HALT"); ok {
		t.Errorf("Parse(HALT) should fail")
	}
}

func TestForShape(t *testing.T) {
	tests := []struct {
		shape Shape
		want  []Instruction
	}{
		{ShapeNoOperand, []Instruction{Noop}},
		{ShapeSingleRegister, []Instruction{Not, ShiftLeft, ShiftRight, RotateLeft, RotateRight, Jump}},
		{ShapeTripleRegister, []Instruction{JumpEqual, JumpNotEqual, JumpLess, JumpGreater}},
		{ShapeImmediate, []Instruction{LoadImmediate}},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			got := ForShape(tt.shape)
			if len(got) != len(tt.want) {
				t.Fatalf("ForShape(%v) = %v, want %v", tt.shape, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ForShape(%v)[%d] = %v, want %v", tt.shape, i, got[i], tt.want[i])
				}
			}
		})
	}
	if n := len(ForShape(ShapeDoubleRegister)); n != 10 {
		t.Errorf("double-register instructions = %d, want 10", n)
	}
}

func TestInvalidInstruction(t *testing.T) {
	if InvalidInstruction.Valid() {
		t.Errorf("InvalidInstruction.Valid() = true")
	}
	if InvalidInstruction.Shape() != ShapeInvalid {
		t.Errorf("InvalidInstruction.Shape() = %v", InvalidInstruction.Shape())
	}
	if s := Instruction(200).String(); s != "Instruction(200)" {
		t.Errorf("String() = %q", s)
	}
}

func TestRegisters(t *testing.T) {
	if !IsRegister("$ra") || !IsRegister("$zero") {
		t.Errorf("expected $ra and $zero to be registers")
	}
	if IsRegister("$30") {
		t.Errorf("$30 is not a palette register")
	}
	if len(Registers) != 32 {
		t.Errorf("len(Registers) = %d, want 32", len(Registers))
	}
}
