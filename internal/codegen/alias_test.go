package codegen

import (
	"testing"

	"quanta/internal/isa"
)

func TestAliasTableCoversInstructionSet(t *testing.T) {
	if err := ValidateAliases(); err != nil {
		t.Fatal(err)
	}
	if got, want := len(Aliases()), len(isa.All()); got != want {
		t.Errorf("Aliases() has %d entries, want %d", got, want)
	}
	for shape := isa.ShapeNoOperand; shape <= isa.ShapeImmediate; shape++ {
		for _, in := range isa.ForShape(shape) {
			if _, err := Mnemonic(in); err != nil {
				t.Errorf("%s (%s): %v", in, shape, err)
			}
		}
	}
}

func TestMnemonic(t *testing.T) {
	tests := map[isa.Instruction]string{
		isa.Noop:          "NOOP",
		isa.Not:           "not",
		isa.LoadImmediate: "li",
		isa.Subtract:      "sub",
		isa.JumpGreater:   "jg",
	}
	for in, want := range tests {
		if got, err := Mnemonic(in); err != nil || got != want {
			t.Errorf("Mnemonic(%s) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := Mnemonic(isa.InvalidInstruction); err == nil {
		t.Errorf("Mnemonic(invalid) succeeded")
	}
}

func TestParseMnemonicCase(t *testing.T) {
	for _, s := range []string{"table", "lower", "UPPER", ""} {
		if _, err := ParseMnemonicCase(s); err != nil {
			t.Errorf("ParseMnemonicCase(%q): %v", s, err)
		}
	}
	if _, err := ParseMnemonicCase("title"); err == nil {
		t.Errorf("ParseMnemonicCase accepted title")
	}
}
