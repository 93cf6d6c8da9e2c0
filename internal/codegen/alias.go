package codegen

import (
	"errors"

	"quanta/internal/blocks"
	"quanta/internal/diag"
	"quanta/internal/isa"
)

var aliases = map[isa.Instruction]string{
	isa.Noop:          "NOOP",
	isa.Not:           "not",
	isa.ShiftLeft:     "sl",
	isa.ShiftRight:    "sr",
	isa.RotateLeft:    "rl",
	isa.RotateRight:   "rr",
	isa.Jump:          "j",
	isa.Mov:           "mov",
	isa.Load:          "load",
	isa.Store:         "store",
	isa.Add:           "add",
	isa.Subtract:      "sub",
	isa.And:           "and",
	isa.Or:            "or",
	isa.Xor:           "xor",
	isa.Xnor:          "xnor",
	isa.Call:          "call",
	isa.JumpEqual:     "je",
	isa.JumpNotEqual:  "jne",
	isa.JumpLess:      "jl",
	isa.JumpGreater:   "jg",
	isa.LoadImmediate: "li",
}

// Mnemonic returns the opcode text for in as written in the alias table.
func Mnemonic(in isa.Instruction) (string, error) {
	if !in.Valid() {
		return "", defectf(diag.GenInvalidInstr, blocks.NoID, "invalid instruction %s", in)
	}
	m, ok := aliases[in]
	if !ok {
		return "", defectf(diag.GenMissingAlias, blocks.NoID, "no mnemonic for %s", in)
	}
	return m, nil
}

// Alias pairs an instruction with its mnemonic.
type Alias struct {
	Instr    isa.Instruction
	Mnemonic string
}

// Aliases lists the alias table in instruction order. Instructions
// without an entry are omitted.
func Aliases() []Alias {
	out := make([]Alias, 0, len(aliases))
	for _, in := range isa.All() {
		if m, ok := aliases[in]; ok {
			out = append(out, Alias{Instr: in, Mnemonic: m})
		}
	}
	return out
}

// ValidateAliases checks that every instruction has a non-empty mnemonic.
// All missing entries are reported together.
func ValidateAliases() error {
	var errs []error
	for _, in := range isa.All() {
		if m, ok := aliases[in]; !ok || m == "" {
			errs = append(errs, defectf(diag.GenMissingAlias, blocks.NoID, "no mnemonic for %s", in))
		}
	}
	return errors.Join(errs...)
}
