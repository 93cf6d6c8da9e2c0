// Package isa enumerates the quanta instruction set as the block palette
// exposes it: one instruction identifier per dropdown entry, grouped by the
// operand shape of the block that offers it.
package isa

import "fmt"

// Instruction is an abstract instruction identifier (the value stored in a
// block's INSTRUCTION field, e.g. LOAD_IMMEDIATE).
type Instruction uint8

const (
	InvalidInstruction Instruction = iota

	Noop

	// single register
	Not
	ShiftLeft
	ShiftRight
	RotateLeft
	RotateRight
	Jump

	// double register
	Mov
	Load
	Store
	Add
	Subtract
	And
	Or
	Xor
	Xnor
	Call

	// triple register
	JumpEqual
	JumpNotEqual
	JumpLess
	JumpGreater

	// register + immediate
	LoadImmediate

	instructionCount
)

// Shape is the operand layout an instruction is emitted with.
type Shape uint8

const (
	ShapeInvalid Shape = iota
	ShapeNoOperand
	ShapeSingleRegister
	ShapeDoubleRegister
	ShapeTripleRegister
	ShapeImmediate
)

func (s Shape) String() string {
	switch s {
	case ShapeNoOperand:
		return "no-operand"
	case ShapeSingleRegister:
		return "single-register"
	case ShapeDoubleRegister:
		return "double-register"
	case ShapeTripleRegister:
		return "triple-register"
	case ShapeImmediate:
		return "register+immediate"
	}
	return "invalid"
}

// Operands is the number of value inputs the shape consumes.
func (s Shape) Operands() int {
	switch s {
	case ShapeSingleRegister:
		return 1
	case ShapeDoubleRegister, ShapeImmediate:
		return 2
	case ShapeTripleRegister:
		return 3
	}
	return 0
}

type info struct {
	id    string
	shape Shape
}

var table = [instructionCount]info{
	Noop:          {"NOOP", ShapeNoOperand},
	Not:           {"NOT", ShapeSingleRegister},
	ShiftLeft:     {"SL", ShapeSingleRegister},
	ShiftRight:    {"SR", ShapeSingleRegister},
	RotateLeft:    {"RL", ShapeSingleRegister},
	RotateRight:   {"RR", ShapeSingleRegister},
	Jump:          {"JUMP", ShapeSingleRegister},
	Mov:           {"MOV", ShapeDoubleRegister},
	Load:          {"LOAD", ShapeDoubleRegister},
	Store:         {"STORE", ShapeDoubleRegister},
	Add:           {"ADD", ShapeDoubleRegister},
	Subtract:      {"SUBTRACT", ShapeDoubleRegister},
	And:           {"AND", ShapeDoubleRegister},
	Or:            {"OR", ShapeDoubleRegister},
	Xor:           {"XOR", ShapeDoubleRegister},
	Xnor:          {"XNOR", ShapeDoubleRegister},
	Call:          {"CALL", ShapeDoubleRegister},
	JumpEqual:     {"JE", ShapeTripleRegister},
	JumpNotEqual:  {"JNE", ShapeTripleRegister},
	JumpLess:      {"JL", ShapeTripleRegister},
	JumpGreater:   {"JG", ShapeTripleRegister},
	LoadImmediate: {"LOAD_IMMEDIATE", ShapeImmediate},
}

var byID = func() map[string]Instruction {
	m := make(map[string]Instruction, len(table))
	for i := Noop; i < instructionCount; i++ {
		m[table[i].id] = i
	}
	return m
}()

// String returns the identifier used in workspace files.
func (i Instruction) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Instruction(%d)", uint8(i))
	}
	return table[i].id
}

// Valid reports whether i names a real instruction.
func (i Instruction) Valid() bool {
	return i > InvalidInstruction && i < instructionCount
}

// Shape returns the operand layout of i.
func (i Instruction) Shape() Shape {
	if !i.Valid() {
		return ShapeInvalid
	}
	return table[i].shape
}

// Parse looks up an instruction by its identifier.
func Parse(id string) (Instruction, bool) {
	i, ok := byID[id]
	return i, ok
}

// All returns every instruction in declaration order.
func All() []Instruction {
	out := make([]Instruction, 0, instructionCount-1)
	for i := Noop; i < instructionCount; i++ {
		out = append(out, i)
	}
	return out
}

// ForShape returns the instructions a block of the given shape may select.
func ForShape(s Shape) []Instruction {
	var out []Instruction
	for i := Noop; i < instructionCount; i++ {
		if table[i].shape == s {
			out = append(out, i)
		}
	}
	return out
}
