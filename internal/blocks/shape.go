package blocks

import "quanta/internal/isa"

// Kind tags the shape stored in a block.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindNoop
	KindSingleRegister
	KindDoubleRegister
	KindTripleRegister
	KindImmediate
	KindLabelGroup
	KindComment
	KindRegister
	KindLabel
	KindNumber
	KindArithmetic
	KindIndex
	KindVariable
)

var kindNames = [...]string{
	KindInvalid:        "invalid",
	KindNoop:           "instruction_noop",
	KindSingleRegister: "instruction_single_register",
	KindDoubleRegister: "instruction_double_register",
	KindTripleRegister: "instruction_triple_register",
	KindImmediate:      "instruction_immediate",
	KindLabelGroup:     "label_group",
	KindComment:        "comment",
	KindRegister:       "type_register",
	KindLabel:          "type_label",
	KindNumber:         "math_number",
	KindArithmetic:     "math_arithmetic",
	KindIndex:          "math_index",
	KindVariable:       "variables_get",
}

// String returns the editor's block type tag.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// KindOf maps an editor block type tag to a Kind.
func KindOf(tag string) (Kind, bool) {
	for k, name := range kindNames {
		if k != int(KindInvalid) && name == tag {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

// IsValue reports whether blocks of this kind have an output connection.
func (k Kind) IsValue() bool {
	switch k {
	case KindRegister, KindLabel, KindNumber, KindArithmetic, KindIndex, KindVariable:
		return true
	}
	return false
}

// Shape is the closed set of block payloads. Each variant carries exactly the
// fields its emitter needs; value inputs are block ids (NoID when empty).
type Shape interface {
	Kind() Kind
	// ValueInputs lists the value slots in palette order.
	ValueInputs() []ID
	isShape()
}

type (
	// Noop is the NOOP instruction block.
	Noop struct{}

	SingleRegister struct {
		Instr isa.Instruction
		A     ID
	}

	DoubleRegister struct {
		Instr isa.Instruction
		A, B  ID
	}

	TripleRegister struct {
		Instr   isa.Instruction
		A, B, C ID
	}

	// Immediate is a register plus immediate operand instruction.
	Immediate struct {
		Instr isa.Instruction
		A     ID
		Imm   ID
	}

	// LabelGroup names a label and owns the chain nested under it.
	LabelGroup struct {
		Label string
		Body  ID
	}

	Comment struct {
		Text string
	}

	Register struct {
		Name string
	}

	// LabelRef refers to a label by name from an operand slot.
	LabelRef struct {
		Name string
	}

	// Number is a numeric literal as typed in the editor.
	Number struct {
		Value string
	}

	Arithmetic struct {
		Op   ArithOp
		A, B ID
	}

	// Index is an index operand: the value in At shifted by Delta and
	// optionally negated, honouring the workspace indexing base.
	Index struct {
		At     ID
		Delta  int
		Negate bool
	}

	// Variable reads a workspace variable by its editor id.
	Variable struct {
		VarID string
	}
)

// ArithOp is the operator of an Arithmetic block.
type ArithOp uint8

const (
	OpAdd ArithOp = iota + 1
	OpMinus
	OpMultiply
	OpDivide
)

var arithOps = map[string]ArithOp{
	"ADD":      OpAdd,
	"MINUS":    OpMinus,
	"MULTIPLY": OpMultiply,
	"DIVIDE":   OpDivide,
}

// ParseArithOp maps the editor OP field value to an ArithOp.
func ParseArithOp(s string) (ArithOp, bool) {
	op, ok := arithOps[s]
	return op, ok
}

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "ADD"
	case OpMinus:
		return "MINUS"
	case OpMultiply:
		return "MULTIPLY"
	case OpDivide:
		return "DIVIDE"
	}
	return "INVALID"
}

func (Noop) Kind() Kind           { return KindNoop }
func (SingleRegister) Kind() Kind { return KindSingleRegister }
func (DoubleRegister) Kind() Kind { return KindDoubleRegister }
func (TripleRegister) Kind() Kind { return KindTripleRegister }
func (Immediate) Kind() Kind      { return KindImmediate }
func (LabelGroup) Kind() Kind     { return KindLabelGroup }
func (Comment) Kind() Kind        { return KindComment }
func (Register) Kind() Kind       { return KindRegister }
func (LabelRef) Kind() Kind       { return KindLabel }
func (Number) Kind() Kind         { return KindNumber }
func (Arithmetic) Kind() Kind     { return KindArithmetic }
func (Index) Kind() Kind          { return KindIndex }
func (Variable) Kind() Kind       { return KindVariable }

func (Noop) ValueInputs() []ID             { return nil }
func (s SingleRegister) ValueInputs() []ID { return []ID{s.A} }
func (s DoubleRegister) ValueInputs() []ID { return []ID{s.A, s.B} }
func (s TripleRegister) ValueInputs() []ID { return []ID{s.A, s.B, s.C} }
func (s Immediate) ValueInputs() []ID      { return []ID{s.A, s.Imm} }
func (LabelGroup) ValueInputs() []ID       { return nil }
func (Comment) ValueInputs() []ID          { return nil }
func (Register) ValueInputs() []ID         { return nil }
func (LabelRef) ValueInputs() []ID         { return nil }
func (Number) ValueInputs() []ID           { return nil }
func (s Arithmetic) ValueInputs() []ID     { return []ID{s.A, s.B} }
func (s Index) ValueInputs() []ID          { return []ID{s.At} }
func (Variable) ValueInputs() []ID         { return nil }

func (Noop) isShape()           {}
func (SingleRegister) isShape() {}
func (DoubleRegister) isShape() {}
func (TripleRegister) isShape() {}
func (Immediate) isShape()      {}
func (LabelGroup) isShape()     {}
func (Comment) isShape()        {}
func (Register) isShape()       {}
func (LabelRef) isShape()       {}
func (Number) isShape()         {}
func (Arithmetic) isShape()     {}
func (Index) isShape()          {}
func (Variable) isShape()       {}
