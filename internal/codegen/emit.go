package codegen

import (
	"errors"
	"strings"

	"quanta/internal/blocks"
	"quanta/internal/diag"
	"quanta/internal/isa"
)

// statementCode renders the block's own text, without comments or
// successors.
func (p *pass) statementCode(id blocks.ID, blk *blocks.Block) (string, error) {
	switch s := blk.Shape.(type) {
	case blocks.Noop:
		return p.emitInstruction(id, isa.Noop, isa.ShapeNoOperand)
	case blocks.SingleRegister:
		return p.emitInstruction(id, s.Instr, isa.ShapeSingleRegister, s.A)
	case blocks.DoubleRegister:
		return p.emitInstruction(id, s.Instr, isa.ShapeDoubleRegister, s.A, s.B)
	case blocks.TripleRegister:
		return p.emitInstruction(id, s.Instr, isa.ShapeTripleRegister, s.A, s.B, s.C)
	case blocks.Immediate:
		return p.emitInstruction(id, s.Instr, isa.ShapeImmediate, s.A, s.Imm)
	case blocks.LabelGroup:
		return p.emitLabelGroup(s)
	case blocks.Comment:
		return emitComment(s), nil
	case blocks.Register, blocks.LabelRef, blocks.Number, blocks.Arithmetic, blocks.Index, blocks.Variable:
		// naked value
		text, _, err := p.valueCode(id, blk)
		if err != nil {
			return "", err
		}
		return text + ";\n", nil
	case nil:
		return "", defectf(diag.GenUnknownShape, id, "block has no shape")
	default:
		return "", defectf(diag.GenUnknownShape, id, "no emitter for %T", s)
	}
}

func (p *pass) emitInstruction(id blocks.ID, in isa.Instruction, want isa.Shape, operands ...blocks.ID) (string, error) {
	if got := in.Shape(); got != want {
		return "", defectf(diag.GenShapeMismatch, id, "%s is a %s instruction, used in a %s block", in, got, want)
	}
	m, err := p.mnemonic(id, in)
	if err != nil {
		return "", err
	}
	if len(operands) == 0 {
		return m + "\n", nil
	}
	args := make([]string, len(operands))
	for i, op := range operands {
		if args[i], err = p.operand(op); err != nil {
			return "", err
		}
	}
	return m + " " + strings.Join(args, ", ") + "\n", nil
}

func (p *pass) mnemonic(id blocks.ID, in isa.Instruction) (string, error) {
	m, err := Mnemonic(in)
	if err != nil {
		var d *Defect
		if errors.As(err, &d) {
			d.Block = id
		}
		return "", err
	}
	switch p.opts.MnemonicCase {
	case CaseLower:
		return p.lower.String(m), nil
	case CaseUpper:
		return p.upper.String(m), nil
	}
	return m, nil
}

func (p *pass) emitLabelGroup(lg blocks.LabelGroup) (string, error) {
	body, err := p.chainCode(lg.Body)
	if err != nil {
		return "", err
	}
	return lg.Label + ":\n" + indentLines(body, p.opts.Indent), nil
}

func emitComment(c blocks.Comment) string {
	return "; " + c.Text + "\n"
}

// valueCode renders a value block and reports the order of the result.
func (p *pass) valueCode(id blocks.ID, blk *blocks.Block) (string, Order, error) {
	switch s := blk.Shape.(type) {
	case blocks.Register:
		return s.Name, OrderAtomic, nil
	case blocks.LabelRef:
		return "." + s.Name, OrderAtomic, nil
	case blocks.Number:
		return s.Value, OrderAtomic, nil
	case blocks.Arithmetic:
		return p.emitArithmetic(id, s)
	case blocks.Index:
		return p.adjusted(s.At, Adjust{Delta: s.Delta, Negate: s.Negate})
	case blocks.Variable:
		return p.variableName(s.VarID), OrderAtomic, nil
	case nil:
		return "", OrderAtomic, defectf(diag.GenUnknownShape, id, "block has no shape")
	default:
		return "", OrderAtomic, defectf(diag.GenShapeMismatch, id, "%s block has no output", blk.Kind())
	}
}

func (p *pass) emitArithmetic(id blocks.ID, a blocks.Arithmetic) (string, Order, error) {
	var op string
	var order Order
	switch a.Op {
	case blocks.OpAdd:
		op, order = " + ", OrderAddition
	case blocks.OpMinus:
		op, order = " - ", OrderSubtraction
	case blocks.OpMultiply:
		op, order = " * ", OrderMultiplication
	case blocks.OpDivide:
		op, order = " / ", OrderDivision
	default:
		return "", OrderAtomic, defectf(diag.GenUnknownShape, id, "unknown arithmetic operator %s", a.Op)
	}
	left, err := p.arithmeticArg(a.A, order)
	if err != nil {
		return "", OrderAtomic, err
	}
	right, err := p.arithmeticArg(a.B, order)
	if err != nil {
		return "", OrderAtomic, err
	}
	return left + op + right, order, nil
}

func (p *pass) arithmeticArg(child blocks.ID, order Order) (string, error) {
	text, _, err := p.valueToCode(child, order)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "0", nil
	}
	return text, nil
}

// variableName returns the declared identifier for varID. Ids missing from
// the workspace are named but never declared.
func (p *pass) variableName(varID string) string {
	if v, ok := p.tree.Variable(varID); ok {
		return p.names.name(v)
	}
	return p.names.name(blocks.Variable{ID: varID, Name: varID})
}
