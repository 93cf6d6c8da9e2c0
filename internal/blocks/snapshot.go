package blocks

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"quanta/internal/isa"
	"quanta/internal/source"
)

// snapshotSchema is bumped whenever the wire layout below changes.
const snapshotSchema uint16 = 1

type wireBlock struct {
	Kind     Kind     `msgpack:"k"`
	Instr    uint8    `msgpack:"i,omitempty"`
	Text     string   `msgpack:"t,omitempty"`
	Inputs   []ID     `msgpack:"in,omitempty"`
	Body     ID       `msgpack:"b,omitempty"`
	Op       ArithOp  `msgpack:"op,omitempty"`
	Delta    int      `msgpack:"d,omitempty"`
	Negate   bool     `msgpack:"neg,omitempty"`
	Next     ID       `msgpack:"n,omitempty"`
	Parent   ID       `msgpack:"p,omitempty"`
	Inline   bool     `msgpack:"il,omitempty"`
	Comment  string   `msgpack:"c,omitempty"`
	Disabled bool     `msgpack:"x,omitempty"`
	EditorID string   `msgpack:"e,omitempty"`
	Span     []uint32 `msgpack:"s,omitempty"`
}

type wireTree struct {
	Schema    uint16      `msgpack:"schema"`
	Blocks    []wireBlock `msgpack:"blocks"`
	Roots     []ID        `msgpack:"roots"`
	Variables []Variable  `msgpack:"vars,omitempty"`
}

// MarshalSnapshot encodes t with msgpack.
func MarshalSnapshot(t *Tree) ([]byte, error) {
	w := wireTree{Schema: snapshotSchema, Roots: t.Roots, Variables: t.Variables}
	for _, blk := range t.Blocks.Slice() {
		wb, err := toWire(blk)
		if err != nil {
			return nil, err
		}
		w.Blocks = append(w.Blocks, wb)
	}
	return msgpack.Marshal(&w)
}

// UnmarshalSnapshot decodes a tree written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Tree, error) {
	var w wireTree
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if w.Schema != snapshotSchema {
		return nil, fmt.Errorf("snapshot schema %d, want %d", w.Schema, snapshotSchema)
	}
	t := &Tree{
		Blocks:    NewArena[Block](uint(len(w.Blocks))),
		Roots:     w.Roots,
		Variables: w.Variables,
	}
	for i, wb := range w.Blocks {
		blk, err := fromWire(wb)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		t.Blocks.Allocate(blk)
	}
	return t, nil
}

func toWire(blk Block) (wireBlock, error) {
	wb := wireBlock{
		Next:     blk.Next,
		Parent:   blk.Parent,
		Inline:   blk.Inline,
		Comment:  blk.Comment,
		Disabled: blk.Disabled,
		EditorID: blk.EditorID,
	}
	if !blk.Span.Empty() {
		wb.Span = []uint32{uint32(blk.Span.File), blk.Span.Start, blk.Span.End}
	}
	if blk.Shape == nil {
		return wb, fmt.Errorf("block without shape")
	}
	wb.Kind = blk.Shape.Kind()
	wb.Inputs = blk.Shape.ValueInputs()
	switch s := blk.Shape.(type) {
	case Noop:
		wb.Instr = uint8(isa.Noop)
	case SingleRegister:
		wb.Instr = uint8(s.Instr)
	case DoubleRegister:
		wb.Instr = uint8(s.Instr)
	case TripleRegister:
		wb.Instr = uint8(s.Instr)
	case Immediate:
		wb.Instr = uint8(s.Instr)
	case LabelGroup:
		wb.Text, wb.Body = s.Label, s.Body
	case Comment:
		wb.Text = s.Text
	case Register:
		wb.Text = s.Name
	case LabelRef:
		wb.Text = s.Name
	case Number:
		wb.Text = s.Value
	case Arithmetic:
		wb.Op = s.Op
	case Index:
		wb.Delta, wb.Negate = s.Delta, s.Negate
	case Variable:
		wb.Text = s.VarID
	default:
		return wb, fmt.Errorf("unsupported shape %T", s)
	}
	return wb, nil
}

func fromWire(wb wireBlock) (Block, error) {
	blk := Block{
		Next:     wb.Next,
		Parent:   wb.Parent,
		Inline:   wb.Inline,
		Comment:  wb.Comment,
		Disabled: wb.Disabled,
		EditorID: wb.EditorID,
	}
	if len(wb.Span) == 3 {
		blk.Span = source.Span{File: source.FileID(wb.Span[0]), Start: wb.Span[1], End: wb.Span[2]}
	}
	in := func(i int) ID {
		if i < len(wb.Inputs) {
			return wb.Inputs[i]
		}
		return NoID
	}
	instr := isa.Instruction(wb.Instr)
	switch wb.Kind {
	case KindNoop:
		blk.Shape = Noop{}
	case KindSingleRegister:
		blk.Shape = SingleRegister{Instr: instr, A: in(0)}
	case KindDoubleRegister:
		blk.Shape = DoubleRegister{Instr: instr, A: in(0), B: in(1)}
	case KindTripleRegister:
		blk.Shape = TripleRegister{Instr: instr, A: in(0), B: in(1), C: in(2)}
	case KindImmediate:
		blk.Shape = Immediate{Instr: instr, A: in(0), Imm: in(1)}
	case KindLabelGroup:
		blk.Shape = LabelGroup{Label: wb.Text, Body: wb.Body}
	case KindComment:
		blk.Shape = Comment{Text: wb.Text}
	case KindRegister:
		blk.Shape = Register{Name: wb.Text}
	case KindLabel:
		blk.Shape = LabelRef{Name: wb.Text}
	case KindNumber:
		blk.Shape = Number{Value: wb.Text}
	case KindArithmetic:
		blk.Shape = Arithmetic{Op: wb.Op, A: in(0), B: in(1)}
	case KindIndex:
		blk.Shape = Index{At: in(0), Delta: wb.Delta, Negate: wb.Negate}
	case KindVariable:
		blk.Shape = Variable{VarID: wb.Text}
	default:
		return blk, fmt.Errorf("unknown block kind %d", wb.Kind)
	}
	return blk, nil
}
