package workspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"quanta/internal/blocks"
	"quanta/internal/diag"
	"quanta/internal/isa"
	"quanta/internal/source"
)

// Input names accepted per slot. The first entry is the current palette's;
// later ones come from older palette revisions.
var (
	inputA     = []string{"REGISTER_A", "DESTINATION", "NAME"}
	inputB     = []string{"REGISTER_B", "SOURCE"}
	inputC     = []string{"REGISTER_C"}
	inputImm   = []string{"IMMEDIATE"}
	inputBody  = []string{"STATEMENTS", "NAME"}
	inputArith = [][]string{{"A"}, {"B"}}
	inputAt    = []string{"AT"}
)

// Result is the outcome of reading one workspace file.
type Result struct {
	Tree *blocks.Tree
	// Blocks is the number of block elements seen, including dropped ones.
	Blocks int
}

type reader struct {
	file     source.FileID
	rep      diag.Reporter
	b        *blocks.Builder
	seen     int
	varsByID map[string]blocks.Variable
	varsName map[string]string
}

// Read parses the file content registered under id in fs. The returned tree
// is never nil; when errors were reported it holds whatever could be read.
func Read(fs *source.FileSet, id source.FileID, rep diag.Reporter) Result {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	f := fs.Get(id)
	r := &reader{
		file:     id,
		rep:      rep,
		b:        blocks.NewBuilder(0),
		varsByID: make(map[string]blocks.Variable),
		varsName: make(map[string]string),
	}
	if f == nil {
		return Result{Tree: r.b.Build()}
	}
	root, err := parseDOM(id, f.Content)
	if err != nil {
		sp := source.Span{File: id}
		var se *syntaxError
		if errors.As(err, &se) {
			sp.Start, sp.End = se.off, se.off
		}
		diag.ReportError(rep, diag.WsMalformedXML, sp, fmt.Sprintf("malformed workspace XML: %v", err)).Emit()
		return Result{Tree: r.b.Build()}
	}
	r.workspace(root)
	return Result{Tree: r.b.Build(), Blocks: r.seen}
}

// ReadFile loads path into fs and reads it.
func ReadFile(fs *source.FileSet, path string, rep diag.Reporter) (Result, source.FileID, error) {
	id, err := fs.Load(path)
	if err != nil {
		return Result{}, 0, fmt.Errorf("read workspace %s: %w", path, err)
	}
	return Read(fs, id, rep), id, nil
}

func (r *reader) workspace(root *element) {
	if root.name != "xml" {
		diag.ReportError(r.rep, diag.WsMalformedXML, root.span,
			fmt.Sprintf("expected <xml> root element, found <%s>", root.name)).Emit()
		return
	}
	for _, vars := range root.children("variables") {
		for _, v := range vars.children("variable") {
			r.declare(v)
		}
	}
	for _, el := range root.kids {
		switch el.name {
		case "block", "shadow":
			r.b.Root(r.chain(el))
		}
	}
	if r.seen == 0 {
		diag.ReportWarning(r.rep, diag.WsEmptyWorkspace, root.span, "workspace contains no blocks").Emit()
	}
}

func (r *reader) declare(el *element) {
	name := text(el)
	id := el.attr("id")
	if id == "" {
		id = name
	}
	v := blocks.Variable{ID: id, Name: name, Type: el.attr("type")}
	if _, dup := r.varsByID[id]; dup {
		return
	}
	r.varsByID[id] = v
	r.varsName[name] = id
	r.b.DeclareVariable(v)
}

// chain reads a block and everything linked through <next>, returning the
// head. Dropped blocks are skipped; their successors still join the chain.
func (r *reader) chain(el *element) blocks.ID {
	var ids []blocks.ID
	for cur := el; cur != nil; cur = blockIn(cur.child("next")) {
		ids = append(ids, r.block(cur))
	}
	return r.b.Chain(ids...)
}

// blockIn returns the block plugged into a connection element. A real
// block wins over the shadow that backs the same connection.
func blockIn(conn *element) *element {
	if conn == nil {
		return nil
	}
	if b := conn.child("block"); b != nil {
		return b
	}
	return conn.child("shadow")
}

// block reads one block element without its successors.
func (r *reader) block(el *element) blocks.ID {
	r.seen++
	typ := el.attr("type")
	kind, ok := blocks.KindOf(typ)
	if !ok {
		diag.ReportError(r.rep, diag.WsUnknownBlockType, el.span,
			fmt.Sprintf("unknown block type %q", typ)).Emit()
		return blocks.NoID
	}
	in := r.inputs(el)
	shape, ok := r.shape(el, kind, in)
	if !ok {
		return blocks.NoID
	}
	id := r.b.Add(shape)
	blk := r.b.Block(id)
	blk.EditorID = el.attr("id")
	blk.Span = el.span
	if c := el.child("comment"); c != nil {
		blk.Comment = text(c)
	}
	if el.attr("disabled") == "true" || el.attr("enabled") == "false" {
		blk.Disabled = true
	}
	return id
}

// connections is the set of value and statement inputs of one block.
type connections struct {
	el     *element
	values map[string]*element
	stmts  map[string]*element
	used   map[*element]bool
}

func (r *reader) inputs(el *element) *connections {
	c := &connections{
		el:     el,
		values: make(map[string]*element),
		stmts:  make(map[string]*element),
		used:   make(map[*element]bool),
	}
	for _, v := range el.children("value") {
		c.values[v.attr("name")] = v
	}
	for _, s := range el.children("statement") {
		c.stmts[s.attr("name")] = s
	}
	return c
}

// value reads the first present input among names.
func (r *reader) value(c *connections, names []string) blocks.ID {
	for _, n := range names {
		conn, ok := c.values[n]
		if !ok || c.used[conn] {
			continue
		}
		c.used[conn] = true
		if b := blockIn(conn); b != nil {
			return r.block(b)
		}
		return blocks.NoID
	}
	return blocks.NoID
}

func (r *reader) statement(c *connections, names []string) blocks.ID {
	for _, n := range names {
		conn, ok := c.stmts[n]
		if !ok || c.used[conn] {
			continue
		}
		c.used[conn] = true
		if b := blockIn(conn); b != nil {
			return r.chain(b)
		}
		return blocks.NoID
	}
	return blocks.NoID
}

// leftovers warns about inputs the block type does not have.
func (r *reader) leftovers(c *connections, typ string) {
	warn := func(conn *element, what string) {
		if c.used[conn] {
			return
		}
		diag.ReportWarning(r.rep, diag.WsUnknownInput, conn.span,
			fmt.Sprintf("%s input %q is not part of %s; ignored", what, conn.attr("name"), typ)).Emit()
	}
	for _, v := range c.el.children("value") {
		warn(v, "value")
	}
	for _, s := range c.el.children("statement") {
		warn(s, "statement")
	}
}

func (r *reader) shape(el *element, kind blocks.Kind, c *connections) (blocks.Shape, bool) {
	defer r.leftovers(c, kind.String())
	switch kind {
	case blocks.KindNoop:
		return blocks.Noop{}, r.instruction(el, isa.ShapeNoOperand, true) != isa.InvalidInstruction
	case blocks.KindSingleRegister:
		in := r.instruction(el, isa.ShapeSingleRegister, false)
		return blocks.SingleRegister{Instr: in, A: r.value(c, inputA)}, in.Valid()
	case blocks.KindDoubleRegister:
		in := r.instruction(el, isa.ShapeDoubleRegister, false)
		a := r.value(c, inputA)
		return blocks.DoubleRegister{Instr: in, A: a, B: r.value(c, inputB)}, in.Valid()
	case blocks.KindTripleRegister:
		in := r.instruction(el, isa.ShapeTripleRegister, false)
		a := r.value(c, inputA)
		b := r.value(c, inputB)
		return blocks.TripleRegister{Instr: in, A: a, B: b, C: r.value(c, inputC)}, in.Valid()
	case blocks.KindImmediate:
		in := r.instruction(el, isa.ShapeImmediate, false)
		a := r.value(c, inputA)
		return blocks.Immediate{Instr: in, A: a, Imm: r.value(c, inputImm)}, in.Valid()
	case blocks.KindLabelGroup:
		label, _ := field(el, "LABEL")
		return blocks.LabelGroup{Label: label, Body: r.statement(c, inputBody)}, true
	case blocks.KindComment:
		txt, _ := field(el, "COMMENT")
		return blocks.Comment{Text: txt}, true
	case blocks.KindRegister:
		name, f := field(el, "NAME")
		if !isa.IsRegister(name) {
			diag.ReportWarning(r.rep, diag.WsUnknownRegister, spanOf(f, el),
				fmt.Sprintf("unknown register %q; emitted verbatim", name)).Emit()
		}
		return blocks.Register{Name: name}, true
	case blocks.KindLabel:
		name, _ := field(el, "NAME")
		return blocks.LabelRef{Name: name}, true
	case blocks.KindNumber:
		num, f := field(el, "NUM")
		if _, err := strconv.ParseFloat(strings.TrimSpace(num), 64); err != nil {
			diag.ReportWarning(r.rep, diag.WsBadNumberField, spanOf(f, el),
				fmt.Sprintf("number field %q is not numeric; emitted verbatim", num)).Emit()
		}
		return blocks.Number{Value: num}, true
	case blocks.KindArithmetic:
		opText, f := field(el, "OP")
		op, ok := blocks.ParseArithOp(opText)
		a := r.value(c, inputArith[0])
		b := r.value(c, inputArith[1])
		if !ok {
			diag.ReportError(r.rep, diag.WsUnknownOperator, spanOf(f, el),
				fmt.Sprintf("unknown arithmetic operator %q", opText)).Emit()
		}
		return blocks.Arithmetic{Op: op, A: a, B: b}, ok
	case blocks.KindIndex:
		return r.index(el, c)
	case blocks.KindVariable:
		return r.variable(el)
	}
	return nil, false
}

// instruction reads and checks the INSTRUCTION field. Noop blocks may omit
// it; the palette gives them no dropdown.
func (r *reader) instruction(el *element, want isa.Shape, optional bool) isa.Instruction {
	id, f := field(el, "INSTRUCTION")
	if f == nil && optional {
		return isa.Noop
	}
	in, ok := isa.Parse(id)
	if !ok {
		diag.ReportError(r.rep, diag.WsUnknownInstr, spanOf(f, el),
			fmt.Sprintf("unknown instruction %q", id)).Emit()
		return isa.InvalidInstruction
	}
	if in.Shape() != want {
		diag.ReportError(r.rep, diag.WsInstrShape, spanOf(f, el),
			fmt.Sprintf("instruction %s takes %s operands, block offers %s", in, in.Shape(), want)).Emit()
		return isa.InvalidInstruction
	}
	return in
}

func (r *reader) index(el *element, c *connections) (blocks.Shape, bool) {
	at := r.value(c, inputAt)
	shape := blocks.Index{At: at}
	if d, f := field(el, "DELTA"); f != nil && strings.TrimSpace(d) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(d))
		if err != nil {
			diag.ReportError(r.rep, diag.WsBadNumberField, f.span,
				fmt.Sprintf("index delta %q is not an integer", d)).Emit()
			return nil, false
		}
		shape.Delta = n
	}
	if neg, _ := field(el, "NEGATE"); strings.EqualFold(neg, "TRUE") {
		shape.Negate = true
	}
	return shape, true
}

// variable resolves a variables_get field by id, falling back to the name
// for files written before fields carried ids.
func (r *reader) variable(el *element) (blocks.Shape, bool) {
	name, f := field(el, "VAR")
	id := ""
	if f != nil {
		id = f.attr("id")
	}
	if id != "" {
		if _, ok := r.varsByID[id]; !ok {
			diag.ReportWarning(r.rep, diag.WsUnknownVariable, spanOf(f, el),
				fmt.Sprintf("variable id %q is not declared in <variables>", id)).Emit()
		}
		return blocks.Variable{VarID: id}, true
	}
	if known, ok := r.varsName[name]; ok {
		return blocks.Variable{VarID: known}, true
	}
	v := blocks.Variable{ID: name, Name: name}
	r.varsByID[name] = v
	r.varsName[name] = name
	r.b.DeclareVariable(v)
	return blocks.Variable{VarID: name}, true
}

// field returns the NFC-normalised text of the named field and its element.
func field(el *element, name string) (string, *element) {
	for _, f := range el.children("field") {
		if f.attr("name") == name {
			return text(f), f
		}
	}
	return "", nil
}

func text(el *element) string {
	return norm.NFC.String(el.text.String())
}

func spanOf(el, fallback *element) source.Span {
	if el != nil {
		return el.span
	}
	return fallback.span
}
