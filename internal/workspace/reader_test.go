package workspace

import (
	"context"
	"strings"
	"testing"

	"quanta/internal/blocks"
	"quanta/internal/codegen"
	"quanta/internal/diag"
	"quanta/internal/source"
	"quanta/internal/testkit"
)

func read(t *testing.T, xml string) (Result, *diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("ws.xml", []byte(xml))
	bag := diag.NewBag(100)
	res := Read(fs, id, diag.BagReporter{Bag: bag})
	if res.Tree == nil {
		t.Fatal("Read returned a nil tree")
	}
	return res, bag, fs
}

func gen(t *testing.T, tree *blocks.Tree) string {
	t.Helper()
	out, err := codegen.Generate(context.Background(), tree, codegen.DefaultOptions())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

const labelLoop = `<xml xmlns="https://developers.google.com/blockly/xml">
  <block type="label_group" id="lg" x="10" y="10">
    <field name="LABEL">loop</field>
    <statement name="STATEMENTS">
      <block type="instruction_double_register" id="b1">
        <field name="INSTRUCTION">MOV</field>
        <value name="REGISTER_A">
          <block type="type_register" id="r1"><field name="NAME">$1</field></block>
        </value>
        <value name="REGISTER_B">
          <shadow type="type_register" id="s1"><field name="NAME">$zero</field></shadow>
        </value>
        <next>
          <block type="instruction_single_register" id="b2">
            <field name="INSTRUCTION">JUMP</field>
            <value name="REGISTER_A">
              <block type="type_label" id="l1"><field name="NAME">loop</field></block>
            </value>
          </block>
        </next>
      </block>
    </statement>
  </block>
</xml>`

func TestReadLabelGroup(t *testing.T) {
	res, bag, _ := read(t, labelLoop)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if res.Blocks != 6 {
		t.Errorf("Blocks = %d, want 6", res.Blocks)
	}
	if err := testkit.CheckTreeInvariants(res.Tree); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
	want := "loop:\n    mov $1, $zero\n    j .loop\n"
	if got := gen(t, res.Tree); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadEditorMetadata(t *testing.T) {
	res, _, fs := read(t, labelLoop)
	root := res.Tree.Get(res.Tree.Roots[0])
	if root.EditorID != "lg" {
		t.Errorf("EditorID = %q, want lg", root.EditorID)
	}
	got := string(fs.Get(root.Span.File).Content[root.Span.Start:root.Span.End])
	if !strings.HasPrefix(got, `<block type="label_group"`) || !strings.HasSuffix(got, "</block>") {
		t.Errorf("span covers %q", got)
	}
}

func TestReadLegacyInputNames(t *testing.T) {
	xml := `<xml>
  <block type="label_group">
    <field name="LABEL">main</field>
    <statement name="NAME">
      <block type="instruction_double_register">
        <field name="INSTRUCTION">ADD</field>
        <value name="DESTINATION"><block type="type_register"><field name="NAME">$2</field></block></value>
        <value name="SOURCE"><block type="type_register"><field name="NAME">$3</field></block></value>
        <next>
          <block type="instruction_single_register">
            <field name="INSTRUCTION">NOT</field>
            <value name="NAME"><block type="type_register"><field name="NAME">$2</field></block></value>
          </block>
        </next>
      </block>
    </statement>
  </block>
</xml>`
	res, bag, _ := read(t, xml)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	want := "main:\n    add $2, $3\n    not $2\n"
	if got := gen(t, res.Tree); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadCommentsAndDisabled(t *testing.T) {
	xml := `<xml>
  <block type="instruction_immediate">
    <field name="INSTRUCTION">LOAD_IMMEDIATE</field>
    <comment pinned="false" h="80" w="160">counter</comment>
    <value name="REGISTER_A"><block type="type_register"><field name="NAME">$1</field></block></value>
    <value name="IMMEDIATE"><block type="math_number"><field name="NUM">3</field></block></value>
    <next>
      <block type="instruction_noop" disabled="true">
        <next>
          <block type="comment"><field name="COMMENT">done</field></block>
        </next>
      </block>
    </next>
  </block>
</xml>`
	res, bag, _ := read(t, xml)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	want := "; counter\nli $1, 3\n; done\n"
	if got := gen(t, res.Tree); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadVariables(t *testing.T) {
	xml := `<xml>
  <variables>
    <variable id="v1" type="">count</variable>
    <variable id="v2" type="">unused</variable>
  </variables>
  <block type="instruction_double_register">
    <field name="INSTRUCTION">LOAD</field>
    <value name="REGISTER_A">
      <block type="math_index">
        <field name="DELTA">1</field>
        <value name="AT"><block type="variables_get"><field name="VAR" id="v1">count</field></block></value>
      </block>
    </value>
    <value name="REGISTER_B"><block type="variables_get"><field name="VAR">legacy</field></block></value>
  </block>
</xml>`
	res, bag, _ := read(t, xml)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	if n := len(res.Tree.Variables); n != 3 {
		t.Fatalf("declared %d variables, want 3", n)
	}
	want := "var count, legacy;\n\n\nload (count + 1), legacy\n"
	if got := gen(t, res.Tree); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadNormalisesText(t *testing.T) {
	xml := "<xml><block type=\"comment\"><field name=\"COMMENT\">cafe\u0301</field></block></xml>"
	res, _, _ := read(t, xml)
	c, ok := res.Tree.Get(res.Tree.Roots[0]).Shape.(blocks.Comment)
	if !ok {
		t.Fatal("root is not a comment block")
	}
	if c.Text != "caf\u00e9" {
		t.Errorf("Text = %+q, want NFC form", c.Text)
	}
}

func TestReadDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want []diag.Code
		err  bool
	}{
		{
			name: "malformed",
			xml:  `<xml><block type="instruction_noop"></xml>`,
			want: []diag.Code{diag.WsMalformedXML},
			err:  true,
		},
		{
			name: "wrong root",
			xml:  `<workspace/>`,
			want: []diag.Code{diag.WsMalformedXML},
			err:  true,
		},
		{
			name: "empty",
			xml:  `<xml></xml>`,
			want: []diag.Code{diag.WsEmptyWorkspace},
		},
		{
			name: "unknown block type",
			xml:  `<xml><block type="controls_if"/></xml>`,
			want: []diag.Code{diag.WsUnknownBlockType},
			err:  true,
		},
		{
			name: "unknown instruction",
			xml:  `<xml><block type="instruction_single_register"><field name="INSTRUCTION">HALT</field></block></xml>`,
			want: []diag.Code{diag.WsUnknownInstr},
			err:  true,
		},
		{
			name: "instruction in wrong block",
			xml:  `<xml><block type="instruction_single_register"><field name="INSTRUCTION">MOV</field></block></xml>`,
			want: []diag.Code{diag.WsInstrShape},
			err:  true,
		},
		{
			name: "bad operator",
			xml:  `<xml><block type="math_arithmetic"><field name="OP">POWER</field></block></xml>`,
			want: []diag.Code{diag.WsUnknownOperator},
			err:  true,
		},
		{
			name: "bad number",
			xml:  `<xml><block type="math_number"><field name="NUM">12abc</field></block></xml>`,
			want: []diag.Code{diag.WsBadNumberField},
		},
		{
			name: "bad register",
			xml:  `<xml><block type="type_register"><field name="NAME">$99</field></block></xml>`,
			want: []diag.Code{diag.WsUnknownRegister},
		},
		{
			name: "undeclared variable id",
			xml:  `<xml><block type="variables_get"><field name="VAR" id="nope">x</field></block></xml>`,
			want: []diag.Code{diag.WsUnknownVariable},
		},
		{
			name: "extra input",
			xml:  `<xml><block type="instruction_noop"><value name="REGISTER_A"/></block></xml>`,
			want: []diag.Code{diag.WsUnknownInput},
		},
		{
			name: "bad index delta",
			xml:  `<xml><block type="math_index"><field name="DELTA">one</field></block></xml>`,
			want: []diag.Code{diag.WsBadNumberField},
			err:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag, _ := read(t, tt.xml)
			got := codes(bag)
			if len(got) != len(tt.want) {
				t.Fatalf("codes = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("code[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
			if bag.HasErrors() != tt.err {
				t.Errorf("HasErrors = %v, want %v", bag.HasErrors(), tt.err)
			}
		})
	}
}

func TestReadDroppedBlockKeepsChain(t *testing.T) {
	xml := `<xml>
  <block type="instruction_noop">
    <next>
      <block type="unknown_thing">
        <next><block type="instruction_noop"/></next>
      </block>
    </next>
  </block>
</xml>`
	res, bag, _ := read(t, xml)
	if !bag.HasErrors() {
		t.Fatal("expected an error for the unknown block")
	}
	if got, want := gen(t, res.Tree), "NOOP\nNOOP\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReadDiagnosticSpan(t *testing.T) {
	xml := "<xml>\n  <block type=\"nope\"/>\n</xml>"
	_, bag, fs := read(t, xml)
	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics", len(items))
	}
	start, _ := fs.Resolve(items[0].Primary)
	if start.Line != 2 || start.Col != 3 {
		t.Errorf("position = %d:%d, want 2:3", start.Line, start.Col)
	}
}
