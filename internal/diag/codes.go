package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// workspace reader
	WsInfo             Code = 1000
	WsMalformedXML     Code = 1001
	WsUnknownBlockType Code = 1002
	WsUnknownInstr     Code = 1003
	WsInstrShape       Code = 1004
	WsBadNumberField   Code = 1005
	WsUnknownOperator  Code = 1006
	WsUnknownVariable  Code = 1007
	WsUnknownInput     Code = 1008
	WsUnknownRegister  Code = 1009
	WsEmptyWorkspace   Code = 1010

	// tree invariants
	TreeCycle        Code = 2001
	TreeSharedChild  Code = 2002
	TreeDanglingLink Code = 2003
	TreeBadParent    Code = 2004

	// generator defects
	GenMissingAlias  Code = 3001
	GenUnknownShape  Code = 3002
	GenInvalidInstr  Code = 3003
	GenShapeMismatch Code = 3004

	// project / io
	IOReadFailed      Code = 4001
	IOWriteFailed     Code = 4002
	PrjManifestBroken Code = 5001
	PrjNoInputs       Code = 5002
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	WsInfo:             "Workspace information",
	WsMalformedXML:     "Malformed workspace XML",
	WsUnknownBlockType: "Unknown block type",
	WsUnknownInstr:     "Unknown instruction",
	WsInstrShape:       "Instruction not offered by this block",
	WsBadNumberField:   "Field is not a number",
	WsUnknownOperator:  "Unknown arithmetic operator",
	WsUnknownVariable:  "Reference to undeclared variable",
	WsUnknownInput:     "Unknown input for block type",
	WsUnknownRegister:  "Unknown register name",
	WsEmptyWorkspace:   "Workspace contains no blocks",
	TreeCycle:          "Block chain contains a cycle",
	TreeSharedChild:    "Block is attached in more than one place",
	TreeDanglingLink:   "Link points outside the workspace",
	TreeBadParent:      "Parent link disagrees with the owning block",
	GenMissingAlias:    "Instruction has no mnemonic alias",
	GenUnknownShape:    "Block shape has no emitter",
	GenInvalidInstr:    "Invalid instruction identifier",
	GenShapeMismatch:   "Instruction used with the wrong block shape",
	IOReadFailed:       "Failed to read file",
	IOWriteFailed:      "Failed to write file",
	PrjManifestBroken:  "Invalid quanta.toml",
	PrjNoInputs:        "No workspace files to generate",
}

// ID is the stable short form, e.g. WS1002.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("WS%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TREE%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	if desc, ok := codeDescription[c]; ok {
		return desc
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
