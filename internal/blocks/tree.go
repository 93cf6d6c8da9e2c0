// Package blocks models the editor's block workspace as an immutable arena
// snapshot: blocks are addressed by ID, links between them (value inputs,
// nested statements, next) are IDs, and code generation only reads it.
package blocks

import "quanta/internal/source"

// ID addresses a block inside a Tree. NoID marks an empty slot or link.
type ID uint32

const NoID ID = 0

func (id ID) IsValid() bool { return id != NoID }

// Block is one node of the workspace.
type Block struct {
	Shape Shape
	// Next is the sequential successor in a statement chain.
	Next ID
	// Parent is the block this one is attached to: the owner of the value or
	// statement input it sits in, or its predecessor in a chain.
	Parent ID
	// Inline is set when the block is plugged into Parent's value input, i.e.
	// its output is consumed by another block.
	Inline   bool
	Comment  string
	Disabled bool
	EditorID string
	Span     source.Span
}

// Kind is shorthand for b.Shape.Kind().
func (b *Block) Kind() Kind {
	if b == nil || b.Shape == nil {
		return KindInvalid
	}
	return b.Shape.Kind()
}

// Variable is a workspace variable model.
type Variable struct {
	ID   string `msgpack:"id"`
	Name string `msgpack:"name"`
	Type string `msgpack:"type,omitempty"`
	// Developer variables are declared by tooling rather than the user and
	// are always emitted.
	Developer bool `msgpack:"dev,omitempty"`
}

// Tree is a workspace snapshot: a forest of chains rooted at Roots.
type Tree struct {
	Blocks    *Arena[Block]
	Roots     []ID
	Variables []Variable
}

// Get returns the block for id or nil.
func (t *Tree) Get(id ID) *Block {
	if t == nil || t.Blocks == nil {
		return nil
	}
	return t.Blocks.Get(uint32(id))
}

// Len is the number of blocks in the arena.
func (t *Tree) Len() int {
	if t == nil || t.Blocks == nil {
		return 0
	}
	return int(t.Blocks.Len())
}

// Variable looks up a variable model by editor id.
func (t *Tree) Variable(id string) (Variable, bool) {
	for _, v := range t.Variables {
		if v.ID == id {
			return v, true
		}
	}
	return Variable{}, false
}

// IDs returns every block id in allocation order.
func (t *Tree) IDs() []ID {
	out := make([]ID, t.Len())
	for i := range out {
		out[i] = ID(i + 1)
	}
	return out
}

// UsedVariables returns the variables referenced by Variable blocks, in
// order of first reference. Unknown variable ids are skipped.
func (t *Tree) UsedVariables() []Variable {
	var out []Variable
	seen := make(map[string]bool)
	for _, id := range t.IDs() {
		v, ok := t.Get(id).Shape.(Variable)
		if !ok || seen[v.VarID] {
			continue
		}
		seen[v.VarID] = true
		if model, ok := t.Variable(v.VarID); ok {
			out = append(out, model)
		}
	}
	return out
}
